// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-seedkeeper.
//
// go-seedkeeper is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package kdf

import (
	"fmt"
	"strconv"

	"github.com/jeremyhahn/go-seedkeeper/pkg/secret"
)

const (
	// MinPasswordLength is the shortest password that can be derived
	MinPasswordLength = 1

	// MaxPasswordLength is the longest password that can be derived
	MaxPasswordLength = 128

	// MaxInputLength bounds the derivation input accepted from callers
	MaxInputLength = 64

	// DefaultInput is the input of the one-touch password
	DefaultInput = "default"

	// DefaultLength is the length of the one-touch password
	DefaultLength = 100
)

// DerivePassword derives a password of exactly length characters.
//
// The decimal length is appended to input before derivation, enough raw
// bytes are expanded for the charset, and the encoded result is truncated to
// length.
func DerivePassword(input string, material []byte, length int, cs Charset) (string, error) {
	if input == "" {
		return "", ErrEmptyInput
	}
	if len(material) == 0 {
		return "", ErrEmptySeed
	}
	if length < MinPasswordLength || length > MaxPasswordLength {
		return "", fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidLength, length,
			MinPasswordLength, MaxPasswordLength)
	}
	if !cs.Valid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidCharset, cs)
	}

	ikm := []byte(input + strconv.Itoa(length))
	defer secret.Zero(ikm)

	raw := make([]byte, cs.InputLength(length))
	defer secret.Zero(raw)

	if err := DeriveKey(raw, ikm, material); err != nil {
		return "", err
	}

	encoded := cs.Encode(raw)
	if len(encoded) < length {
		return "", fmt.Errorf("%w: got %d, want %d", ErrShortEncoding, len(encoded), length)
	}
	return encoded[:length], nil
}

// DefaultPassword derives the one-touch password: 100 base62 characters for
// the input "default".
func DefaultPassword(material []byte) (string, error) {
	return DerivePassword(DefaultInput, material, DefaultLength, Base62)
}
