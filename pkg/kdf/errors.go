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

import "errors"

var (
	// ErrEmptyOutput is returned when the destination buffer has zero length
	ErrEmptyOutput = errors.New("kdf: output length must be positive")

	// ErrOutputTooLong is returned when more bytes are requested than
	// HKDF-SHA512 can expand
	ErrOutputTooLong = errors.New("kdf: output length exceeds HKDF limit")

	// ErrEmptyInput is returned when the derivation input is empty
	ErrEmptyInput = errors.New("kdf: input cannot be empty")

	// ErrEmptySeed is returned when the seed material is empty
	ErrEmptySeed = errors.New("kdf: seed material cannot be empty")

	// ErrInvalidLength is returned when a password length is out of range
	ErrInvalidLength = errors.New("kdf: invalid password length")

	// ErrInvalidCharset is returned for an unknown charset
	ErrInvalidCharset = errors.New("kdf: invalid charset")

	// ErrShortEncoding is returned when the encoder yields fewer characters
	// than requested
	ErrShortEncoding = errors.New("kdf: encoded output shorter than requested length")
)
