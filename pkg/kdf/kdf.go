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

// Package kdf derives key bytes and passwords deterministically from seed
// material using HKDF-SHA512.
//
// Every output is a pure function of its inputs: the same input string, seed
// material, length and charset always yield the same password. The requested
// length is folded into the HKDF input, so a 16 character password is not a
// prefix of the 32 character password for the same input.
package kdf

import (
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Info is the HKDF context string. It is fixed for compatibility with
// passwords generated by deployed devices.
const Info = "turtlpass"

// MaxOutputLength is the largest expansion HKDF-SHA512 allows.
const MaxOutputLength = 255 * sha512.Size

// DeriveKey fills dst with HKDF-SHA512 output keyed by input, salted with
// the raw seed material bytes.
func DeriveKey(dst, input, material []byte) error {
	if len(dst) == 0 {
		return ErrEmptyOutput
	}
	if len(dst) > MaxOutputLength {
		return fmt.Errorf("%w: %d bytes", ErrOutputTooLong, len(dst))
	}
	if len(input) == 0 {
		return ErrEmptyInput
	}
	if len(material) == 0 {
		return ErrEmptySeed
	}

	reader := hkdf.New(sha512.New, input, material, []byte(Info))
	if _, err := io.ReadFull(reader, dst); err != nil {
		return fmt.Errorf("kdf: failed to expand key: %w", err)
	}
	return nil
}
