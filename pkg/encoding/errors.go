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

package encoding

import "errors"

var (
	// ErrInvalidSymbol is returned when encoded input contains a character
	// outside the alphabet
	ErrInvalidSymbol = errors.New("encoding: invalid symbol")

	// ErrTruncatedEscape is returned when a base62 escape symbol ends the input
	ErrTruncatedEscape = errors.New("encoding: truncated escape sequence")

	// ErrInvalidEscape is returned when a base62 escape symbol is followed by
	// anything other than 'A', 'B' or 'C'
	ErrInvalidEscape = errors.New("encoding: invalid escape sequence")

	// ErrInvalidLength is returned when encoded input has a length no encoder
	// could have produced
	ErrInvalidLength = errors.New("encoding: invalid encoded length")
)
