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
	"math"
	"strings"

	"github.com/jeremyhahn/go-seedkeeper/pkg/encoding"
)

// Charset selects the output alphabet of a derived password.
type Charset int

const (
	// Base62 yields letters and digits
	Base62 Charset = iota

	// Base94 yields letters, digits and symbols
	Base94

	// LettersOnly yields a-z and A-Z
	LettersOnly

	// DigitsOnly yields 0-9
	DigitsOnly
)

// base62Ratio is the number of base62 symbols carried by one byte.
var base62Ratio = math.Log(256) / math.Log(62)

// Charsets lists every supported charset.
func Charsets() []Charset {
	return []Charset{Base62, Base94, LettersOnly, DigitsOnly}
}

// Valid reports whether c is a known charset.
func (c Charset) Valid() bool {
	return c >= Base62 && c <= DigitsOnly
}

func (c Charset) String() string {
	switch c {
	case Base62:
		return "base62"
	case Base94:
		return "base94"
	case LettersOnly:
		return "letters"
	case DigitsOnly:
		return "digits"
	default:
		return fmt.Sprintf("Charset(%d)", int(c))
	}
}

// ParseCharset maps a name to a Charset. Matching is case-insensitive.
func ParseCharset(name string) (Charset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "base62", "alphanumeric", "":
		return Base62, nil
	case "base94", "symbols":
		return Base94, nil
	case "letters", "letters-only":
		return LettersOnly, nil
	case "digits", "numbers", "digits-only":
		return DigitsOnly, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidCharset, name)
	}
}

// InputLength returns the number of raw key bytes that encode to at least n
// characters.
func (c Charset) InputLength(n int) int {
	switch c {
	case Base62:
		keyLen := int(math.Ceil(float64(n) / base62Ratio))
		if keyLen < 2 {
			return 2
		}
		return keyLen
	case Base94:
		blocks := (n + encoding.Base94OutputBlock - 1) / encoding.Base94OutputBlock
		return blocks * encoding.Base94InputBlock
	case LettersOnly, DigitsOnly:
		return n
	default:
		return 0
	}
}

// Encode renders raw key bytes in the charset's alphabet.
func (c Charset) Encode(raw []byte) string {
	switch c {
	case Base62:
		return encoding.EncodeBase62(raw)
	case Base94:
		return encoding.EncodeBase94(raw)
	case LettersOnly:
		return encoding.EncodeLetters(raw)
	case DigitsOnly:
		return encoding.EncodeDigits(raw)
	default:
		return ""
	}
}
