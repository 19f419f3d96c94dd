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

// Package encoding implements the byte-to-text encoders used to turn derived
// key material into printable passwords.
//
// Four alphabets are provided:
//
//   - Base62: A-Z, a-z, 0-9 with a two-symbol escape for the values 61..63
//   - Base94: printable ASCII from space to '~' without the backslash
//   - Letters: one byte per character, a-z then A-Z
//   - Digits: one byte per character, 0-9
//
// Base62 and Base94 are reversible; the letter and digit mappings reduce
// each byte modulo the alphabet size and cannot be decoded.
package encoding

import (
	"fmt"
	"strings"
)

const (
	// Base62Alphabet lists the base62 symbols in value order
	Base62Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// base62Escape introduces the two-symbol sequences for 61, 62 and 63
	base62Escape = '9'

	// base62Direct is the number of values written as a single symbol
	base62Direct = 61
)

// EncodeBase62 packs every 3 input bytes into four 6-bit groups. A trailing
// single byte yields two groups and a trailing pair yields three. Groups
// below 61 map to one symbol; 61, 62 and 63 are written as "9A", "9B" and
// "9C".
func EncodeBase62(src []byte) string {
	var sb strings.Builder
	sb.Grow((len(src)*4+2)/3 + len(src)/8)

	for i := 0; i < len(src); i += 3 {
		v := uint32(src[i]) << 16
		groups := 2
		if i+1 < len(src) {
			v |= uint32(src[i+1]) << 8
			groups++
		}
		if i+2 < len(src) {
			v |= uint32(src[i+2])
			groups++
		}
		for k := 0; k < groups; k++ {
			writeBase62(&sb, byte(v>>(18-6*k))&0x3F)
		}
	}
	return sb.String()
}

func writeBase62(sb *strings.Builder, v byte) {
	if v < base62Direct {
		sb.WriteByte(Base62Alphabet[v])
		return
	}
	sb.WriteByte(base62Escape)
	sb.WriteByte(Base62Alphabet[v-base62Direct])
}

// DecodeBase62 reverses EncodeBase62. ASCII whitespace is ignored.
func DecodeBase62(s string) ([]byte, error) {
	out := make([]byte, 0, len(s)*3/4+2)
	var word [4]byte
	j := 0

	for i := 0; i < len(s); i++ {
		c := s[i]
		if isSpace(c) {
			continue
		}

		if c == base62Escape {
			i++
			if i >= len(s) {
				return nil, ErrTruncatedEscape
			}
			switch s[i] {
			case 'A':
				word[j] = 61
			case 'B':
				word[j] = 62
			case 'C':
				word[j] = 63
			default:
				return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidEscape, s[i], i)
			}
		} else {
			idx := strings.IndexByte(Base62Alphabet[:base62Direct], c)
			if idx < 0 {
				return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidSymbol, c, i)
			}
			word[j] = byte(idx)
		}

		j++
		if j == 4 {
			out = append(out,
				word[0]<<2|word[1]>>4,
				word[1]<<4|word[2]>>2,
				word[2]<<6|word[3])
			j = 0
		}
	}

	switch j {
	case 1:
		// A lone trailing group carries only 6 bits; no input produces it.
		return nil, ErrInvalidLength
	case 2:
		out = append(out, word[0]<<2|word[1]>>4)
	case 3:
		out = append(out,
			word[0]<<2|word[1]>>4,
			word[1]<<4|word[2]>>2)
	}
	return out, nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
