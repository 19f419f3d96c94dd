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

import (
	"fmt"

	"github.com/jeremyhahn/go-seedkeeper/pkg/secret"
)

const (
	// Base94Alphabet lists the base94 symbols in value order: printable
	// ASCII from space to '~' with the backslash removed.
	Base94Alphabet = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[]^_`abcdefghijklmnopqrstuvwxyz{|}~"

	// Base94InputBlock is the number of raw bytes per block
	Base94InputBlock = 9

	// Base94OutputBlock is the number of symbols per block
	Base94OutputBlock = 11

	base94Symbols = 94
	base94Mask    = 1<<24 - 1
	base94Mod     = (1 << 24) % base94Symbols
	base94Mod2    = (base94Mod * base94Mod) % base94Symbols
)

// Symbols dropped from the last block, indexed by the length of the
// partial tail. A decode tail with a zero entry cannot occur.
var (
	base94EncodeTailCut = [Base94InputBlock]int{0, 9, 8, 7, 6, 4, 3, 2, 1}
	base94DecodeTailCut = [Base94OutputBlock]int{0, 0, 8, 7, 6, 5, 0, 4, 3, 2, 1}
)

// EncodeBase94 converts every 9 input bytes into 11 symbols. The 72-bit block
// is held as three little-endian 24-bit limbs and repeatedly divided by 94,
// emitting the least significant digit first. A partial final block is zero
// padded and then trimmed to the shortest length that still decodes.
func EncodeBase94(src []byte) string {
	blocks := (len(src) + Base94InputBlock - 1) / Base94InputBlock
	out := make([]byte, blocks*Base94OutputBlock)

	in, o := 0, 0
	for ; in+Base94InputBlock <= len(src); in, o = in+Base94InputBlock, o+Base94OutputBlock {
		encodeBase94Block(out[o:o+Base94OutputBlock], src[in:in+Base94InputBlock])
	}

	if tail := len(src) % Base94InputBlock; tail > 0 {
		var buf [Base94InputBlock]byte
		copy(buf[:], src[in:])
		encodeBase94Block(out[o:o+Base94OutputBlock], buf[:])
		secret.Zero(buf[:])
		out = out[:len(out)-base94EncodeTailCut[tail]]
	}
	return string(out)
}

func encodeBase94Block(dst, x []byte) {
	a := uint32(x[0]) | uint32(x[1])<<8 | uint32(x[2])<<16
	b := uint32(x[3]) | uint32(x[4])<<8 | uint32(x[5])<<16
	c := uint32(x[6]) | uint32(x[7])<<8 | uint32(x[8])<<16

	for i := 0; i < Base94OutputBlock; i++ {
		d := (a + b*base94Mod + c*base94Mod2) % base94Symbols
		dst[i] = Base94Alphabet[d]
		b += (c % base94Symbols) << 24
		a += (b % base94Symbols) << 24
		c /= base94Symbols
		b /= base94Symbols
		a /= base94Symbols
	}
}

// DecodeBase94 reverses EncodeBase94.
func DecodeBase94(s string) ([]byte, error) {
	tail := len(s) % Base94OutputBlock
	if tail > 0 && base94DecodeTailCut[tail] == 0 {
		return nil, fmt.Errorf("%w: %d symbols", ErrInvalidLength, len(s))
	}

	blocks := (len(s) + Base94OutputBlock - 1) / Base94OutputBlock
	out := make([]byte, blocks*Base94InputBlock)
	src := []byte(s)

	in, o := 0, 0
	for ; in+Base94OutputBlock <= len(src); in, o = in+Base94OutputBlock, o+Base94InputBlock {
		if err := decodeBase94Block(out[o:o+Base94InputBlock], src[in:in+Base94OutputBlock]); err != nil {
			return nil, err
		}
	}

	if tail > 0 {
		var buf [Base94OutputBlock]byte
		for i := range buf {
			buf[i] = Base94Alphabet[0]
		}
		copy(buf[:], src[in:])
		if err := decodeBase94Block(out[o:o+Base94InputBlock], buf[:]); err != nil {
			return nil, err
		}
		out = out[:len(out)-base94DecodeTailCut[tail]]
	}
	return out, nil
}

func decodeBase94Block(dst, x []byte) error {
	var a, b, c uint32
	for i := Base94OutputBlock - 1; i >= 0; i-- {
		d, ok := base94Value(x[i])
		if !ok {
			return fmt.Errorf("%w: %q", ErrInvalidSymbol, x[i])
		}
		a *= base94Symbols
		b *= base94Symbols
		c *= base94Symbols
		a += d
		b += a >> 24
		c += b >> 24
		a &= base94Mask
		b &= base94Mask
	}

	dst[0] = byte(a)
	dst[1] = byte(a >> 8)
	dst[2] = byte(a >> 16)
	dst[3] = byte(b)
	dst[4] = byte(b >> 8)
	dst[5] = byte(b >> 16)
	dst[6] = byte(c)
	dst[7] = byte(c >> 8)
	dst[8] = byte(c >> 16)
	return nil
}

func base94Value(c byte) (uint32, bool) {
	if c < ' ' || c > '~' || c == '\\' {
		return 0, false
	}
	if c > '\\' {
		c--
	}
	return uint32(c - ' '), true
}
