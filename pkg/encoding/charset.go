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

const (
	// LettersAlphabet is the output alphabet of EncodeLetters
	LettersAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	// DigitsAlphabet is the output alphabet of EncodeDigits
	DigitsAlphabet = "0123456789"
)

// EncodeLetters maps each byte to LettersAlphabet[b%52].
func EncodeLetters(src []byte) string {
	return encodeModulo(src, LettersAlphabet)
}

// EncodeDigits maps each byte to DigitsAlphabet[b%10].
func EncodeDigits(src []byte) string {
	return encodeModulo(src, DigitsAlphabet)
}

func encodeModulo(src []byte, alphabet string) string {
	out := make([]byte, len(src))
	n := byte(len(alphabet))
	for i, b := range src {
		out[i] = alphabet[b%n]
	}
	return string(out)
}
