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

// Package chacha20poly1305 produces the ciphertext body of ChaCha20-Poly1305
// (RFC 8439) under a fixed key and nonce.
//
// Encrypt and Decrypt start the keystream at block counter 1 exactly as the
// AEAD does, so the output is bit-identical to the first len(plaintext) bytes
// of an AEAD seal with the same key and nonce. The Poly1305 tag is not
// produced. Output length equals input length, which is what a fixed-size
// storage record needs.
//
// Because the nonce is fixed, a Stream must only ever encrypt one message per
// key. Callers derive a fresh key and nonce per record.
package chacha20poly1305

import (
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-seedkeeper/pkg/secret"
	"golang.org/x/crypto/chacha20"
)

const (
	// KeySize is the ChaCha20 key size in bytes
	KeySize = chacha20.KeySize

	// NonceSize is the RFC 8439 nonce size in bytes
	NonceSize = chacha20.NonceSize

	// bodyCounter is the first keystream block used for the payload. Block 0
	// is reserved for the Poly1305 one-time key.
	bodyCounter = 1
)

var (
	// ErrInvalidKeySize is returned when the key is not KeySize bytes.
	ErrInvalidKeySize = errors.New("chacha20poly1305: invalid key size")

	// ErrInvalidNonceSize is returned when the nonce is not NonceSize bytes.
	ErrInvalidNonceSize = errors.New("chacha20poly1305: invalid nonce size")

	// ErrCleared is returned when the stream key has been wiped.
	ErrCleared = errors.New("chacha20poly1305: stream has been cleared")
)

// Stream holds a ChaCha20-Poly1305 key and nonce.
//
// A Stream is not safe for concurrent use.
type Stream struct {
	key     [KeySize]byte
	nonce   [NonceSize]byte
	cleared bool
}

// New copies key and nonce into a new Stream. The caller remains responsible
// for wiping its own copies.
func New(key, nonce []byte) (*Stream, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: %d bytes (must be %d bytes)", ErrInvalidKeySize, len(key), KeySize)
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: %d bytes (must be %d bytes)", ErrInvalidNonceSize, len(nonce), NonceSize)
	}
	s := &Stream{}
	copy(s.key[:], key)
	copy(s.nonce[:], nonce)
	return s, nil
}

// Encrypt returns the ChaCha20 ciphertext body of plaintext. The keystream
// restarts at block 1 on every call.
func (s *Stream) Encrypt(plaintext []byte) ([]byte, error) {
	return s.xor(plaintext)
}

// Decrypt reverses Encrypt.
func (s *Stream) Decrypt(ciphertext []byte) ([]byte, error) {
	return s.xor(ciphertext)
}

func (s *Stream) xor(src []byte) ([]byte, error) {
	if s.cleared {
		return nil, ErrCleared
	}
	c, err := chacha20.NewUnauthenticatedCipher(s.key[:], s.nonce[:])
	if err != nil {
		return nil, fmt.Errorf("failed to create ChaCha20 cipher: %w", err)
	}
	c.SetCounter(bodyCounter)

	dst := make([]byte, len(src))
	c.XORKeyStream(dst, src)
	return dst, nil
}

// Clear wipes the key and nonce. The Stream is unusable afterwards.
func (s *Stream) Clear() {
	secret.ZeroAll(s.key[:], s.nonce[:])
	s.cleared = true
}
