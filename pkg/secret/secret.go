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

// Package secret provides helpers for holding sensitive byte buffers in memory
// and wiping them once they are no longer needed.
//
// Seed material, derived keys, plaintext and ciphertext buffers are all scoped
// to the call that produced them. Every exit path must wipe them, including
// error paths, so callers typically pair a Buffer with a deferred Clear.
package secret

import (
	"crypto/subtle"
)

// Buffer owns a sensitive byte slice.
//
// The zero value is an empty, cleared buffer.
type Buffer struct {
	data []byte
}

// New allocates a zero-filled buffer of the given size.
func New(size int) *Buffer {
	return &Buffer{data: make([]byte, size)}
}

// Wrap takes ownership of b without copying it. Clear wipes b in place.
func Wrap(b []byte) *Buffer {
	return &Buffer{data: b}
}

// Bytes returns the underlying slice without copying. The slice is only
// valid until Clear is called.
func (b *Buffer) Bytes() []byte {
	if b == nil {
		return nil
	}
	return b.data
}

// Len returns the buffer length, or zero once cleared.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

// Clear wipes the buffer. Subsequent calls are no-ops.
func (b *Buffer) Clear() {
	if b == nil || b.data == nil {
		return
	}
	Zero(b.data)
	b.data = nil
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
	// Keep the wipe observable so it is not elided as a dead store.
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
}

// ZeroAll wipes every slice in bs.
func ZeroAll(bs ...[]byte) {
	for _, b := range bs {
		Zero(b)
	}
}

// Equal compares a and b in constant time.
func Equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// AllEqual reports whether every byte of b equals v. An empty slice
// reports false.
func AllEqual(b []byte, v byte) bool {
	if len(b) == 0 {
		return false
	}
	var diff byte
	for _, c := range b {
		diff |= c ^ v
	}
	return diff == 0
}
