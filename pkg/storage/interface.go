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

// Package storage defines the byte-addressable device that backs the
// persistent key-value store.
//
// A Device behaves like emulated EEPROM: a fixed number of bytes, erased to
// ErasedByte, individually readable and writable. Writes are staged until
// Commit makes them durable.
package storage

// ErasedByte is the value of a byte that has never been written.
const ErasedByte = 0xFF

// Device is a fixed-size byte-addressable storage region.
// Implementations must be safe for concurrent use.
type Device interface {
	// ByteAt returns the byte at offset off.
	// Returns ErrOutOfRange if off is outside [0, Len()).
	ByteAt(off int) (byte, error)

	// SetByte stages b at offset off. The write is not durable until Commit.
	// Returns ErrOutOfRange if off is outside [0, Len()).
	SetByte(off int, b byte) error

	// Len returns the device size in bytes.
	Len() int

	// Commit flushes staged writes to the backing medium.
	Commit() error

	// Close releases the device. Uncommitted writes are discarded.
	Close() error
}

// Fill sets every byte of dev to v and commits.
func Fill(dev Device, v byte) error {
	for off := 0; off < dev.Len(); off++ {
		if err := dev.SetByte(off, v); err != nil {
			return err
		}
	}
	return dev.Commit()
}
