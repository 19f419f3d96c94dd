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

// Package memory provides an in-memory implementation of storage.Device.
// It is used for tests and for ephemeral sessions where nothing should reach
// disk.
package memory

import (
	"fmt"
	"sync"

	"github.com/jeremyhahn/go-seedkeeper/pkg/storage"
)

// Device is a RAM-backed storage.Device. A new Device is fully erased.
type Device struct {
	mu      sync.RWMutex
	data    []byte
	commits int
	closed  bool
}

// New creates an erased device of size bytes.
func New(size int) (*Device, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", storage.ErrInvalidSize, size)
	}
	data := make([]byte, size)
	for i := range data {
		data[i] = storage.ErasedByte
	}
	return &Device{data: data}, nil
}

// ByteAt implements storage.Device.
func (d *Device) ByteAt(off int) (byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return 0, storage.ErrClosed
	}
	if off < 0 || off >= len(d.data) {
		return 0, fmt.Errorf("%w: %d", storage.ErrOutOfRange, off)
	}
	return d.data[off], nil
}

// SetByte implements storage.Device.
func (d *Device) SetByte(off int, b byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return storage.ErrClosed
	}
	if off < 0 || off >= len(d.data) {
		return fmt.Errorf("%w: %d", storage.ErrOutOfRange, off)
	}
	d.data[off] = b
	return nil
}

// Len implements storage.Device.
func (d *Device) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.data)
}

// Commit implements storage.Device. Writes to RAM are immediately visible,
// so Commit only counts calls.
func (d *Device) Commit() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return storage.ErrClosed
	}
	d.commits++
	return nil
}

// Commits returns the number of successful Commit calls.
func (d *Device) Commits() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.commits
}

// Snapshot returns a copy of the device contents.
func (d *Device) Snapshot() []byte {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]byte, len(d.data))
	copy(out, d.data)
	return out
}

// Close wipes the contents and marks the device closed. Multiple calls to
// Close are safe.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.data {
		d.data[i] = 0
	}
	d.closed = true
	return nil
}
