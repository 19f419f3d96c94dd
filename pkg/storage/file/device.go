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

// Package file provides a file-backed implementation of storage.Device.
//
// The device image is a flat file of exactly Len() bytes. Writes are staged
// in memory and reach the file only on Commit, which writes the whole image
// and fsyncs it. The image is held under an exclusive advisory lock for as
// long as the device is open, so two processes never append to the same
// store concurrently.
package file

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jeremyhahn/go-seedkeeper/pkg/secret"
	"github.com/jeremyhahn/go-seedkeeper/pkg/storage"
)

const (
	// Default directory permissions (owner rwx only)
	defaultDirPerms = 0700

	// Image permissions (owner rw only)
	imagePerms = 0600
)

// Device is a file-backed storage.Device.
type Device struct {
	mu     sync.RWMutex
	f      *os.File
	path   string
	buf    []byte
	closed bool
}

// Open opens the device image at path, creating an erased image of size
// bytes when the file does not exist or is empty. An existing image must be
// exactly size bytes.
func Open(path string, size int) (*Device, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: %d", storage.ErrInvalidSize, size)
	}

	if err := os.MkdirAll(filepath.Dir(path), defaultDirPerms); err != nil {
		return nil, fmt.Errorf("file device: failed to create directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_RDWR|os.O_CREATE, imagePerms)
	if err != nil {
		return nil, fmt.Errorf("file device: failed to open %q: %w", path, err)
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, err
	}

	d := &Device{f: f, path: path}
	if err := d.load(size); err != nil {
		_ = unlockFile(f)
		_ = f.Close()
		return nil, err
	}
	return d, nil
}

func (d *Device) load(size int) error {
	info, err := d.f.Stat()
	if err != nil {
		return fmt.Errorf("file device: failed to stat %q: %w", d.path, err)
	}

	d.buf = make([]byte, size)
	switch info.Size() {
	case 0:
		for i := range d.buf {
			d.buf[i] = storage.ErasedByte
		}
		return d.flush()
	case int64(size):
		if _, err := io.ReadFull(io.NewSectionReader(d.f, 0, int64(size)), d.buf); err != nil {
			return fmt.Errorf("file device: failed to read %q: %w", d.path, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: image %q is %d bytes, want %d",
			storage.ErrInvalidSize, d.path, info.Size(), size)
	}
}

// ByteAt implements storage.Device.
func (d *Device) ByteAt(off int) (byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return 0, storage.ErrClosed
	}
	if off < 0 || off >= len(d.buf) {
		return 0, fmt.Errorf("%w: %d", storage.ErrOutOfRange, off)
	}
	return d.buf[off], nil
}

// SetByte implements storage.Device.
func (d *Device) SetByte(off int, b byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return storage.ErrClosed
	}
	if off < 0 || off >= len(d.buf) {
		return fmt.Errorf("%w: %d", storage.ErrOutOfRange, off)
	}
	d.buf[off] = b
	return nil
}

// Len implements storage.Device.
func (d *Device) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.buf)
}

// Commit writes the staged image and fsyncs it.
func (d *Device) Commit() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return storage.ErrClosed
	}
	return d.flush()
}

func (d *Device) flush() error {
	if _, err := d.f.WriteAt(d.buf, 0); err != nil {
		return fmt.Errorf("file device: failed to write %q: %w", d.path, err)
	}
	if err := d.f.Sync(); err != nil {
		return fmt.Errorf("file device: failed to sync %q: %w", d.path, err)
	}
	return nil
}

// Path returns the image path.
func (d *Device) Path() string {
	return d.path
}

// Close releases the lock and closes the image. Uncommitted writes are
// discarded. Multiple calls to Close are safe.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	secret.Zero(d.buf)
	d.buf = nil

	unlockErr := unlockFile(d.f)
	if err := d.f.Close(); err != nil {
		return fmt.Errorf("file device: failed to close %q: %w", d.path, err)
	}
	return unlockErr
}

// validatePath rejects image paths that cannot name a regular file.
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("file device: path cannot be empty")
	}
	if strings.Contains(path, "\x00") {
		return fmt.Errorf("file device: path contains null byte")
	}
	if strings.HasSuffix(path, string(filepath.Separator)) {
		return fmt.Errorf("file device: path %q is a directory", path)
	}
	return nil
}
