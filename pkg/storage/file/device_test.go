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

package file

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/jeremyhahn/go-seedkeeper/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ storage.Device = (*Device)(nil)

func TestOpenCreatesErasedImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "device.img")

	d, err := Open(path, 64)
	require.NoError(t, err)
	defer d.Close()

	assert.Equal(t, 64, d.Len())
	assert.Equal(t, path, d.Path())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{storage.ErasedByte}, 64), data)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(imagePerms), info.Mode().Perm())
}

func TestCommitPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.img")

	d, err := Open(path, 16)
	require.NoError(t, err)
	require.NoError(t, d.SetByte(0, 0xFA))
	require.NoError(t, d.SetByte(1, 0x55))
	require.NoError(t, d.Commit())
	require.NoError(t, d.Close())

	d, err = Open(path, 16)
	require.NoError(t, err)
	defer d.Close()

	b, err := d.ByteAt(0)
	require.NoError(t, err)
	assert.Equal(t, byte(0xFA), b)
	b, err = d.ByteAt(1)
	require.NoError(t, err)
	assert.Equal(t, byte(0x55), b)
}

func TestUncommittedWritesDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.img")

	d, err := Open(path, 16)
	require.NoError(t, err)
	require.NoError(t, d.SetByte(3, 0x01))

	b, err := d.ByteAt(3)
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), b, "staged write is readable before commit")
	require.NoError(t, d.Close())

	d, err = Open(path, 16)
	require.NoError(t, err)
	defer d.Close()

	b, err = d.ByteAt(3)
	require.NoError(t, err)
	assert.Equal(t, byte(storage.ErasedByte), b)
}

func TestOpenSizeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "device.img")
	require.NoError(t, os.WriteFile(path, make([]byte, 10), 0o600))

	_, err := Open(path, 16)
	assert.ErrorIs(t, err, storage.ErrInvalidSize)
}

func TestOpenInvalidArguments(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		path string
		size int
	}{
		{"empty path", "", 16},
		{"null byte", filepath.Join(dir, "a\x00b"), 16},
		{"directory", dir + string(filepath.Separator), 16},
		{"zero size", filepath.Join(dir, "zero.img"), 0},
		{"negative size", filepath.Join(dir, "neg.img"), -4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Open(tt.path, tt.size)
			assert.Error(t, err)
		})
	}
}

func TestOutOfRange(t *testing.T) {
	d, err := Open(filepath.Join(t.TempDir(), "device.img"), 4)
	require.NoError(t, err)
	defer d.Close()

	_, err = d.ByteAt(4)
	assert.ErrorIs(t, err, storage.ErrOutOfRange)
	assert.ErrorIs(t, d.SetByte(-1, 0), storage.ErrOutOfRange)
}

func TestClose(t *testing.T) {
	d, err := Open(filepath.Join(t.TempDir(), "device.img"), 4)
	require.NoError(t, err)

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	_, err = d.ByteAt(0)
	assert.ErrorIs(t, err, storage.ErrClosed)
	assert.ErrorIs(t, d.SetByte(0, 0), storage.ErrClosed)
	assert.ErrorIs(t, d.Commit(), storage.ErrClosed)
}
