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

package hwid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	s := Static{1, 2, 3, 4, 5, 6, 7, 8}
	id, err := s.ID()
	require.NoError(t, err)
	assert.Equal(t, [Size]byte{1, 2, 3, 4, 5, 6, 7, 8}, id)
	assert.Equal(t, "0102030405060708", String(id))
}

func TestFromHex(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Static
		wantErr bool
	}{
		{"valid", "0102030405060708", Static{1, 2, 3, 4, 5, 6, 7, 8}, false},
		{"uppercase with newline", "DEADBEEFCAFEBABE\n", Static{0xde, 0xad, 0xbe, 0xef, 0xca, 0xfe, 0xba, 0xbe}, false},
		{"too short", "01020304", Static{}, true},
		{"too long", "010203040506070809", Static{}, true},
		{"not hex", "zz02030405060708", Static{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromHex(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMachineID(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    [Size]byte
		wantErr error
	}{
		{
			name:    "systemd format",
			content: "0123456789abcdef0123456789abcdef\n",
			want:    [Size]byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef},
		},
		{
			name:    "dashed uuid",
			content: "fedcba98-7654-3210-0123-456789abcdef",
			want:    [Size]byte{0xfe, 0xdc, 0xba, 0x98, 0x76, 0x54, 0x32, 0x10},
		},
		{
			name:    "garbage",
			content: "not-a-machine-id",
			wantErr: ErrInvalidID,
		},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "machine-id-"+string(rune('a'+i)))
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			id, err := MachineID{Path: path}.ID()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestMachineIDMissing(t *testing.T) {
	_, err := MachineID{Path: filepath.Join(t.TempDir(), "absent")}.ID()
	assert.ErrorIs(t, err, ErrUnavailable)
}
