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

// Package hwid supplies the per-device hardware identity that keys slot
// encryption.
//
// The identity is 8 bytes. It never leaves the host and is never persisted
// alongside the encrypted seeds, so a storage image copied to another device
// cannot be decrypted there.
package hwid

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// Size is the length of a hardware id in bytes.
const Size = 8

// DefaultMachineIDPath is the systemd machine id location.
const DefaultMachineIDPath = "/etc/machine-id"

var (
	// ErrInvalidID is returned when an id cannot be parsed.
	ErrInvalidID = errors.New("hwid: invalid hardware id")

	// ErrUnavailable is returned when the id source cannot be read.
	ErrUnavailable = errors.New("hwid: hardware id unavailable")
)

// Provider returns the hardware id of the running device.
type Provider interface {
	ID() ([Size]byte, error)
}

// Static is a fixed hardware id.
type Static [Size]byte

// ID implements Provider.
func (s Static) ID() ([Size]byte, error) {
	return s, nil
}

// FromHex parses a 16 character hex string into a Static id.
func FromHex(s string) (Static, error) {
	var id Static
	b, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return id, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	if len(b) != Size {
		return id, fmt.Errorf("%w: %d bytes (must be %d bytes)", ErrInvalidID, len(b), Size)
	}
	copy(id[:], b)
	return id, nil
}

// MachineID reads the id from a machine-id file. The file holds a 128-bit id
// as hex, with or without dashes; the first 8 bytes are used.
type MachineID struct {
	// Path defaults to DefaultMachineIDPath when empty.
	Path string
}

// ID implements Provider.
func (m MachineID) ID() ([Size]byte, error) {
	var id [Size]byte
	path := m.Path
	if path == "" {
		path = DefaultMachineIDPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return id, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	u, err := uuid.Parse(strings.TrimSpace(string(data)))
	if err != nil {
		return id, fmt.Errorf("%w: %s: %v", ErrInvalidID, path, err)
	}
	copy(id[:], u[:Size])
	return id, nil
}

// String renders an id as lowercase hex.
func String(id [Size]byte) string {
	return hex.EncodeToString(id[:])
}
