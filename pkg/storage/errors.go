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

package storage

import "errors"

var (
	// ErrClosed is returned when attempting to use a closed device.
	ErrClosed = errors.New("storage: closed")

	// ErrOutOfRange is returned when an offset lies outside the device.
	ErrOutOfRange = errors.New("storage: offset out of range")

	// ErrInvalidSize is returned when a device size is invalid or does not
	// match an existing image.
	ErrInvalidSize = errors.New("storage: invalid size")

	// ErrLocked is returned when another process holds the device image.
	ErrLocked = errors.New("storage: device locked by another process")
)
