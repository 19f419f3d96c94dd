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

package kv

import "errors"

var (
	// ErrNotStarted is returned when the store is used before Begin.
	ErrNotStarted = errors.New("kv: store not started")

	// ErrCapacity is returned when Begin is given an unusable capacity.
	ErrCapacity = errors.New("kv: invalid capacity")

	// ErrEmptyValue is returned when writing an empty value.
	ErrEmptyValue = errors.New("kv: value cannot be empty")

	// ErrKeyExists is returned when writing a key that is already stored.
	// Entries are immutable until factory reset.
	ErrKeyExists = errors.New("kv: key already exists")

	// ErrFull is returned when the entry does not fit in the remaining space.
	ErrFull = errors.New("kv: store full")

	// ErrNotFound is returned when a key is not stored.
	ErrNotFound = errors.New("kv: key not found")

	// ErrCorrupt is returned when an entry runs past the end of the store.
	ErrCorrupt = errors.New("kv: corrupted entry")

	// ErrInvalidLength is returned for a non-positive read length.
	ErrInvalidLength = errors.New("kv: invalid length")
)
