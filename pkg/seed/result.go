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

package seed

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSlot      = errors.New("seed: invalid slot")
	ErrInvalidInput     = errors.New("seed: invalid input")
	ErrAlreadyPopulated = errors.New("seed: slot already populated")
	ErrWriteFail        = errors.New("seed: write failed")
	ErrReadFail         = errors.New("seed: read back failed")
	ErrVerifyFail       = errors.New("seed: verification failed")
)

// Result reports the outcome of InitializeSeed.
type Result uint8

const (
	// Ok means the seed was stored and verified.
	Ok Result = iota
	// InvalidSlot means the slot is outside 1..NumSlots.
	InvalidSlot
	// InvalidInput means the raw input is not SeedSize bytes.
	InvalidInput
	// AlreadyPopulated means the slot holds a seed.
	AlreadyPopulated
	// WriteFail means encryption, the store append or the read back
	// comparison failed.
	WriteFail
	// ReadFail means the freshly written record could not be read.
	ReadFail
	// VerifyFail means the stored record does not decrypt to the seed.
	VerifyFail
)

func (r Result) String() string {
	switch r {
	case Ok:
		return "ok"
	case InvalidSlot:
		return "invalid slot"
	case InvalidInput:
		return "invalid input"
	case AlreadyPopulated:
		return "already populated"
	case WriteFail:
		return "write failed"
	case ReadFail:
		return "read failed"
	case VerifyFail:
		return "verify failed"
	default:
		return fmt.Sprintf("Result(%d)", uint8(r))
	}
}

// Err maps r to its sentinel error, or nil for Ok.
func (r Result) Err() error {
	switch r {
	case Ok:
		return nil
	case InvalidSlot:
		return ErrInvalidSlot
	case InvalidInput:
		return ErrInvalidInput
	case AlreadyPopulated:
		return ErrAlreadyPopulated
	case WriteFail:
		return ErrWriteFail
	case ReadFail:
		return ErrReadFail
	case VerifyFail:
		return ErrVerifyFail
	default:
		return fmt.Errorf("seed: unknown result %d", uint8(r))
	}
}
