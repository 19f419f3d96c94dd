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

// Package slot encrypts seed material under a key bound to the hardware id
// and the slot number.
//
// For slot n the key is HKDF(32, "key_slot_<n>", hwid) and the nonce is
// HKDF(12, "iv_slot_<n>", hwid). Records are encrypted with the ChaCha20 body
// of ChaCha20-Poly1305, so ciphertext and plaintext have the same length.
// Neither key nor nonce is ever stored.
package slot

import (
	"errors"
	"fmt"

	"github.com/jeremyhahn/go-seedkeeper/pkg/crypto/chacha20poly1305"
	"github.com/jeremyhahn/go-seedkeeper/pkg/hwid"
	"github.com/jeremyhahn/go-seedkeeper/pkg/kdf"
	"github.com/jeremyhahn/go-seedkeeper/pkg/secret"
)

var (
	// ErrNotInitialized is returned by Encrypt and Decrypt before Init.
	ErrNotInitialized = errors.New("slot: encryptor not initialized")

	// ErrEmptyInput is returned for empty plaintext or ciphertext.
	ErrEmptyInput = errors.New("slot: input cannot be empty")

	// ErrKeyDerivation is returned when the slot key cannot be derived.
	ErrKeyDerivation = errors.New("slot: key derivation failed")
)

// State is the lifecycle state of an Encryptor.
type State int

const (
	Uninitialized State = iota
	Initialized
)

func (s State) String() string {
	if s == Initialized {
		return "initialized"
	}
	return "uninitialized"
}

// Encryptor holds the key material of at most one slot.
//
// An Encryptor is not safe for concurrent use.
type Encryptor struct {
	provider hwid.Provider
	stream   *chacha20poly1305.Stream
	slot     uint8
	state    State
}

// New returns an uninitialized Encryptor that reads the hardware id from
// provider.
func New(provider hwid.Provider) *Encryptor {
	return &Encryptor{provider: provider}
}

// Init derives the key and nonce for slot. Any previously held key is
// wiped first, so a failed Init leaves the Encryptor uninitialized.
func (e *Encryptor) Init(slot uint8) error {
	e.Clear()

	id, err := e.provider.ID()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeyDerivation, err)
	}
	defer secret.Zero(id[:])

	key := make([]byte, chacha20poly1305.KeySize)
	nonce := make([]byte, chacha20poly1305.NonceSize)
	defer secret.ZeroAll(key, nonce)

	if err := kdf.DeriveKey(key, []byte(fmt.Sprintf("key_slot_%d", slot)), id[:]); err != nil {
		return fmt.Errorf("%w: %w", ErrKeyDerivation, err)
	}
	if err := kdf.DeriveKey(nonce, []byte(fmt.Sprintf("iv_slot_%d", slot)), id[:]); err != nil {
		return fmt.Errorf("%w: %w", ErrKeyDerivation, err)
	}

	stream, err := chacha20poly1305.New(key, nonce)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrKeyDerivation, err)
	}

	e.stream = stream
	e.slot = slot
	e.state = Initialized
	return nil
}

// Encrypt returns the ciphertext of src. The output has the same length as
// src.
func (e *Encryptor) Encrypt(src []byte) ([]byte, error) {
	if err := e.ready(src); err != nil {
		return nil, err
	}
	return e.stream.Encrypt(src)
}

// Decrypt reverses Encrypt.
func (e *Encryptor) Decrypt(src []byte) ([]byte, error) {
	if err := e.ready(src); err != nil {
		return nil, err
	}
	return e.stream.Decrypt(src)
}

func (e *Encryptor) ready(src []byte) error {
	if e.state != Initialized {
		return ErrNotInitialized
	}
	if len(src) == 0 {
		return ErrEmptyInput
	}
	return nil
}

// Clear wipes the key and nonce and returns to Uninitialized.
func (e *Encryptor) Clear() {
	if e.stream != nil {
		e.stream.Clear()
		e.stream = nil
	}
	e.slot = 0
	e.state = Uninitialized
}

// State returns the current lifecycle state.
func (e *Encryptor) State() State {
	return e.state
}

// Slot returns the initialized slot, or zero when uninitialized.
func (e *Encryptor) Slot() uint8 {
	return e.slot
}
