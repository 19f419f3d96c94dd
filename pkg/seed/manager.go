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

// Package seed stores per-slot seed material encrypted under a hardware
// bound key.
//
// A slot is written once with the SHA-512 digest of a 64-byte input. The
// write is verified by reading the record back and decrypting it before
// InitializeSeed reports success. Slots are only emptied by FactoryReset.
package seed

import (
	"crypto/sha512"

	"github.com/jeremyhahn/go-seedkeeper/pkg/crypto/slot"
	"github.com/jeremyhahn/go-seedkeeper/pkg/hwid"
	"github.com/jeremyhahn/go-seedkeeper/pkg/logging"
	"github.com/jeremyhahn/go-seedkeeper/pkg/secret"
	"github.com/jeremyhahn/go-seedkeeper/pkg/storage"
	"github.com/jeremyhahn/go-seedkeeper/pkg/storage/kv"
)

const (
	// SeedSize is the size of both the raw input and the stored material.
	SeedSize = sha512.Size

	// NumSlots is the number of seed slots, numbered from 1.
	NumSlots = 9

	// DefaultCapacity is the store size used when none is configured.
	DefaultCapacity = 4096
)

// Material is the seed of one slot.
type Material [SeedSize]byte

// Clear wipes the material.
func (m *Material) Clear() {
	secret.Zero(m[:])
}

// ValidSlot reports whether slot is in 1..NumSlots.
func ValidSlot(slot uint8) bool {
	return slot >= 1 && slot <= NumSlots
}

// Manager owns the store and the slot encryptor.
//
// A Manager is not safe for concurrent use.
type Manager struct {
	store    *kv.Store
	enc      *slot.Encryptor
	capacity int
	logger   *logging.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithCapacity sets the store capacity passed to Begin.
func WithCapacity(n int) Option {
	return func(m *Manager) {
		m.capacity = n
	}
}

// WithLogger sets the manager logger.
func WithLogger(l *logging.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager returns a manager over store, keyed by the id from provider.
func NewManager(store *kv.Store, provider hwid.Provider, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		enc:      slot.New(provider),
		capacity: DefaultCapacity,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Begin opens the store, resetting it if its header is invalid.
func (m *Manager) Begin() error {
	return m.store.Begin(m.capacity)
}

// Store returns the underlying store.
func (m *Manager) Store() *kv.Store {
	return m.store
}

// InitializeSeed stores SHA-512(raw) in slot and verifies the write.
func (m *Manager) InitializeSeed(n uint8, raw []byte) Result {
	if len(raw) != SeedSize {
		return InvalidInput
	}
	if !ValidSlot(n) {
		return InvalidSlot
	}

	if existing, ok := m.GetSeed(n); ok {
		existing.Clear()
		return AlreadyPopulated
	}

	digest := sha512.Sum512(raw)
	seed := secret.New(SeedSize)
	defer seed.Clear()
	copy(seed.Bytes(), digest[:])
	secret.Zero(digest[:])
	defer m.enc.Clear()

	if err := m.enc.Init(n); err != nil {
		m.logger.Warn("slot key derivation failed", "slot", n, "error", err)
		return WriteFail
	}
	encrypted, err := m.enc.Encrypt(seed.Bytes())
	if err != nil {
		m.logger.Warn("seed encryption failed", "slot", n, "error", err)
		return WriteFail
	}
	ciphertext := secret.Wrap(encrypted)
	defer ciphertext.Clear()

	if err := m.store.Write(uint32(n), ciphertext.Bytes()); err != nil {
		m.logger.Warn("seed write failed", "slot", n, "error", err)
		return WriteFail
	}

	stored, err := m.store.Read(uint32(n), SeedSize)
	if err != nil {
		m.logger.Warn("seed read back failed", "slot", n, "error", err)
		return ReadFail
	}
	readback := secret.Wrap(stored)
	defer readback.Clear()

	if !secret.Equal(ciphertext.Bytes(), readback.Bytes()) {
		m.logger.Warn("seed read back mismatch", "slot", n)
		return WriteFail
	}

	if err := m.enc.Init(n); err != nil {
		m.logger.Warn("slot key derivation failed", "slot", n, "error", err)
		return VerifyFail
	}
	plain, err := m.enc.Decrypt(readback.Bytes())
	if err != nil {
		m.logger.Warn("seed decryption failed", "slot", n, "error", err)
		return VerifyFail
	}
	decrypted := secret.Wrap(plain)
	defer decrypted.Clear()

	if !secret.Equal(decrypted.Bytes(), seed.Bytes()) {
		m.logger.Warn("seed verification mismatch", "slot", n)
		return VerifyFail
	}
	return Ok
}

// GetSeed returns the material of slot. It reports false for an invalid
// slot, a missing or short record, an erased (all 0xFF) record, or any
// storage or decryption failure.
func (m *Manager) GetSeed(n uint8) (Material, bool) {
	var out Material
	if !ValidSlot(n) {
		return out, false
	}

	stored, err := m.store.Read(uint32(n), SeedSize)
	if err != nil {
		return out, false
	}
	encrypted := secret.Wrap(stored)
	defer encrypted.Clear()

	if encrypted.Len() != SeedSize || secret.AllEqual(encrypted.Bytes(), storage.ErasedByte) {
		return out, false
	}

	defer m.enc.Clear()
	if err := m.enc.Init(n); err != nil {
		m.logger.Warn("slot key derivation failed", "slot", n, "error", err)
		return out, false
	}
	plain, err := m.enc.Decrypt(encrypted.Bytes())
	if err != nil {
		return out, false
	}
	decrypted := secret.Wrap(plain)
	defer decrypted.Clear()
	copy(out[:], decrypted.Bytes())
	return out, true
}

// FactoryReset erases every slot and reopens the store.
func (m *Manager) FactoryReset() error {
	if err := m.store.FactoryReset(); err != nil {
		return err
	}
	return m.store.Begin(m.store.Capacity())
}

// Populated lists the slots holding a seed, in ascending order.
func (m *Manager) Populated() ([]uint8, error) {
	if _, err := m.store.Used(); err != nil {
		return nil, err
	}
	var slots []uint8
	for n := uint8(1); n <= NumSlots; n++ {
		material, ok := m.GetSeed(n)
		material.Clear()
		if ok {
			slots = append(slots, n)
		}
	}
	return slots, nil
}
