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

// Package engine is the entry point for hosts embedding the seed keeper.
//
// An Engine serializes every operation behind one mutex, so a single
// instance may be shared by concurrent callers. It records Prometheus
// metrics and logs outcomes; seed material and passwords are never logged.
package engine

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jeremyhahn/go-seedkeeper/pkg/hwid"
	"github.com/jeremyhahn/go-seedkeeper/pkg/kdf"
	"github.com/jeremyhahn/go-seedkeeper/pkg/logging"
	"github.com/jeremyhahn/go-seedkeeper/pkg/metrics"
	"github.com/jeremyhahn/go-seedkeeper/pkg/seed"
	"github.com/jeremyhahn/go-seedkeeper/pkg/storage"
	"github.com/jeremyhahn/go-seedkeeper/pkg/storage/kv"
)

var (
	// ErrSlotEmpty is returned when deriving from a slot with no seed.
	ErrSlotEmpty = errors.New("engine: slot is empty")

	// ErrInputTooLong is returned when the derivation input exceeds
	// kdf.MaxInputLength bytes.
	ErrInputTooLong = errors.New("engine: input too long")
)

// Info summarizes the device state.
type Info struct {
	HardwareID string `json:"hardware_id"`
	Capacity   int    `json:"capacity"`
	Used       int    `json:"used"`
	Free       int    `json:"free"`
	NumSlots   int    `json:"num_slots"`
	Populated  []int  `json:"populated"`
}

// Engine wraps a seed.Manager for concurrent use.
type Engine struct {
	mu       sync.Mutex
	manager  *seed.Manager
	store    *kv.Store
	provider hwid.Provider
	capacity int
	logger   *logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithCapacity sets the store capacity. It defaults to seed.DefaultCapacity
// or the device size, whichever is smaller.
func WithCapacity(n int) Option {
	return func(e *Engine) {
		e.capacity = n
	}
}

// New opens the store on dev and returns a ready Engine.
func New(dev storage.Device, provider hwid.Provider, opts ...Option) (*Engine, error) {
	e := &Engine{
		provider: provider,
		capacity: min(seed.DefaultCapacity, dev.Len()),
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.store = kv.New(dev, kv.WithLogger(e.logger.With("component", "store")))
	e.manager = seed.NewManager(e.store, provider,
		seed.WithCapacity(e.capacity),
		seed.WithLogger(e.logger.With("component", "seed")))
	if err := e.manager.Begin(); err != nil {
		return nil, fmt.Errorf("engine: failed to open store: %w", err)
	}

	e.mu.Lock()
	e.updateGauges()
	e.mu.Unlock()
	return e, nil
}

// InitializeSeed stores the seed for slot from a 64-byte raw input.
func (e *Engine) InitializeSeed(slot uint8, raw []byte) seed.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	result := e.manager.InitializeSeed(slot, raw)
	e.record(metrics.OpInitSeed, start, resultErrorType(result))

	if result == seed.Ok {
		e.logger.Info("seed initialized", "slot", slot)
		e.updateGauges()
	} else {
		e.logger.Warn("seed initialization rejected", "slot", slot, "result", result.String())
	}
	return result
}

// GetSeed returns the material of slot. The caller must Clear it.
func (e *Engine) GetSeed(slot uint8) (seed.Material, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	material, ok := e.manager.GetSeed(slot)
	errType := ""
	if !ok {
		errType = "not_found"
	}
	e.record(metrics.OpGetSeed, start, errType)
	return material, ok
}

// DerivePassword derives a password from the seed of slot.
func (e *Engine) DerivePassword(slot uint8, input string, length int, cs kdf.Charset) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	password, err := e.derive(slot, input, length, cs)
	e.record(metrics.OpDerivePassword, start, errorType(err))
	if err != nil {
		e.logger.Debug("password derivation failed", "slot", slot, "error", err)
	}
	return password, err
}

// DefaultPassword derives the one-touch password of slot.
func (e *Engine) DefaultPassword(slot uint8) (string, error) {
	return e.DerivePassword(slot, kdf.DefaultInput, kdf.DefaultLength, kdf.Base62)
}

func (e *Engine) derive(slot uint8, input string, length int, cs kdf.Charset) (string, error) {
	if !seed.ValidSlot(slot) {
		return "", fmt.Errorf("%w: %d", seed.ErrInvalidSlot, slot)
	}
	if len(input) > kdf.MaxInputLength {
		return "", fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLong, len(input), kdf.MaxInputLength)
	}
	material, ok := e.manager.GetSeed(slot)
	defer material.Clear()
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrSlotEmpty, slot)
	}
	return kdf.DerivePassword(input, material[:], length, cs)
}

// FactoryReset erases every slot.
func (e *Engine) FactoryReset() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	err := e.manager.FactoryReset()
	e.record(metrics.OpFactoryReset, start, errorType(err))
	if err != nil {
		e.logger.Error(fmt.Errorf("factory reset failed: %w", err))
		return err
	}
	e.logger.Info("factory reset complete")
	e.updateGauges()
	return nil
}

// Info reports the hardware id, store usage and populated slots.
func (e *Engine) Info() (Info, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	start := time.Now()
	info, err := e.info()
	e.record(metrics.OpInfo, start, errorType(err))
	return info, err
}

func (e *Engine) info() (Info, error) {
	id, err := e.provider.ID()
	if err != nil {
		return Info{}, err
	}
	used, err := e.store.Used()
	if err != nil {
		return Info{}, err
	}
	slots, err := e.manager.Populated()
	if err != nil {
		return Info{}, err
	}
	populated := make([]int, 0, len(slots))
	for _, n := range slots {
		populated = append(populated, int(n))
	}
	return Info{
		HardwareID: hwid.String(id),
		Capacity:   e.store.Capacity(),
		Used:       used,
		Free:       e.store.Capacity() - used,
		NumSlots:   seed.NumSlots,
		Populated:  populated,
	}, nil
}

// updateGauges refreshes the store gauges. The caller holds e.mu.
func (e *Engine) updateGauges() {
	if used, err := e.store.Used(); err == nil {
		metrics.SetStoreUsage(used, e.store.Capacity())
	}
	if populated, err := e.manager.Populated(); err == nil {
		metrics.SetSlotsPopulated(len(populated))
	}
}

func (e *Engine) record(op string, start time.Time, errType string) {
	status := metrics.StatusSuccess
	if errType != "" {
		status = metrics.StatusError
		metrics.RecordError(op, errType)
	}
	metrics.RecordOperation(op, status, time.Since(start).Seconds())
}

func resultErrorType(r seed.Result) string {
	if r == seed.Ok {
		return ""
	}
	return strings.ReplaceAll(r.String(), " ", "_")
}

func errorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, seed.ErrInvalidSlot):
		return "invalid_slot"
	case errors.Is(err, ErrSlotEmpty):
		return "slot_empty"
	case errors.Is(err, ErrInputTooLong), errors.Is(err, kdf.ErrEmptyInput):
		return "invalid_input"
	case errors.Is(err, kdf.ErrInvalidLength):
		return "invalid_length"
	case errors.Is(err, kdf.ErrInvalidCharset):
		return "invalid_charset"
	default:
		return "internal"
	}
}
