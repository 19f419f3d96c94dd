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

// Package kv implements an append-only key-value log on a storage.Device.
//
// Layout, all offsets relative to the start of the device:
//
//	[0..1]  magic 0xFA55, big-endian
//	[2..3]  total used bytes including the header, big-endian
//	[4..N]  entries of [length:u16 BE][key:u32 LE][value]
//
// A key is written at most once. Entries are never modified or removed
// except by FactoryReset, which erases the whole region. There is no
// compaction.
//
// A Store is not safe for concurrent use.
package kv

import (
	"errors"
	"fmt"
	"math"

	"github.com/jeremyhahn/go-seedkeeper/pkg/logging"
	"github.com/jeremyhahn/go-seedkeeper/pkg/storage"
)

const (
	// Magic marks an initialized store.
	Magic = 0xFA55

	// HeaderSize is the size of [magic][totalUsed].
	HeaderSize = 4

	// EntryOverhead is the size of [length][key].
	EntryOverhead = 6

	// MaxCapacity is the largest region addressable by the u16 header.
	MaxCapacity = math.MaxUint16
)

// Store is the key-value log.
type Store struct {
	dev      storage.Device
	capacity int
	logger   *logging.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns a store on dev. Begin must be called before use.
func New(dev storage.Device, opts ...Option) *Store {
	s := &Store{
		dev:    dev,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Begin attaches the store to the first capacity bytes of the device. A
// missing magic or an out-of-range used counter triggers a factory reset.
func (s *Store) Begin(capacity int) error {
	if capacity < HeaderSize || capacity > MaxCapacity || capacity > s.dev.Len() {
		return fmt.Errorf("%w: %d (device has %d bytes)", ErrCapacity, capacity, s.dev.Len())
	}
	s.capacity = capacity

	magic, err := s.readUint16(0)
	if err != nil {
		return err
	}
	used, err := s.readUint16(2)
	if err != nil {
		return err
	}
	if magic != Magic || s.headerInvalid(used) {
		s.logger.Warn("store header invalid, resetting",
			"magic", fmt.Sprintf("0x%04X", magic), "used", used, "capacity", capacity)
		return s.FactoryReset()
	}
	s.logger.Debug("store opened", "used", used, "capacity", capacity)
	return nil
}

// Capacity returns the size passed to Begin.
func (s *Store) Capacity() int {
	return s.capacity
}

// FactoryReset erases the whole device, including any bytes past the
// store capacity, and writes an empty header.
func (s *Store) FactoryReset() error {
	if s.capacity == 0 {
		return ErrNotStarted
	}
	if err := storage.Fill(s.dev, storage.ErasedByte); err != nil {
		return err
	}
	if err := s.writeUint16(0, Magic); err != nil {
		return err
	}
	if err := s.writeUint16(2, HeaderSize); err != nil {
		return err
	}
	if err := s.dev.Commit(); err != nil {
		return err
	}
	s.logger.Info("store erased", "capacity", s.capacity, "device_size", s.dev.Len())
	return nil
}

// Used returns the number of bytes in use, header included. An invalid
// header reads as an empty store.
func (s *Store) Used() (int, error) {
	if s.capacity == 0 {
		return 0, ErrNotStarted
	}
	magic, err := s.readUint16(0)
	if err != nil {
		return 0, err
	}
	used, err := s.readUint16(2)
	if err != nil {
		return 0, err
	}
	if magic != Magic || s.headerInvalid(used) {
		return HeaderSize, nil
	}
	return int(used), nil
}

func (s *Store) headerInvalid(used uint16) bool {
	return int(used) < HeaderSize || int(used) > s.capacity
}

// entry locates one record in the log.
type entry struct {
	key    uint32
	offset int // first value byte
	length int
}

// scan walks the log in write order until visit returns true. An entry
// whose value would run past the used boundary stops the scan with
// ErrCorrupt.
func (s *Store) scan(visit func(e entry) bool) error {
	used, err := s.Used()
	if err != nil {
		return err
	}
	addr := HeaderSize
	for addr+EntryOverhead <= used {
		length, err := s.readUint16(addr)
		if err != nil {
			return err
		}
		key, err := s.readUint32(addr + 2)
		if err != nil {
			return err
		}
		addr += EntryOverhead

		if end := addr + int(length); end > used || end > s.capacity {
			s.logger.Warn("corrupted entry", "offset", addr-EntryOverhead, "length", length)
			return fmt.Errorf("%w: entry at offset %d claims %d bytes",
				ErrCorrupt, addr-EntryOverhead, length)
		}
		if visit(entry{key: key, offset: addr, length: int(length)}) {
			return nil
		}
		addr += int(length)
	}
	return nil
}

// KeyExists reports whether key has been written.
func (s *Store) KeyExists(key uint32) (bool, error) {
	found := false
	err := s.scan(func(e entry) bool {
		found = e.key == key
		return found
	})
	return found, err
}

// Write appends key with value. The write is rejected, leaving the store
// untouched, when value is empty, key already exists, or the entry does not
// fit. The header is updated after the entry and committed once.
func (s *Store) Write(key uint32, value []byte) error {
	if s.capacity == 0 {
		return ErrNotStarted
	}
	if len(value) == 0 {
		return ErrEmptyValue
	}
	exists, err := s.KeyExists(key)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: 0x%08X", ErrKeyExists, key)
	}
	if len(value)+EntryOverhead > s.capacity {
		return fmt.Errorf("%w: %d byte value exceeds capacity %d", ErrFull, len(value), s.capacity)
	}

	used, err := s.Used()
	if err != nil {
		return err
	}
	next := used + EntryOverhead + len(value)
	if next > s.capacity {
		return fmt.Errorf("%w: need %d bytes, %d free", ErrFull,
			EntryOverhead+len(value), s.capacity-used)
	}

	addr := used
	if err := s.writeUint16(addr, uint16(len(value))); err != nil {
		return err
	}
	if err := s.writeUint32(addr+2, key); err != nil {
		return err
	}
	addr += EntryOverhead
	for i, b := range value {
		if err := s.dev.SetByte(addr+i, b); err != nil {
			return err
		}
	}
	if err := s.writeUint16(2, uint16(next)); err != nil {
		return err
	}
	if err := s.dev.Commit(); err != nil {
		return err
	}
	s.logger.Debug("entry written", "key", fmt.Sprintf("0x%08X", key), "length", len(value), "used", next)
	return nil
}

// Read returns up to expectedLen bytes of the value stored under key.
func (s *Store) Read(key uint32, expectedLen int) ([]byte, error) {
	if expectedLen <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, expectedLen)
	}
	var (
		match entry
		found bool
	)
	err := s.scan(func(e entry) bool {
		if e.key == key {
			match, found = e, true
		}
		return found
	})
	if errors.Is(err, ErrCorrupt) {
		return nil, fmt.Errorf("%w: 0x%08X: %w", ErrNotFound, key, err)
	}
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: 0x%08X", ErrNotFound, key)
	}

	out := make([]byte, min(match.length, expectedLen))
	for i := range out {
		b, err := s.dev.ByteAt(match.offset + i)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return out, nil
}

// Keys lists stored keys in write order. On a corrupted log the keys
// before the damaged entry are returned with the error.
func (s *Store) Keys() ([]uint32, error) {
	var keys []uint32
	err := s.scan(func(e entry) bool {
		keys = append(keys, e.key)
		return false
	})
	return keys, err
}

func (s *Store) readUint16(addr int) (uint16, error) {
	hi, err := s.dev.ByteAt(addr)
	if err != nil {
		return 0, err
	}
	lo, err := s.dev.ByteAt(addr + 1)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

func (s *Store) writeUint16(addr int, v uint16) error {
	if err := s.dev.SetByte(addr, byte(v>>8)); err != nil {
		return err
	}
	return s.dev.SetByte(addr+1, byte(v))
}

func (s *Store) readUint32(addr int) (uint32, error) {
	var v uint32
	for i := 0; i < 4; i++ {
		b, err := s.dev.ByteAt(addr + i)
		if err != nil {
			return 0, err
		}
		v |= uint32(b) << (8 * i)
	}
	return v, nil
}

func (s *Store) writeUint32(addr int, v uint32) error {
	for i := 0; i < 4; i++ {
		if err := s.dev.SetByte(addr+i, byte(v>>(8*i))); err != nil {
			return err
		}
	}
	return nil
}
