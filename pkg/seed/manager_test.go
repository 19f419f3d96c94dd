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
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/jeremyhahn/go-seedkeeper/pkg/hwid"
	"github.com/jeremyhahn/go-seedkeeper/pkg/storage/kv"
	"github.com/jeremyhahn/go-seedkeeper/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testID = hwid.Static{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02, 0x03, 0x04}

// valueOffset is where the first entry's value starts on the device.
const valueOffset = kv.HeaderSize + kv.EntryOverhead

func rawInput(start byte) []byte {
	b := make([]byte, SeedSize)
	for i := range b {
		b[i] = start + byte(i)
	}
	return b
}

func newManager(t *testing.T) (*Manager, *memory.Device) {
	t.Helper()
	dev, err := memory.New(DefaultCapacity)
	require.NoError(t, err)
	m := NewManager(kv.New(dev), testID)
	require.NoError(t, m.Begin())
	return m, dev
}

// faultyDevice injects read faults into a memory device.
type faultyDevice struct {
	*memory.Device
	failFrom int
	flipAt   int
}

func (d *faultyDevice) ByteAt(off int) (byte, error) {
	b, err := d.Device.ByteAt(off)
	if err != nil {
		return b, err
	}
	if d.failFrom >= 0 && off >= d.failFrom {
		return 0, errors.New("injected read fault")
	}
	if off == d.flipAt {
		b ^= 0x01
	}
	return b, nil
}

// rotatingProvider returns a different id after the first call.
type rotatingProvider struct {
	calls int
}

func (p *rotatingProvider) ID() ([hwid.Size]byte, error) {
	p.calls++
	if p.calls == 1 {
		return testID, nil
	}
	return [hwid.Size]byte{9, 9, 9, 9, 9, 9, 9, 9}, nil
}

type failingProvider struct{}

func (failingProvider) ID() ([hwid.Size]byte, error) {
	return [hwid.Size]byte{}, errors.New("no id")
}

func TestConcreteScenario(t *testing.T) {
	m, _ := newManager(t)
	raw := rawInput(0x11)

	assert.Equal(t, Ok, m.InitializeSeed(1, raw))

	got, ok := m.GetSeed(1)
	require.True(t, ok)
	assert.Equal(t, "8d88d4cb9b476330205d8684b86d030e2e1012ccc518137f4a428d438f290059"+
		"c7b914e9fff525c5b9fc04100e896722f25d9b3bcfbe8a2049a37af368e85517",
		hex.EncodeToString(got[:]))

	assert.Equal(t, AlreadyPopulated, m.InitializeSeed(1, rawInput(0x20)))

	again, ok := m.GetSeed(1)
	require.True(t, ok)
	assert.Equal(t, got, again, "rejected initialization leaves the seed unchanged")
}

func TestRoundTripAllSlots(t *testing.T) {
	m, _ := newManager(t)

	for n := uint8(1); n <= NumSlots; n++ {
		raw := rawInput(n * 16)
		require.Equal(t, Ok, m.InitializeSeed(n, raw), "slot %d", n)

		got, ok := m.GetSeed(n)
		require.True(t, ok, "slot %d", n)
		assert.Equal(t, Material(sha512.Sum512(raw)), got, "slot %d", n)
	}

	slots, err := m.Populated()
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 2, 3, 4, 5, 6, 7, 8, 9}, slots)
}

func TestInitializeSeedValidation(t *testing.T) {
	m, _ := newManager(t)

	tests := []struct {
		name string
		slot uint8
		raw  []byte
		want Result
	}{
		{"nil input", 1, nil, InvalidInput},
		{"short input", 1, make([]byte, SeedSize-1), InvalidInput},
		{"long input", 1, make([]byte, SeedSize+1), InvalidInput},
		{"input checked before slot", 0, make([]byte, 3), InvalidInput},
		{"slot zero", 0, rawInput(1), InvalidSlot},
		{"slot ten", 10, rawInput(1), InvalidSlot},
		{"slot max", 255, rawInput(1), InvalidSlot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.InitializeSeed(tt.slot, tt.raw))
		})
	}

	slots, err := m.Populated()
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestGetSeedMissing(t *testing.T) {
	m, _ := newManager(t)

	for _, n := range []uint8{0, 1, 9, 10} {
		_, ok := m.GetSeed(n)
		assert.False(t, ok, "slot %d", n)
	}
}

func TestSlotIsolation(t *testing.T) {
	m, _ := newManager(t)
	raw := rawInput(0x40)

	require.Equal(t, Ok, m.InitializeSeed(1, raw))
	require.Equal(t, Ok, m.InitializeSeed(2, raw))

	ct1, err := m.Store().Read(1, SeedSize)
	require.NoError(t, err)
	ct2, err := m.Store().Read(2, SeedSize)
	require.NoError(t, err)
	assert.NotEqual(t, ct1, ct2, "the same seed encrypts differently per slot")

	s1, ok := m.GetSeed(1)
	require.True(t, ok)
	s2, ok := m.GetSeed(2)
	require.True(t, ok)
	assert.Equal(t, s1, s2)
}

func TestCiphertextIsNotPlaintext(t *testing.T) {
	m, dev := newManager(t)
	raw := rawInput(0x33)
	require.Equal(t, Ok, m.InitializeSeed(1, raw))

	digest := sha512.Sum512(raw)
	snap := dev.Snapshot()
	assert.False(t, bytes.Contains(snap, digest[:]))
	assert.False(t, bytes.Contains(snap, raw))
}

func TestPersistsAcrossManagers(t *testing.T) {
	m, dev := newManager(t)
	raw := rawInput(0x01)
	require.Equal(t, Ok, m.InitializeSeed(4, raw))

	reopened := NewManager(kv.New(dev), testID)
	require.NoError(t, reopened.Begin())

	got, ok := reopened.GetSeed(4)
	require.True(t, ok)
	assert.Equal(t, Material(sha512.Sum512(raw)), got)
}

func TestOtherHardwareCannotRecoverSeed(t *testing.T) {
	m, dev := newManager(t)
	raw := rawInput(0x01)
	require.Equal(t, Ok, m.InitializeSeed(1, raw))

	other := NewManager(kv.New(dev), hwid.Static{1, 1, 1, 1, 1, 1, 1, 1})
	require.NoError(t, other.Begin())

	got, ok := other.GetSeed(1)
	require.True(t, ok)
	assert.NotEqual(t, Material(sha512.Sum512(raw)), got)
}

func TestFactoryReset(t *testing.T) {
	m, _ := newManager(t)
	for n := uint8(1); n <= 3; n++ {
		require.Equal(t, Ok, m.InitializeSeed(n, rawInput(n)))
	}

	require.NoError(t, m.FactoryReset())

	for n := uint8(1); n <= NumSlots; n++ {
		_, ok := m.GetSeed(n)
		assert.False(t, ok, "slot %d", n)
	}
	slots, err := m.Populated()
	require.NoError(t, err)
	assert.Empty(t, slots)

	assert.Equal(t, Ok, m.InitializeSeed(1, rawInput(0x77)), "slots are writable again")
}

func TestCorruptionChangesMaterial(t *testing.T) {
	m, dev := newManager(t)
	raw := rawInput(0x11)
	require.Equal(t, Ok, m.InitializeSeed(1, raw))

	for _, off := range []int{0, 31, SeedSize - 1} {
		b, err := dev.ByteAt(valueOffset + off)
		require.NoError(t, err)
		require.NoError(t, dev.SetByte(valueOffset+off, b^0x01))

		got, ok := m.GetSeed(1)
		require.True(t, ok)
		assert.NotEqual(t, Material(sha512.Sum512(raw)), got, "flip at %d", off)

		require.NoError(t, dev.SetByte(valueOffset+off, b))
	}
}

func TestErasedRecordIsAbsent(t *testing.T) {
	m, _ := newManager(t)
	require.NoError(t, m.Store().Write(3, bytes.Repeat([]byte{0xFF}, SeedSize)))

	_, ok := m.GetSeed(3)
	assert.False(t, ok)

	slots, err := m.Populated()
	require.NoError(t, err)
	assert.Empty(t, slots)

	assert.Equal(t, WriteFail, m.InitializeSeed(3, rawInput(1)),
		"the erased record still occupies the key")
}

func TestShortRecordIsAbsent(t *testing.T) {
	m, _ := newManager(t)
	require.NoError(t, m.Store().Write(5, []byte{1, 2, 3}))

	_, ok := m.GetSeed(5)
	assert.False(t, ok)
}

func TestInitializeSeedStoreFull(t *testing.T) {
	capacity := kv.HeaderSize + kv.EntryOverhead + SeedSize - 1
	dev, err := memory.New(capacity)
	require.NoError(t, err)
	m := NewManager(kv.New(dev), testID, WithCapacity(capacity))
	require.NoError(t, m.Begin())

	assert.Equal(t, WriteFail, m.InitializeSeed(1, rawInput(1)))
}

func TestInitializeSeedReadFail(t *testing.T) {
	mem, err := memory.New(DefaultCapacity)
	require.NoError(t, err)
	dev := &faultyDevice{Device: mem, failFrom: valueOffset, flipAt: -1}
	m := NewManager(kv.New(dev), testID)
	require.NoError(t, m.Begin())

	assert.Equal(t, ReadFail, m.InitializeSeed(1, rawInput(1)))
}

func TestInitializeSeedReadbackMismatch(t *testing.T) {
	mem, err := memory.New(DefaultCapacity)
	require.NoError(t, err)
	dev := &faultyDevice{Device: mem, failFrom: -1, flipAt: valueOffset}
	m := NewManager(kv.New(dev), testID)
	require.NoError(t, m.Begin())

	assert.Equal(t, WriteFail, m.InitializeSeed(1, rawInput(1)))
}

func TestInitializeSeedVerifyFail(t *testing.T) {
	dev, err := memory.New(DefaultCapacity)
	require.NoError(t, err)
	m := NewManager(kv.New(dev), &rotatingProvider{})
	require.NoError(t, m.Begin())

	assert.Equal(t, VerifyFail, m.InitializeSeed(1, rawInput(1)))
}

func TestInitializeSeedNoHardwareID(t *testing.T) {
	dev, err := memory.New(DefaultCapacity)
	require.NoError(t, err)
	m := NewManager(kv.New(dev), failingProvider{})
	require.NoError(t, m.Begin())

	assert.Equal(t, WriteFail, m.InitializeSeed(1, rawInput(1)))
	ok, err := m.Store().KeyExists(1)
	require.NoError(t, err)
	assert.False(t, ok, "nothing is written without a key")
}

func TestPopulatedBeforeBegin(t *testing.T) {
	dev, err := memory.New(DefaultCapacity)
	require.NoError(t, err)
	m := NewManager(kv.New(dev), testID)

	_, err = m.Populated()
	assert.ErrorIs(t, err, kv.ErrNotStarted)
}

func TestMaterialClear(t *testing.T) {
	m := Material(sha512.Sum512([]byte("x")))
	m.Clear()
	assert.Equal(t, Material{}, m)
}

func TestResult(t *testing.T) {
	tests := []struct {
		r    Result
		str  string
		want error
	}{
		{Ok, "ok", nil},
		{InvalidSlot, "invalid slot", ErrInvalidSlot},
		{InvalidInput, "invalid input", ErrInvalidInput},
		{AlreadyPopulated, "already populated", ErrAlreadyPopulated},
		{WriteFail, "write failed", ErrWriteFail},
		{ReadFail, "read failed", ErrReadFail},
		{VerifyFail, "verify failed", ErrVerifyFail},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			assert.Equal(t, tt.str, tt.r.String())
			if tt.want == nil {
				assert.NoError(t, tt.r.Err())
				return
			}
			assert.ErrorIs(t, tt.r.Err(), tt.want)
		})
	}

	assert.Equal(t, "Result(42)", Result(42).String())
	assert.Error(t, Result(42).Err())
}
