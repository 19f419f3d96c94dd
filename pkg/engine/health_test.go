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

package engine

import (
	"context"
	"testing"

	"github.com/jeremyhahn/go-seedkeeper/pkg/health"
	"github.com/jeremyhahn/go-seedkeeper/pkg/hwid"
	"github.com/jeremyhahn/go-seedkeeper/pkg/seed"
	"github.com/jeremyhahn/go-seedkeeper/pkg/storage/kv"
	"github.com/jeremyhahn/go-seedkeeper/pkg/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unavailableProvider struct{}

func (unavailableProvider) ID() ([hwid.Size]byte, error) {
	return [hwid.Size]byte{}, hwid.ErrUnavailable
}

func runChecks(t *testing.T, e *Engine) map[string]health.CheckResult {
	t.Helper()
	checker := health.NewChecker()
	e.RegisterHealthChecks(checker)
	results := map[string]health.CheckResult{}
	for _, r := range checker.Run(context.Background()) {
		results[r.Name] = r
	}
	require.Len(t, results, 3)
	return results
}

func TestHealthChecksHealthy(t *testing.T) {
	e := newEngine(t)
	require.Equal(t, seed.Ok, e.InitializeSeed(2, rawInput(0x11)))

	results := runChecks(t, e)
	assert.Equal(t, health.StatusHealthy, results[CheckHardwareID].Status)
	assert.Equal(t, "0102030405060708", results[CheckHardwareID].Message)
	assert.Equal(t, health.StatusHealthy, results[CheckStore].Status)
	assert.Equal(t, "74 of 4096 bytes used", results[CheckStore].Message)
	assert.Equal(t, "1 of 9 slots populated", results[CheckSlots].Message)
}

func TestHealthCheckStoreFull(t *testing.T) {
	dev, err := memory.New(seed.DefaultCapacity)
	require.NoError(t, err)
	capacity := kv.HeaderSize + kv.EntryOverhead + seed.SeedSize + 10
	e, err := New(dev, testID, WithCapacity(capacity))
	require.NoError(t, err)
	require.Equal(t, seed.Ok, e.InitializeSeed(1, rawInput(0x11)))

	results := runChecks(t, e)
	assert.Equal(t, health.StatusDegraded, results[CheckStore].Status)
	assert.Contains(t, results[CheckStore].Message, "no room for another seed")
}

func TestHealthCheckUnreadableSlot(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.store.Write(5, []byte{1, 2, 3}))

	results := runChecks(t, e)
	assert.Equal(t, health.StatusDegraded, results[CheckSlots].Status)
	assert.Contains(t, results[CheckSlots].Message, "unreadable records in slots 5")
	assert.Equal(t, health.StatusDegraded, health.AggregateStatus(checkerResults(results)))
}

func TestHealthCheckHardwareIDUnavailable(t *testing.T) {
	dev, err := memory.New(seed.DefaultCapacity)
	require.NoError(t, err)
	e, err := New(dev, unavailableProvider{})
	require.NoError(t, err)

	results := runChecks(t, e)
	assert.Equal(t, health.StatusUnhealthy, results[CheckHardwareID].Status)
	assert.NotEmpty(t, results[CheckHardwareID].Error)
	assert.Equal(t, health.StatusUnhealthy, health.AggregateStatus(checkerResults(results)))
}

func checkerResults(m map[string]health.CheckResult) []health.CheckResult {
	out := make([]health.CheckResult, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	return out
}
