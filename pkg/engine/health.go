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
	"fmt"
	"strings"

	"github.com/jeremyhahn/go-seedkeeper/pkg/health"
	"github.com/jeremyhahn/go-seedkeeper/pkg/hwid"
	"github.com/jeremyhahn/go-seedkeeper/pkg/seed"
	"github.com/jeremyhahn/go-seedkeeper/pkg/storage/kv"
)

// Health check names
const (
	CheckHardwareID = "hardware_id"
	CheckStore      = "store"
	CheckSlots      = "slots"
)

// RegisterHealthChecks adds the device self-checks to c.
func (e *Engine) RegisterHealthChecks(c *health.Checker) {
	c.RegisterCheck(CheckHardwareID, e.checkHardwareID)
	c.RegisterCheck(CheckStore, e.checkStore)
	c.RegisterCheck(CheckSlots, e.checkSlots)
}

func (e *Engine) checkHardwareID(ctx context.Context) health.CheckResult {
	id, err := e.provider.ID()
	if err != nil {
		return health.CheckResult{
			Name:    CheckHardwareID,
			Status:  health.StatusUnhealthy,
			Message: "hardware id unavailable",
			Error:   err.Error(),
		}
	}
	return health.CheckResult{
		Name:    CheckHardwareID,
		Status:  health.StatusHealthy,
		Message: hwid.String(id),
	}
}

// checkStore reports degraded once no further seed fits.
func (e *Engine) checkStore(ctx context.Context) health.CheckResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	used, err := e.store.Used()
	if err != nil {
		return health.CheckResult{
			Name:    CheckStore,
			Status:  health.StatusUnhealthy,
			Message: "store unreadable",
			Error:   err.Error(),
		}
	}

	capacity := e.store.Capacity()
	result := health.CheckResult{
		Name:    CheckStore,
		Status:  health.StatusHealthy,
		Message: fmt.Sprintf("%d of %d bytes used", used, capacity),
	}
	if capacity-used < kv.EntryOverhead+seed.SeedSize {
		result.Status = health.StatusDegraded
		result.Message += ", no room for another seed"
	}
	return result
}

// checkSlots reports degraded when a slot key exists but its record does
// not yield a seed.
func (e *Engine) checkSlots(ctx context.Context) health.CheckResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	var populated int
	var unreadable []string
	for n := uint8(1); n <= seed.NumSlots; n++ {
		exists, err := e.store.KeyExists(uint32(n))
		if err != nil {
			return health.CheckResult{
				Name:    CheckSlots,
				Status:  health.StatusUnhealthy,
				Message: "slot scan failed",
				Error:   err.Error(),
			}
		}
		if !exists {
			continue
		}
		material, ok := e.manager.GetSeed(n)
		material.Clear()
		if ok {
			populated++
		} else {
			unreadable = append(unreadable, fmt.Sprint(n))
		}
	}

	result := health.CheckResult{
		Name:    CheckSlots,
		Status:  health.StatusHealthy,
		Message: fmt.Sprintf("%d of %d slots populated", populated, seed.NumSlots),
	}
	if len(unreadable) > 0 {
		result.Status = health.StatusDegraded
		result.Message += fmt.Sprintf(", unreadable records in slots %s", strings.Join(unreadable, ","))
	}
	return result
}
