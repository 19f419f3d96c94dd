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

// Package metrics provides Prometheus instrumentation for go-seedkeeper operations.
// It exposes operation counters, latency histograms, error counters and store
// gauges. The tool has no network listener; metrics are published by writing
// the registry to a node_exporter textfile with WriteTextfile.
package metrics

import (
	"fmt"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the Prometheus namespace for all seed keeper metrics
	Namespace = "seedkeeper"

	// Label names
	LabelOperation = "operation"
	LabelStatus    = "status"
	LabelErrorType = "error_type"

	// Status values
	StatusSuccess = "success"
	StatusError   = "error"

	// Operation names
	OpInitSeed       = "init_seed"
	OpGetSeed        = "get_seed"
	OpDerivePassword = "derive_password"
	OpFactoryReset   = "factory_reset"
	OpInfo           = "info"
)

var (
	// OperationsTotal tracks the total number of operations by type and status.
	OperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "operations_total",
			Help:      "Total number of seed keeper operations by type and status",
		},
		[]string{LabelOperation, LabelStatus},
	)

	// OperationDuration tracks the duration of operations in seconds.
	// Buckets cover HKDF derivation up to a full store erase on slow media.
	OperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of seed keeper operations in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
		},
		[]string{LabelOperation},
	)

	// ErrorsTotal tracks errors by operation and error type.
	// Error types are the seed.Result names or short error classes such as
	// "invalid_slot" and "store".
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "errors_total",
			Help:      "Total number of errors by operation and error type",
		},
		[]string{LabelOperation, LabelErrorType},
	)

	// StoreUsedBytes tracks the bytes in use in the key-value store, header included.
	StoreUsedBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "store_used_bytes",
			Help:      "Bytes in use in the key-value store",
		},
	)

	// StoreCapacityBytes tracks the configured store capacity.
	StoreCapacityBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "store_capacity_bytes",
			Help:      "Capacity of the key-value store in bytes",
		},
	)

	// SlotsPopulated tracks how many seed slots hold a seed.
	SlotsPopulated = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "slots_populated",
			Help:      "Number of seed slots holding a seed",
		},
	)

	// enabled tracks whether metrics collection is enabled
	enabled atomic.Bool
)

func init() {
	// Metrics are enabled by default
	enabled.Store(true)
}

// RecordOperation records an operation with its duration and status.
//
// Example:
//
//	start := time.Now()
//	result := manager.InitializeSeed(slot, raw)
//	status := StatusSuccess
//	if result != seed.Ok {
//	    status = StatusError
//	}
//	RecordOperation(OpInitSeed, status, time.Since(start).Seconds())
func RecordOperation(operation, status string, duration float64) {
	if !enabled.Load() {
		return
	}
	OperationsTotal.WithLabelValues(operation, status).Inc()
	OperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordError records an error event for operation.
func RecordError(operation, errorType string) {
	if !enabled.Load() {
		return
	}
	ErrorsTotal.WithLabelValues(operation, errorType).Inc()
}

// SetStoreUsage sets the store usage gauges.
func SetStoreUsage(used, capacity int) {
	if !enabled.Load() {
		return
	}
	StoreUsedBytes.Set(float64(used))
	StoreCapacityBytes.Set(float64(capacity))
}

// SetSlotsPopulated sets the populated slot gauge.
func SetSlotsPopulated(count int) {
	if !enabled.Load() {
		return
	}
	SlotsPopulated.Set(float64(count))
}

// WriteTextfile writes every registered metric to path in the Prometheus
// text format, for the node_exporter textfile collector. The file is
// written atomically.
func WriteTextfile(path string) error {
	CollectOnce()
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("metrics: failed to write textfile %q: %w", path, err)
	}
	return nil
}

// Enable enables metrics collection.
func Enable() {
	enabled.Store(true)
}

// Disable disables metrics collection.
// Useful for testing or when metrics are not desired.
func Disable() {
	enabled.Store(false)
}

// IsEnabled returns whether metrics collection is currently enabled.
func IsEnabled() bool {
	return enabled.Load()
}
