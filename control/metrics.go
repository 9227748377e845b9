// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics collector for system-level monitoring.
// Exposes counters in a thread-safe map with dynamic registration, plus
// pull-style sources polled at snapshot time.

package control

import (
	"sync"
	"time"
)

// MetricsRegistry holds mutable metrics and registered sources.
type MetricsRegistry struct {
	mu      sync.RWMutex
	metrics map[string]any
	sources map[string]func() map[string]any
	updated time.Time
}

// NewMetricsRegistry creates an empty registry.
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		metrics: make(map[string]any),
		sources: make(map[string]func() map[string]any),
	}
}

// Set sets or updates a metric key.
func (mr *MetricsRegistry) Set(key string, value any) {
	mr.mu.Lock()
	mr.metrics[key] = value
	mr.updated = time.Now()
	mr.mu.Unlock()
}

// RegisterSource attaches a named pull source. Its values are merged into
// every snapshot under "<name>.<key>".
func (mr *MetricsRegistry) RegisterSource(name string, fn func() map[string]any) {
	mr.mu.Lock()
	mr.sources[name] = fn
	mr.mu.Unlock()
}

// GetSnapshot returns the latest metrics, including polled sources.
func (mr *MetricsRegistry) GetSnapshot() map[string]any {
	mr.mu.RLock()
	out := make(map[string]any, len(mr.metrics))
	for k, v := range mr.metrics {
		out[k] = v
	}
	sources := make(map[string]func() map[string]any, len(mr.sources))
	for name, fn := range mr.sources {
		sources[name] = fn
	}
	mr.mu.RUnlock()

	// Sources run outside the registry lock; they may take their own locks.
	for name, fn := range sources {
		for k, v := range fn() {
			out[name+"."+k] = v
		}
	}
	return out
}
