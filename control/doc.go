// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics, configuration control, tracing and debug introspection
// layer for hioload-core.
//
// Provides concurrent-safe state handling primitives including:
//   - Immutable snapshot config reads and atomic updates
//   - Runtime observers for reload propagation
//   - Metrics telemetry registry and Prometheus export
//   - Structured trace events, debug hooks, and probe registration
//
// Nothing in this package sits on a primitive's hot path; components report
// into it at lifecycle edges (start, grow, panic, shutdown).
package control
