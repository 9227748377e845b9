// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown unifies teardown across library components. Shutdown
// stops internal goroutines, drains in-flight work and releases resources.
// It must be safe to call more than once.
type GracefulShutdown interface {
	Shutdown() error
}
