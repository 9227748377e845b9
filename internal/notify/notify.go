// File: internal/notify/notify.go
// Package notify implements generation-channel broadcast for waiters.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Go's sync.Cond has no timed wait, so the timed and cancellable waits of
// the concurrency package are built on a closed-channel broadcast instead:
// each waiter captures the current generation channel while still holding
// the owning primitive's mutex, releases the mutex, and selects on the
// channel against timers and cancellation. Broadcast closes the current
// generation and installs a fresh one.

package notify

import "sync"

// Broadcaster hands out one channel per generation. Closing a generation
// wakes every waiter that captured it.
//
// The no-missed-wake guarantee comes from the caller, not from Broadcaster:
// a waiter must call Subscribe before releasing the mutex that serializes
// state changes, so any mutation made after the snapshot closes the very
// channel the waiter sleeps on.
type Broadcaster struct {
	mu sync.Mutex
	ch chan struct{}
}

// NewBroadcaster creates a Broadcaster with a live first generation.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{ch: make(chan struct{})}
}

// Subscribe returns the current generation channel. The channel is closed
// by the next Broadcast.
func (b *Broadcaster) Subscribe() <-chan struct{} {
	b.mu.Lock()
	ch := b.ch
	b.mu.Unlock()
	return ch
}

// Broadcast wakes all current subscribers and starts a new generation.
func (b *Broadcaster) Broadcast() {
	b.mu.Lock()
	close(b.ch)
	b.ch = make(chan struct{})
	b.mu.Unlock()
}
