// File: core/concurrency/close_guard.go
// Package concurrency implements the CloseGuard lifetime gate.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// CloseGuard lets background tasks touch an owner's state without racing
// its teardown. Users take read-holds; teardown takes the exclusive hold.
// A 16-bit liveness token makes "is the owner alive" checks safe to issue
// even against memory that is being torn down: the sentinel bit pattern is
// overwhelmingly unlikely to survive a clear or a reuse.

package concurrency

import (
	"sync"
	"sync/atomic"
)

// tokenAlive is the liveness sentinel. The token holds this value from
// construction until teardown clears it to zero, exactly once.
const tokenAlive uint32 = 0xB5C4

// CloseGuard is a read/write lifetime gate. It blocks teardown of an owner
// until all in-flight read-holds drop, and short-circuits new holds once
// teardown has begun.
//
// CloseGuard must not be copied after first use. Use NewCloseGuard and keep
// it by pointer.
type CloseGuard struct {
	_        noCopy
	mu       sync.RWMutex
	token    atomic.Uint32
	explicit atomic.Bool
}

// NewCloseGuard returns a guard in the alive state.
func NewCloseGuard() *CloseGuard {
	g := &CloseGuard{}
	g.token.Store(tokenAlive)
	return g
}

// Alive reports whether teardown has not yet cleared the liveness token.
// The read is racy by design; acting on it without a hold is only safe for
// "do nothing" decisions.
func (g *CloseGuard) Alive() bool {
	return g.token.Load() == tokenAlive
}

// TryReadHold attempts to take a read-hold on the owner's lifetime. It
// returns nil when the owner is no longer alive or when the exclusive hold
// is currently contended — both are normal outcomes meaning "do nothing".
//
// While the returned hold is live the owner's teardown is blocked, so state
// reached through the owner is valid. Holds must not be kept across long
// blocking operations or cross-task handoffs.
func (g *CloseGuard) TryReadHold() *ReadHold {
	if g.token.Load() != tokenAlive {
		return nil
	}
	if !g.mu.TryRLock() {
		return nil
	}
	// Teardown may have completed between the token probe and the lock.
	if g.token.Load() != tokenAlive {
		g.mu.RUnlock()
		return nil
	}
	return &ReadHold{g: g}
}

// AcquireExclusive blocks until every outstanding read-hold drops and
// returns the exclusive hold. The caller carries it through whatever
// teardown work must exclude readers, then releases it.
func (g *CloseGuard) AcquireExclusive() *WriteHold {
	g.mu.Lock()
	return &WriteHold{g: g}
}

// LockForClose takes the exclusive hold and stores it inside the guard, so
// a later Close releases it instead of re-acquiring. Owners call it at the
// top of their teardown when the guard itself must be dropped last.
//
// Calling LockForClose twice is a programmer error and panics.
func (g *CloseGuard) LockForClose() {
	if !g.explicit.CompareAndSwap(false, true) {
		panic("concurrency: CloseGuard.LockForClose called twice")
	}
	g.mu.Lock()
}

// Close finishes the guard's life. If LockForClose was called, the stored
// exclusive hold is released after the token clears; otherwise Close blocks
// until all read-holds drop, then clears the token. Either way, once Close
// returns no new read-hold will ever be granted, and every reader that held
// the guard has finished.
//
// Closing twice is a programmer error and panics.
func (g *CloseGuard) Close() {
	if g.explicit.Load() {
		if g.token.Swap(0) != tokenAlive {
			panic("concurrency: CloseGuard closed twice")
		}
		g.mu.Unlock()
		return
	}
	g.mu.Lock()
	if g.token.Swap(0) != tokenAlive {
		g.mu.Unlock()
		panic("concurrency: CloseGuard closed twice")
	}
	g.mu.Unlock()
}

// ReadHold is scoped shared possession of a CloseGuard. Release it exactly
// once, from the goroutine that obtained it.
type ReadHold struct {
	g        *CloseGuard
	released bool
}

// Release drops the hold. Releasing twice panics.
func (h *ReadHold) Release() {
	if h.released {
		panic("concurrency: ReadHold released twice")
	}
	h.released = true
	h.g.mu.RUnlock()
}

// WriteHold is scoped exclusive possession of a CloseGuard.
type WriteHold struct {
	g        *CloseGuard
	released bool
}

// Release drops the hold. Releasing twice panics.
func (h *WriteHold) Release() {
	if h.released {
		panic("concurrency: WriteHold released twice")
	}
	h.released = true
	h.g.mu.Unlock()
}

// noCopy triggers go vet's copylocks check when embedded in a struct that
// must stay put.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
