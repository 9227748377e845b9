// File: core/concurrency/counting_latch.go
// Package concurrency implements the CountingLatch notification primitive.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// CountingLatch distinguishes edge notifications (NotifyOne adds one per
// call) from level notifications (NotifyOnce raises the counter to at least
// one without stacking). The latch is reusable; its counter is observable
// but racy to act on without a wait.

package concurrency

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-core/internal/notify"
)

// WaitResult reports how a latch wait finished.
type WaitResult int

const (
	// Notified means the wait consumed a notification (counter decremented).
	Notified WaitResult = iota
	// TimedOut means the deadline elapsed; the counter was not touched.
	TimedOut
)

// String returns the result name for logs and test failures.
func (r WaitResult) String() string {
	switch r {
	case Notified:
		return "notified"
	case TimedOut:
		return "timed_out"
	default:
		return "unknown"
	}
}

// CountingLatch is a counted notification primitive. All counter mutations
// are serialized under an internal mutex; k NotifyOne calls followed by k
// successful waits leave the counter where it started.
type CountingLatch struct {
	mu    sync.Mutex
	count atomic.Int64
	bcast *notify.Broadcaster
}

// NewCountingLatch creates a latch with a zero counter.
func NewCountingLatch() *CountingLatch {
	return &CountingLatch{bcast: notify.NewBroadcaster()}
}

// NotifyOne adds one notification and wakes waiters. This is the edge form:
// every call accumulates.
func (l *CountingLatch) NotifyOne() {
	l.mu.Lock()
	l.count.Add(1)
	l.mu.Unlock()
	l.bcast.Broadcast()
}

// NotifyOnce raises the counter to at least one and wakes waiters. This is
// the level form: repeated calls with no intervening wait do not stack.
func (l *CountingLatch) NotifyOnce() {
	l.mu.Lock()
	if l.count.Load() < 1 {
		l.count.Store(1)
	}
	l.mu.Unlock()
	l.bcast.Broadcast()
}

// NotifyAll wakes all waiters without touching the counter. Used to nudge
// waiters into re-checking their own predicates.
func (l *CountingLatch) NotifyAll() {
	l.bcast.Broadcast()
}

// Wait blocks until the counter is positive, consumes one notification and
// returns Notified.
func (l *CountingLatch) Wait() WaitResult {
	for {
		l.mu.Lock()
		if l.count.Load() > 0 {
			l.count.Add(-1)
			l.mu.Unlock()
			return Notified
		}
		wake := l.bcast.Subscribe()
		l.mu.Unlock()
		<-wake
	}
}

// WaitFor behaves like Wait but gives up after timeout, returning TimedOut
// without decrementing. The deadline is computed once at entry; spurious
// wakes do not extend it. A zero timeout polls.
func (l *CountingLatch) WaitFor(timeout time.Duration) WaitResult {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		l.mu.Lock()
		if l.count.Load() > 0 {
			l.count.Add(-1)
			l.mu.Unlock()
			return Notified
		}
		wake := l.bcast.Subscribe()
		l.mu.Unlock()
		select {
		case <-wake:
		case <-timer.C:
			return TimedOut
		}
	}
}

// Count returns a best-effort counter observation.
func (l *CountingLatch) Count() int {
	return int(l.count.Load())
}
