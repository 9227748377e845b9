// File: core/concurrency/work_queue.go
// Package concurrency implements the WorkQueue FIFO.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// WorkQueue is a mutex-serialized FIFO with five wait modes: blocking,
// polled, cancellable, deadline-bound, and interval-poll-cancellable.
// Every mutation that can unblock a waiter is followed by a broadcast,
// except PushSilent. Waiters capture the broadcast generation while still
// holding the queue mutex, so a wake can never be lost between deciding
// "empty" and suspending.

package concurrency

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-core/api"
	"github.com/momentics/hioload-core/internal/notify"
)

// WorkQueue is a thread-safe FIFO of T. Multiple producers and multiple
// consumers are supported; items are popped in insertion order. Fairness
// among blocked consumers is whatever the runtime provides, not a promise
// of the queue.
type WorkQueue[T any] struct {
	mu     sync.Mutex
	items  *queue.Queue
	bcast  *notify.Broadcaster
	length atomic.Int64
	closed bool
}

// NewWorkQueue creates an empty WorkQueue.
func NewWorkQueue[T any]() *WorkQueue[T] {
	return &WorkQueue[T]{
		items: queue.New(),
		bcast: notify.NewBroadcaster(),
	}
}

// Push appends item and wakes all waiters. Pushing into a closed queue is a
// programmer error and panics; producers racing shutdown use TryPush.
func (q *WorkQueue[T]) Push(item T) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		panic("concurrency: Push on closed WorkQueue")
	}
	q.items.Add(item)
	q.length.Store(int64(q.items.Length()))
	q.mu.Unlock()
	q.bcast.Broadcast()
}

// PushSilent appends item without waking waiters. Producers pushing a batch
// use it for all but the last item, then wake exactly once via Push.
// Like Push, it panics on a closed queue.
func (q *WorkQueue[T]) PushSilent(item T) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		panic("concurrency: PushSilent on closed WorkQueue")
	}
	q.items.Add(item)
	q.length.Store(int64(q.items.Length()))
	q.mu.Unlock()
}

// TryPush appends item and wakes all waiters, unless the queue is closed.
// Returns false on a closed queue; the item is dropped.
func (q *WorkQueue[T]) TryPush(item T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items.Add(item)
	q.length.Store(int64(q.items.Length()))
	q.mu.Unlock()
	q.bcast.Broadcast()
	return true
}

// TryPushSilent is TryPush without the wake.
func (q *WorkQueue[T]) TryPushSilent(item T) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items.Add(item)
	q.length.Store(int64(q.items.Length()))
	q.mu.Unlock()
	return true
}

// TryPop removes the front item without blocking. ok is false if the queue
// is empty.
func (q *WorkQueue[T]) TryPop() (item T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.items.Length() == 0 {
		return item, false
	}
	item = q.items.Remove().(T)
	q.length.Store(int64(q.items.Length()))
	return item, true
}

// Pop removes and returns the front item, then wakes all waiters.
// Broadcasting on pop is intentional: waiters whose predicates key on queue
// size must be able to re-check. Returns api.ErrEmptyQueue if empty.
func (q *WorkQueue[T]) Pop() (item T, err error) {
	q.mu.Lock()
	if q.items.Length() == 0 {
		q.mu.Unlock()
		return item, api.ErrEmptyQueue
	}
	item = q.items.Remove().(T)
	q.length.Store(int64(q.items.Length()))
	q.mu.Unlock()
	q.bcast.Broadcast()
	return item, nil
}

// WaitPop blocks until an item is available or the queue is closed.
// Returns api.ErrQueueClosed once the queue has reached its terminal state.
func (q *WorkQueue[T]) WaitPop() (item T, err error) {
	for {
		q.mu.Lock()
		if q.items.Length() > 0 {
			item = q.items.Remove().(T)
			q.length.Store(int64(q.items.Length()))
			q.mu.Unlock()
			q.bcast.Broadcast()
			return item, nil
		}
		if q.closed {
			q.mu.Unlock()
			return item, api.ErrQueueClosed
		}
		wake := q.bcast.Subscribe()
		q.mu.Unlock()
		<-wake
	}
}

// WaitPopUntil blocks until an item arrives or cancel returns true, waking
// at most every pollInterval to re-evaluate cancel. cancel is evaluated
// once at entry and at every wake. Returns false on cancellation or on
// terminal queue state.
func (q *WorkQueue[T]) WaitPopUntil(cancel api.CancelFunc, pollInterval time.Duration) (item T, ok bool) {
	if pollInterval <= 0 {
		pollInterval = time.Millisecond
	}
	timer := time.NewTimer(pollInterval)
	defer timer.Stop()
	for {
		if cancel != nil && cancel() {
			return item, false
		}
		popped, done, wake := q.tryPopOrSubscribe(&item)
		if popped {
			return item, true
		}
		if done {
			return item, false
		}
		resetTimer(timer, pollInterval)
		select {
		case <-wake:
		case <-timer.C:
		}
	}
}

// WaitPopFor blocks until an item arrives, the deadline now+timeout
// elapses, or cancel returns true. The deadline is computed once at entry;
// spurious wakes do not extend it. Returns false on deadline or
// cancellation.
func (q *WorkQueue[T]) WaitPopFor(timeout time.Duration, cancel api.CancelFunc) (item T, ok bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		if cancel != nil && cancel() {
			return item, false
		}
		popped, done, wake := q.tryPopOrSubscribe(&item)
		if popped {
			return item, true
		}
		if done {
			return item, false
		}
		select {
		case <-wake:
		case <-timer.C:
			return item, false
		}
	}
}

// WaitPopInterval behaves like WaitPopFor but re-evaluates cancel every
// interval inside the total window, even if no broadcast arrives.
func (q *WorkQueue[T]) WaitPopInterval(total, interval time.Duration, cancel api.CancelFunc) (item T, ok bool) {
	if interval <= 0 {
		interval = time.Millisecond
	}
	deadline := time.NewTimer(total)
	defer deadline.Stop()
	tick := time.NewTimer(interval)
	defer tick.Stop()
	for {
		if cancel != nil && cancel() {
			return item, false
		}
		popped, done, wake := q.tryPopOrSubscribe(&item)
		if popped {
			return item, true
		}
		if done {
			return item, false
		}
		resetTimer(tick, interval)
		select {
		case <-wake:
		case <-tick.C:
		case <-deadline.C:
			return item, false
		}
	}
}

// tryPopOrSubscribe makes one pass under the mutex: pop if possible,
// report terminal state, or capture the wake channel for suspension.
// Capturing under the mutex is what makes the acquire/sleep atomic with
// respect to concurrent pushes.
func (q *WorkQueue[T]) tryPopOrSubscribe(out *T) (popped, closed bool, wake <-chan struct{}) {
	q.mu.Lock()
	if q.items.Length() > 0 {
		*out = q.items.Remove().(T)
		q.length.Store(int64(q.items.Length()))
		q.mu.Unlock()
		q.bcast.Broadcast()
		return true, false, nil
	}
	if q.closed {
		q.mu.Unlock()
		return false, true, nil
	}
	wake = q.bcast.Subscribe()
	q.mu.Unlock()
	return false, false, wake
}

// Clear empties the queue under lock, then wakes all waiters.
func (q *WorkQueue[T]) Clear() {
	q.mu.Lock()
	q.items = queue.New()
	q.length.Store(0)
	q.mu.Unlock()
	q.bcast.Broadcast()
}

// Snapshot returns a copy of the current contents taken under lock.
func (q *WorkQueue[T]) Snapshot() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]T, q.items.Length())
	for i := range out {
		out[i] = q.items.Get(i).(T)
	}
	return out
}

// Len returns a best-effort element count without taking the lock.
func (q *WorkQueue[T]) Len() int {
	return int(q.length.Load())
}

// Empty reports whether the queue looks empty. Best-effort, like Len.
func (q *WorkQueue[T]) Empty() bool {
	return q.length.Load() == 0
}

// SafeLen returns the element count observed under the lock.
func (q *WorkQueue[T]) SafeLen() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}

// Close moves the queue to its terminal state: the contents are dropped
// under lock and all waiters are woken so they observe closure and return.
// Close is idempotent. After Close, Push and PushSilent panic and TryPush
// reports false.
//
// A waiter's cancel predicate must not reference state torn down alongside
// the queue; the usual pattern is an independent shutdown flag set before
// Close is called.
func (q *WorkQueue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.items = queue.New()
	q.length.Store(0)
	q.mu.Unlock()
	q.bcast.Broadcast()
}

// resetTimer re-arms a timer that may have fired, draining the channel if
// the previous expiry was not consumed.
func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}
