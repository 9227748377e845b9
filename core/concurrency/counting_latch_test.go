// File: core/concurrency/counting_latch_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package concurrency

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountingLatch_NotifyWaitBalance(t *testing.T) {
	l := NewCountingLatch()
	const k = 25

	for i := 0; i < k; i++ {
		l.NotifyOne()
	}
	assert.Equal(t, k, l.Count())

	for i := 0; i < k; i++ {
		require.Equal(t, Notified, l.Wait())
	}
	assert.Equal(t, 0, l.Count())
}

func TestCountingLatch_NotifyOnceIsLevel(t *testing.T) {
	l := NewCountingLatch()
	for i := 0; i < 5; i++ {
		l.NotifyOnce()
	}
	assert.Equal(t, 1, l.Count())

	require.Equal(t, Notified, l.Wait())
	assert.Equal(t, 0, l.Count())
}

func TestCountingLatch_NotifyOnceAfterNotifyOne(t *testing.T) {
	l := NewCountingLatch()
	l.NotifyOne()
	l.NotifyOne()
	// Level form never lowers an already positive counter.
	l.NotifyOnce()
	assert.Equal(t, 2, l.Count())
}

func TestCountingLatch_WaitForTimesOutWithoutDecrement(t *testing.T) {
	l := NewCountingLatch()
	start := time.Now()
	assert.Equal(t, TimedOut, l.WaitFor(10*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	assert.Equal(t, 0, l.Count())
}

func TestCountingLatch_WaitForZeroTimeout(t *testing.T) {
	l := NewCountingLatch()
	start := time.Now()
	assert.Equal(t, TimedOut, l.WaitFor(0))
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	l.NotifyOne()
	assert.Equal(t, Notified, l.WaitFor(0))
}

func TestCountingLatch_WaitForCatchesLateNotify(t *testing.T) {
	l := NewCountingLatch()
	go func() {
		time.Sleep(20 * time.Millisecond)
		l.NotifyOne()
	}()
	assert.Equal(t, Notified, l.WaitFor(2*time.Second))
	assert.Equal(t, 0, l.Count())
}

func TestCountingLatch_NotifyAllLeavesCounterAlone(t *testing.T) {
	l := NewCountingLatch()
	l.NotifyAll()
	assert.Equal(t, 0, l.Count())
	assert.Equal(t, TimedOut, l.WaitFor(5*time.Millisecond))
}

func TestCountingLatch_WakesBlockedWaiter(t *testing.T) {
	l := NewCountingLatch()
	done := make(chan WaitResult, 1)
	go func() { done <- l.Wait() }()

	time.Sleep(10 * time.Millisecond)
	l.NotifyOne()

	select {
	case r := <-done:
		assert.Equal(t, Notified, r)
	case <-time.After(time.Second):
		t.Fatal("waiter not woken")
	}
}

// Concurrent edge notifications against concurrent waits must balance out.
func TestCountingLatch_ConcurrentBalance(t *testing.T) {
	l := NewCountingLatch()
	const n = 200

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			l.NotifyOne()
		}()
		go func() {
			defer wg.Done()
			require.Equal(t, Notified, l.Wait())
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, l.Count())
}

// Pinned semantics: NotifyOnce interleaved with NotifyOne stays serialized
// under the latch mutex; the level call never stacks, the edge calls always
// do.
func TestCountingLatch_InterleavedOnceAndOne(t *testing.T) {
	l := NewCountingLatch()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			l.NotifyOnce()
		}()
		go func() {
			defer wg.Done()
			l.NotifyOne()
		}()
	}
	wg.Wait()

	// At least the 50 edge notifications must be consumable; the level
	// calls contribute at most one more.
	got := 0
	for l.WaitFor(0) == Notified {
		got++
	}
	assert.GreaterOrEqual(t, got, 50)
	assert.LessOrEqual(t, got, 51)
	assert.Equal(t, 0, l.Count())
}
