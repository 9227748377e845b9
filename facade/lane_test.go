// File: facade/lane_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package facade

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-core/api"
	"github.com/momentics/hioload-core/control"
)

// recordingTracer captures events for assertions.
type recordingTracer struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTracer) Event(component, event string, fields map[string]any) {
	r.mu.Lock()
	r.events = append(r.events, component+"/"+event)
	r.mu.Unlock()
}

func (r *recordingTracer) has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

func waitForProcessed[T any](t *testing.T, lane *TaskLane[T], want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if lane.Stats().Processed >= want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("lane processed %d of %d items", lane.Stats().Processed, want)
}

func TestTaskLane_ProcessesInOrder(t *testing.T) {
	var mu sync.Mutex
	var got []int
	lane := NewTaskLane(func(item int, scratch api.Arena) {
		mu.Lock()
		got = append(got, item)
		mu.Unlock()
	}, nil)
	defer lane.Shutdown()

	for i := 0; i < 20; i++ {
		require.NoError(t, lane.Submit(i))
	}
	waitForProcessed(t, lane, 20)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 20)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestTaskLane_SubmitBatch(t *testing.T) {
	var count atomic.Int64
	lane := NewTaskLane(func(item string, scratch api.Arena) {
		count.Add(1)
	}, nil)
	defer lane.Shutdown()

	require.NoError(t, lane.SubmitBatch([]string{"a", "b", "c", "d"}))
	require.NoError(t, lane.SubmitBatch(nil))
	waitForProcessed(t, lane, 4)
	assert.Equal(t, int64(4), count.Load())
}

func TestTaskLane_ScratchArenaPerItem(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ScratchBlockSize = 256

	var failed atomic.Bool
	lane := NewTaskLane(func(item int, scratch api.Arena) {
		buf := scratch.Alloc(64)
		if buf == nil {
			failed.Store(true)
			return
		}
		copy(buf, "scratch")
	}, cfg)
	defer lane.Shutdown()

	for i := 0; i < 50; i++ {
		require.NoError(t, lane.Submit(i))
	}
	waitForProcessed(t, lane, 50)
	assert.False(t, failed.Load(), "scratch allocation failed despite reset between items")

	// The arena is reset between items, so 50 × 64 bytes never grow a
	// 256-byte block.
	assert.Equal(t, int64(1), lane.Stats().ScratchBlocks)
}

func TestTaskLane_HandlerPanicIsRecovered(t *testing.T) {
	lane := NewTaskLane(func(item int, scratch api.Arena) {
		if item == 1 {
			panic("boom")
		}
	}, nil)
	defer lane.Shutdown()

	require.NoError(t, lane.Submit(0))
	require.NoError(t, lane.Submit(1))
	require.NoError(t, lane.Submit(2))

	waitForProcessed(t, lane, 2) // the panicking item does not count
	deadline := time.Now().Add(2 * time.Second)
	for lane.Stats().Panics == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, int64(1), lane.Stats().Panics)
	assert.Equal(t, int64(2), lane.Stats().Processed)
}

func TestTaskLane_ShutdownIdempotentAndRejecting(t *testing.T) {
	lane := NewTaskLane(func(item int, scratch api.Arena) {}, nil)

	require.NoError(t, lane.Shutdown())
	require.NoError(t, lane.Shutdown())

	err := lane.Submit(1)
	assert.ErrorIs(t, err, api.ErrLaneClosed)

	var structured *api.Error
	require.ErrorAs(t, err, &structured)
	assert.Equal(t, api.ErrCodeClosed, structured.Code)
	assert.Equal(t, "lane", structured.Context["lane"])

	assert.ErrorIs(t, lane.SubmitBatch([]int{1, 2}), api.ErrLaneClosed)
	assert.Equal(t, int64(3), lane.Stats().Rejected)
}

// Shutdown must not complete while a background task holds the lane's guard.
func TestTaskLane_ShutdownWaitsForGuardHolders(t *testing.T) {
	lane := NewTaskLane(func(item int, scratch api.Arena) {}, nil)

	h := lane.Guard().TryReadHold()
	require.NotNil(t, h)

	var released atomic.Bool
	go func() {
		time.Sleep(30 * time.Millisecond)
		released.Store(true)
		h.Release()
	}()

	require.NoError(t, lane.Shutdown())
	assert.True(t, released.Load(), "Shutdown returned while a read-hold was live")
	assert.Nil(t, lane.Guard().TryReadHold(), "no holds after teardown")
}

func TestTaskLane_TracerAndMetrics(t *testing.T) {
	tr := &recordingTracer{}
	cfg := DefaultConfig()
	cfg.Name = "traced"
	cfg.Tracer = tr

	lane := NewTaskLane(func(item int, scratch api.Arena) {}, cfg)
	require.NoError(t, lane.Submit(1))
	waitForProcessed(t, lane, 1)
	require.NoError(t, lane.Shutdown())

	assert.True(t, tr.has("lane/start"))
	assert.True(t, tr.has("lane/shutdown"))
}

func TestTaskLane_RegisterWithController(t *testing.T) {
	c := control.NewController()
	lane := NewTaskLane(func(item int, scratch api.Arena) {}, nil)
	lane.RegisterWith(c)

	require.NoError(t, lane.Submit(7))
	waitForProcessed(t, lane, 1)

	stats := c.Stats()
	assert.Equal(t, int64(1), stats["lane.processed"])
	assert.Contains(t, c.DumpDebug(), "lane")

	require.NoError(t, lane.Shutdown())
	assert.NotContains(t, c.DumpDebug(), "lane", "probe detaches at shutdown")
}

func TestConfigFromStore(t *testing.T) {
	cs := control.NewConfigStore()
	cs.SetConfig(map[string]any{
		"scratch_block_size": 1024,
		"growth_factor":      1.25,
		"poll_interval":      2 * time.Millisecond,
	})

	cfg := ConfigFromStore("tuned", cs)
	assert.Equal(t, "tuned", cfg.Name)
	assert.Equal(t, 1024, cfg.ScratchBlockSize)
	assert.Equal(t, 1.25, cfg.GrowthFactor)
	assert.Equal(t, 2*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}
