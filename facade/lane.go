// File: facade/lane.go
// Unified facade layer for hioload-core.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// TaskLane packages the canonical composition of the library's primitives:
// one consumer goroutine drains a WorkQueue under a cancellable wait whose
// predicate is the lane's shutdown flag; completion of the drain is
// reported through a CountingLatch; each item gets a scratch arena that is
// reset between items; and everything reachable through the lane from
// background tasks is gated by a CloseGuard. The primitives impose no
// cross-component ordering of their own — the lane does, by setting its
// shutdown flag before closing the queue and by dropping the guard last.

package facade

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/hioload-core/api"
	"github.com/momentics/hioload-core/control"
	"github.com/momentics/hioload-core/core/concurrency"
	"github.com/momentics/hioload-core/pool"
)

// Handler processes one queued item. scratch is valid only for the duration
// of the call; it is reset before the next item, so the handler must not
// retain slices allocated from it.
type Handler[T any] func(item T, scratch api.Arena)

// Config holds lane parameters immutable per run.
type Config struct {
	Name             string        // Lane name used in traces and metric labels
	ScratchBlockSize int           // Initial scratch arena block size in bytes
	GrowthFactor     float64       // Scratch arena geometric growth factor
	MmapScratch      bool          // Reserve scratch blocks via anonymous mmap
	PollInterval     time.Duration // Shutdown-flag poll interval for the consumer
	ShutdownTimeout  time.Duration // Max wait for the consumer to drain on Shutdown
	Tracer           control.Tracer
	Metrics          *control.Exporter
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		Name:             "lane",
		ScratchBlockSize: 64 * 1024,
		GrowthFactor:     2.0,
		PollInterval:     time.Millisecond,
		ShutdownTimeout:  30 * time.Second,
		Tracer:           control.NopTracer{},
	}
}

// ConfigFromStore builds a Config from typed keys in a control.ConfigStore,
// falling back to defaults for anything unset. Recognized keys:
// scratch_block_size, growth_factor, poll_interval, shutdown_timeout.
func ConfigFromStore(name string, cs *control.ConfigStore) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.ScratchBlockSize = cs.GetInt("scratch_block_size", cfg.ScratchBlockSize)
	cfg.GrowthFactor = cs.GetFloat("growth_factor", cfg.GrowthFactor)
	cfg.PollInterval = cs.GetDuration("poll_interval", cfg.PollInterval)
	cfg.ShutdownTimeout = cs.GetDuration("shutdown_timeout", cfg.ShutdownTimeout)
	return cfg
}

// LaneStats is a point-in-time observation of lane counters.
type LaneStats struct {
	Processed       int64
	Panics          int64
	Rejected        int64
	QueueDepth      int
	ScratchCapacity int64
	ScratchBlocks   int64
}

// TaskLane is a single-consumer work lane over WorkQueue[T].
type TaskLane[T any] struct {
	name    string
	queue   *concurrency.WorkQueue[T]
	guard   *concurrency.CloseGuard
	drained *concurrency.CountingLatch
	scratch *pool.Dynamic
	handler Handler[T]
	cfg     *Config

	stopping   atomic.Bool
	processed  atomic.Int64
	panics     atomic.Int64
	rejected   atomic.Int64
	scratchCap atomic.Int64
	scratchBlk atomic.Int64

	mu       sync.Mutex
	shutdown bool
	ctrl     *control.Controller
}

// Ensure compliance with api.GracefulShutdown.
var _ api.GracefulShutdown = (*TaskLane[any])(nil)

// NewTaskLane constructs a lane and starts its consumer goroutine.
func NewTaskLane[T any](handler Handler[T], cfg *Config) *TaskLane[T] {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = control.NopTracer{}
	}
	t := &TaskLane[T]{
		name:    cfg.Name,
		queue:   concurrency.NewWorkQueue[T](),
		guard:   concurrency.NewCloseGuard(),
		drained: concurrency.NewCountingLatch(),
		handler: handler,
		cfg:     cfg,
	}

	opts := []pool.Option{
		pool.WithGrowthFactor(cfg.GrowthFactor),
		pool.WithGrowObserver(t.observeGrow),
	}
	if cfg.MmapScratch {
		opts = append(opts, pool.WithMmapBlocks())
	}
	t.scratch = pool.NewDynamic(cfg.ScratchBlockSize, opts...)
	t.scratchCap.Store(int64(cfg.ScratchBlockSize))
	t.scratchBlk.Store(1)

	cfg.Tracer.Event("lane", "start", map[string]any{
		"name":               t.name,
		"scratch_block_size": cfg.ScratchBlockSize,
	})
	go t.run()
	return t
}

// observeGrow runs on the consumer goroutine whenever the scratch arena
// appends a block.
func (t *TaskLane[T]) observeGrow(blockSize, blocks int) {
	t.scratchCap.Add(int64(blockSize))
	t.scratchBlk.Store(int64(blocks))
	t.cfg.Metrics.RecordArena(t.name, int(t.scratchCap.Load()), blocks)
	t.cfg.Tracer.Event("lane", "scratch_grow", map[string]any{
		"name":       t.name,
		"block_size": blockSize,
		"blocks":     blocks,
	})
}

func (t *TaskLane[T]) run() {
	defer t.drained.NotifyOne()
	for {
		item, ok := t.queue.WaitPopUntil(t.stopping.Load, t.cfg.PollInterval)
		if !ok {
			return
		}
		t.handle(item)
	}
}

func (t *TaskLane[T]) handle(item T) {
	defer func() {
		if r := recover(); r != nil {
			t.panics.Add(1)
			t.cfg.Metrics.RecordPanic(t.name)
			t.cfg.Tracer.Event("lane", "handler_panic", map[string]any{
				"name":  t.name,
				"panic": r,
			})
		}
	}()
	defer func() {
		t.scratch.Reset()
		t.scratchCap.Store(int64(t.scratch.Capacity()))
		t.scratchBlk.Store(int64(t.scratch.Blocks()))
	}()
	t.handler(item, t.scratch)
	t.processed.Add(1)
	t.cfg.Metrics.RecordProcessed(t.name)
}

// rejectErr reports a submission refused by a lane that is shutting down.
// Wraps api.ErrLaneClosed, so errors.Is against the sentinel keeps working.
func (t *TaskLane[T]) rejectErr() error {
	return api.WrapError(api.ErrCodeClosed, api.ErrLaneClosed, "submit rejected").
		WithContext("lane", t.name)
}

// Submit enqueues one item for the consumer. Once shutdown has begun the
// item is rejected with an error wrapping api.ErrLaneClosed.
func (t *TaskLane[T]) Submit(item T) error {
	// TryPush covers the window between the stopping check and the queue
	// reaching its terminal state.
	if t.stopping.Load() || !t.queue.TryPush(item) {
		t.rejected.Add(1)
		t.cfg.Metrics.RecordRejected(t.name)
		return t.rejectErr()
	}
	t.cfg.Metrics.RecordQueueDepth(t.name, t.queue.Len())
	return nil
}

// SubmitBatch enqueues items with a single wake: every item but the last is
// pushed silently, then the last push broadcasts once. On rejection the
// items not yet enqueued are counted as rejected.
func (t *TaskLane[T]) SubmitBatch(items []T) error {
	if len(items) == 0 {
		return nil
	}
	if t.stopping.Load() {
		t.rejected.Add(int64(len(items)))
		t.cfg.Metrics.RecordRejected(t.name)
		return t.rejectErr()
	}
	for i, item := range items[:len(items)-1] {
		if !t.queue.TryPushSilent(item) {
			t.rejected.Add(int64(len(items) - i))
			t.cfg.Metrics.RecordRejected(t.name)
			return t.rejectErr()
		}
	}
	if !t.queue.TryPush(items[len(items)-1]) {
		t.rejected.Add(1)
		t.cfg.Metrics.RecordRejected(t.name)
		return t.rejectErr()
	}
	t.cfg.Metrics.RecordQueueDepth(t.name, t.queue.Len())
	return nil
}

// Guard returns the lane's lifetime gate. Background tasks that reach into
// lane-owned state must take a read-hold first and bail out when it is nil;
// Shutdown will not complete while such a hold is live.
func (t *TaskLane[T]) Guard() *concurrency.CloseGuard {
	return t.guard
}

// Queue exposes the underlying work queue for advanced callers (snapshots,
// direct timed pops). The queue dies with the lane.
func (t *TaskLane[T]) Queue() *concurrency.WorkQueue[T] {
	return t.queue
}

// Stats returns current lane counters. Safe to call at any time, including
// after Shutdown.
func (t *TaskLane[T]) Stats() LaneStats {
	return LaneStats{
		Processed:       t.processed.Load(),
		Panics:          t.panics.Load(),
		Rejected:        t.rejected.Load(),
		QueueDepth:      t.queue.Len(),
		ScratchCapacity: t.scratchCap.Load(),
		ScratchBlocks:   t.scratchBlk.Load(),
	}
}

// RegisterWith attaches the lane to a controller: a metrics source under
// the lane's name and a debug probe dumping the same stats.
func (t *TaskLane[T]) RegisterWith(c *control.Controller) {
	source := func() map[string]any {
		s := t.Stats()
		return map[string]any{
			"processed":        s.Processed,
			"panics":           s.Panics,
			"rejected":         s.Rejected,
			"queue_depth":      s.QueueDepth,
			"scratch_capacity": s.ScratchCapacity,
			"scratch_blocks":   s.ScratchBlocks,
		}
	}
	c.Metrics().RegisterSource(t.name, source)
	c.RegisterDebugProbe(t.name, func() any { return t.Stats() })
	t.mu.Lock()
	t.ctrl = c
	t.mu.Unlock()
}

// Shutdown stops the lane: the shutdown flag is set before the queue is
// closed (so the consumer's cancel predicate never dereferences a dying
// queue), the consumer drain is awaited through the latch, background
// read-holds are flushed via the guard's explicit close protocol, and the
// scratch arena is dropped last of the guarded state. Items still queued
// are abandoned; the in-flight item completes.
//
// Shutdown is idempotent. It returns an error wrapping
// api.ErrOperationTimeout when the consumer fails to drain within
// ShutdownTimeout.
func (t *TaskLane[T]) Shutdown() error {
	t.mu.Lock()
	if t.shutdown {
		t.mu.Unlock()
		return nil
	}
	t.shutdown = true
	ctrl := t.ctrl
	t.mu.Unlock()

	t.stopping.Store(true)
	t.queue.Close()

	if t.drained.WaitFor(t.cfg.ShutdownTimeout) == concurrency.TimedOut {
		return api.WrapError(api.ErrCodeTimeout, api.ErrOperationTimeout, "consumer drain timed out").
			WithContext("lane", t.name)
	}

	// Block until every background read-hold drops, then keep the write
	// lock across the teardown of the guarded state.
	t.guard.LockForClose()
	err := t.scratch.Close()
	t.guard.Close()

	// Detach the debug probe so later dumps never reach torn-down state.
	if ctrl != nil {
		ctrl.UnregisterDebugProbe(t.name)
	}

	t.cfg.Tracer.Event("lane", "shutdown", map[string]any{
		"name":      t.name,
		"processed": t.processed.Load(),
		"panics":    t.panics.Load(),
	})
	return err
}
