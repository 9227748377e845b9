// File: pool/objpool.go
// Package pool implements the reusable-object pool.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"sync"

	"github.com/momentics/hioload-core/api"
)

// SyncPool recycles objects through sync.Pool behind the api.ObjectPool
// contract. An optional reset hook runs on Put, so borrowers always receive
// an object in its post-reset state.
type SyncPool[T any] struct {
	pool  sync.Pool
	reset func(T) T
}

var _ api.ObjectPool[int] = (*SyncPool[int])(nil)

// NewSyncPool creates a pool producing fresh objects via creator.
func NewSyncPool[T any](creator func() T) *SyncPool[T] {
	return NewSyncPoolWithReset(creator, nil)
}

// NewSyncPoolWithReset creates a pool whose reset hook is applied to every
// object returned through Put. A nil reset stores objects as-is.
func NewSyncPoolWithReset[T any](creator func() T, reset func(T) T) *SyncPool[T] {
	sp := &SyncPool[T]{reset: reset}
	sp.pool.New = func() any { return creator() }
	return sp
}

// Get returns a pooled object, or a fresh one when the pool is empty.
func (sp *SyncPool[T]) Get() T {
	return sp.pool.Get().(T)
}

// Put returns an object for reuse, resetting it first when a hook is set.
func (sp *SyncPool[T]) Put(obj T) {
	if sp.reset != nil {
		obj = sp.reset(obj)
	}
	sp.pool.Put(obj)
}

// NewArenaPool pools ready-to-use scratch arenas: Get hands out a rewound
// Dynamic, Put rewinds it for the next borrower. Useful when many short
// tasks each need a die-together scratch region but constructing one per
// task is too costly.
func NewArenaPool(blockSize int, opts ...Option) *SyncPool[*Dynamic] {
	return NewSyncPoolWithReset(
		func() *Dynamic { return NewDynamic(blockSize, opts...) },
		func(d *Dynamic) *Dynamic {
			d.Reset()
			return d
		},
	)
}
