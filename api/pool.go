// File: api/pool.go
// Author: momentics <momentics@gmail.com>
//
// Defines abstract allocation APIs: bump/arena allocators for transient,
// die-together object populations.

package api

// Arena is a monotonically growing, no-free allocator. Allocations remain
// valid until the arena is reset or closed; there is no per-allocation free.
//
// A nil return from Alloc/AllocAligned is the allocation-failure sentinel.
// Failure is a recoverable, reported condition, never a panic.
//
// Sizes are non-negative; alignments are powers of two. The arena validates
// neither — that is the caller's contract.
type Arena interface {
	// Alloc reserves size bytes at the default 8-byte alignment.
	Alloc(size int) []byte

	// AllocAligned reserves size bytes aligned to align.
	AllocAligned(size, align int) []byte

	// Free is a deliberate no-op. Clients reset or close the whole arena.
	Free(buf []byte)

	// Capacity returns total bytes backing the arena.
	Capacity() int

	// Available returns bytes still allocatable. Alignment slack already
	// spent is charged against this figure.
	Available() int
}

// ObjectPool provides generic pooling of Go objects allocated transiently.
type ObjectPool[T any] interface {
	// Get returns an available instance from pool
	Get() T

	// Put returns an instance for reuse
	Put(obj T)
}
