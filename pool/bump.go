// File: pool/bump.go
// Package pool implements the fixed-capacity bump allocator.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"unsafe"

	"github.com/momentics/hioload-core/api"
)

const (
	// DefaultAlign is the alignment applied by Alloc.
	DefaultAlign = 8
	// baseAlign is the boundary the block cursor is coerced to at
	// construction.
	baseAlign = 16
)

// BumpPool is a monotonically growing, no-free allocator over one backing
// block of fixed capacity. The cursor only ever advances; all allocations
// become invalid together when the pool is reset or closed.
//
// BumpPool is not thread-safe: one logical owner per pool. Reading immutable
// objects allocated from it concurrently is fine after allocation.
type BumpPool struct {
	buf     []byte
	off     int
	avail   int
	release func([]byte) error
	raw     []byte
}

var _ api.Arena = (*BumpPool)(nil)

// NewBumpPool creates a pool with the given capacity in bytes, backed by
// the Go heap. The usable region starts on a 16-byte boundary.
func NewBumpPool(capacity int) *BumpPool {
	return newBumpPool(make([]byte, capacity+baseAlign), capacity, nil)
}

// NewBumpPoolMmap creates a pool whose block is reserved outside the Go
// heap via anonymous mmap where the platform supports it. Falls back to the
// heap elsewhere. Close returns the reservation to the OS.
func NewBumpPoolMmap(capacity int) *BumpPool {
	raw, release := reserveBlock(capacity + baseAlign)
	return newBumpPool(raw, capacity, release)
}

// newBumpPool coerces the start of raw to baseAlign and carves the usable
// region out of it. raw must hold at least capacity+baseAlign bytes.
func newBumpPool(raw []byte, capacity int, release func([]byte) error) *BumpPool {
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	skew := int(-addr & (baseAlign - 1))
	return &BumpPool{
		buf:     raw[skew : skew+capacity],
		avail:   capacity,
		release: release,
		raw:     raw,
	}
}

// Alloc reserves size bytes at the default 8-byte alignment. Returns nil if
// the aligned request does not fit; failure is recoverable, never fatal.
func (p *BumpPool) Alloc(size int) []byte {
	return p.AllocAligned(size, DefaultAlign)
}

// AllocAligned aligns the cursor up to align, reserves size bytes and
// advances. Alignment slack is charged against Available. Returns nil when
// the aligned request does not fit the remaining bytes.
func (p *BumpPool) AllocAligned(size, align int) []byte {
	if p.buf == nil {
		return nil
	}
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(p.buf))) + uintptr(p.off)
	slack := int(-addr & uintptr(align-1))
	if slack+size > p.avail {
		return nil
	}
	start := p.off + slack
	end := start + size
	p.off = end
	p.avail -= slack + size
	return p.buf[start:end:end]
}

// Free is a no-op by design, not an oversight: clients reset or close the
// whole pool, or accept retention until then.
func (p *BumpPool) Free(buf []byte) {}

// Capacity returns the total bytes backing the pool.
func (p *BumpPool) Capacity() int {
	return len(p.buf)
}

// Available returns the bytes still allocatable, with past alignment slack
// already subtracted.
func (p *BumpPool) Available() int {
	return p.avail
}

// Used returns the bytes consumed so far, alignment slack included.
func (p *BumpPool) Used() int {
	return p.off
}

// Reset rewinds the cursor. Everything previously allocated is invalidated
// at once; the backing block is reused as-is.
func (p *BumpPool) Reset() {
	p.off = 0
	p.avail = len(p.buf)
}

// Close releases the backing block. Further allocations return nil.
func (p *BumpPool) Close() error {
	if p.buf == nil {
		return nil
	}
	p.buf = nil
	p.avail = 0
	if p.release != nil {
		err := p.release(p.raw)
		p.raw = nil
		p.release = nil
		return err
	}
	p.raw = nil
	return nil
}
