// File: pool/dynamic.go
// Package pool implements the geometrically growing bump allocator.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Dynamic keeps the no-free bump contract of BumpPool while removing the
// "must know max size upfront" constraint. Only the last block services
// requests; exhausted blocks are retained and freed as a set at Close.

package pool

import (
	"math"

	"github.com/momentics/hioload-core/api"
)

// GrowObserver is invoked after a new block is appended, with the size of
// the block and the new block count. Wired to tracing/metrics by callers;
// never invoked on the allocation fast path.
type GrowObserver func(blockSize, blocks int)

// Dynamic is a bump allocator over an ordered sequence of fixed blocks.
// When the current block cannot satisfy a request, a new block of size
// floor(B·g) is appended and becomes current. A single request larger than
// the computable next block fails; no coalescing is attempted.
//
// Like BumpPool, Dynamic is not thread-safe.
type Dynamic struct {
	blocks    []*BumpPool
	blockSize int
	growth    float64
	useMmap   bool
	observer  GrowObserver
	closed    bool
}

var _ api.Arena = (*Dynamic)(nil)

// Option configures a Dynamic pool.
type Option func(*Dynamic)

// WithGrowthFactor sets the geometric growth factor g. Values below 1.0
// are clamped to 1.0.
func WithGrowthFactor(g float64) Option {
	return func(d *Dynamic) {
		if g < 1.0 {
			g = 1.0
		}
		d.growth = g
	}
}

// WithMmapBlocks reserves blocks via anonymous mmap where supported.
func WithMmapBlocks() Option {
	return func(d *Dynamic) { d.useMmap = true }
}

// WithGrowObserver registers a callback fired when a block is appended.
func WithGrowObserver(fn GrowObserver) Option {
	return func(d *Dynamic) { d.observer = fn }
}

// NewDynamic creates a pool with an initial block of blockSize bytes and
// growth factor 1.0 unless overridden.
func NewDynamic(blockSize int, opts ...Option) *Dynamic {
	d := &Dynamic{
		blockSize: blockSize,
		growth:    1.0,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.blocks = append(d.blocks, d.newBlock(blockSize))
	return d
}

func (d *Dynamic) newBlock(size int) *BumpPool {
	if d.useMmap {
		return NewBumpPoolMmap(size)
	}
	return NewBumpPool(size)
}

// Alloc reserves size bytes at the default 8-byte alignment.
func (d *Dynamic) Alloc(size int) []byte {
	return d.AllocAligned(size, DefaultAlign)
}

// AllocAligned reserves size bytes aligned to align from the current block.
// On a miss it computes the next block size B' = floor(B·g); if the request
// plus worst-case alignment slack exceeds B' the allocation fails (nil).
// Otherwise one block of B' is appended and the allocation retried once.
func (d *Dynamic) AllocAligned(size, align int) []byte {
	if d.closed {
		return nil
	}
	current := d.blocks[len(d.blocks)-1]
	if buf := current.AllocAligned(size, align); buf != nil {
		return buf
	}

	next := int(math.Floor(float64(d.blockSize) * d.growth))
	if size+alignSlack(align) > next {
		return nil
	}
	d.blockSize = next
	block := d.newBlock(next)
	d.blocks = append(d.blocks, block)
	if d.observer != nil {
		d.observer(next, len(d.blocks))
	}
	return block.AllocAligned(size, align)
}

// alignSlack is the worst-case cursor slack for align in a fresh block,
// whose base is only guaranteed 16-byte aligned.
func alignSlack(align int) int {
	if align <= baseAlign {
		return 0
	}
	return align - baseAlign
}

// Free is a no-op by design; blocks are freed as a set at Close.
func (d *Dynamic) Free(buf []byte) {}

// Capacity returns total bytes across all blocks.
func (d *Dynamic) Capacity() int {
	total := 0
	for _, b := range d.blocks {
		total += b.Capacity()
	}
	return total
}

// Available returns the allocatable bytes of the current block. Leftover
// space in exhausted blocks is unreachable and not counted.
func (d *Dynamic) Available() int {
	if d.closed {
		return 0
	}
	return d.blocks[len(d.blocks)-1].Available()
}

// Blocks returns the number of live blocks, zero once the pool is closed.
func (d *Dynamic) Blocks() int {
	return len(d.blocks)
}

// Reset drops all blocks but the first and rewinds it. The retained block
// keeps its original size; the growth sequence restarts from it. Reset on a
// closed pool is a no-op.
func (d *Dynamic) Reset() {
	if d.closed {
		return
	}
	for _, b := range d.blocks[1:] {
		b.Close()
	}
	d.blocks = d.blocks[:1]
	d.blocks[0].Reset()
	d.blockSize = d.blocks[0].Capacity()
}

// Close frees every block as a set. Further allocations return nil.
func (d *Dynamic) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	var first error
	for _, b := range d.blocks {
		if err := b.Close(); err != nil && first == nil {
			first = err
		}
	}
	d.blocks = nil
	return first
}
