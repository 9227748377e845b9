// File: pool/dynamic_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDynamic_GrowthOnExhaustion(t *testing.T) {
	d := NewDynamic(32)
	require.NotNil(t, d.Alloc(16))
	require.NotNil(t, d.Alloc(16))
	assert.Equal(t, 1, d.Blocks())

	// First block is full: a new 32-byte block must appear.
	require.NotNil(t, d.Alloc(16))
	assert.Equal(t, 2, d.Blocks())

	// A single request beyond the computable next block size fails.
	assert.Nil(t, d.Alloc(64))
	assert.Equal(t, 2, d.Blocks(), "failed oversize request must not append blocks")
}

func TestDynamic_GeometricGrowth(t *testing.T) {
	d := NewDynamic(64, WithGrowthFactor(2.0))

	require.NotNil(t, d.Alloc(64)) // fills block 1 (64)
	require.NotNil(t, d.Alloc(96)) // forces block 2 (128)
	assert.Equal(t, 2, d.Blocks())
	assert.Equal(t, 64+128, d.Capacity())

	require.NotNil(t, d.Alloc(200)) // forces block 3 (256)
	assert.Equal(t, 3, d.Blocks())
	assert.Equal(t, 64+128+256, d.Capacity())
}

func TestDynamic_GrowthFactorClampedToOne(t *testing.T) {
	d := NewDynamic(32, WithGrowthFactor(0.25))
	require.NotNil(t, d.Alloc(32))
	require.NotNil(t, d.Alloc(32), "factor below 1.0 must behave as 1.0")
	assert.Equal(t, 2, d.Blocks())
}

func TestDynamic_OnlyLastBlockServices(t *testing.T) {
	d := NewDynamic(32)
	require.NotNil(t, d.Alloc(24)) // 8 left in block 1
	require.NotNil(t, d.Alloc(16)) // goes to block 2
	assert.Equal(t, 2, d.Blocks())

	// The 8 leftover bytes of block 1 are unreachable.
	assert.Equal(t, 16, d.Available())
	require.NotNil(t, d.Alloc(8))
	assert.Equal(t, 8, d.Available())
}

func TestDynamic_GrowObserver(t *testing.T) {
	var sizes []int
	var counts []int
	d := NewDynamic(32, WithGrowObserver(func(blockSize, blocks int) {
		sizes = append(sizes, blockSize)
		counts = append(counts, blocks)
	}))

	require.NotNil(t, d.Alloc(32))
	require.NotNil(t, d.Alloc(32))
	require.NotNil(t, d.Alloc(32))
	assert.Equal(t, []int{32, 32}, sizes)
	assert.Equal(t, []int{2, 3}, counts)
}

func TestDynamic_Reset(t *testing.T) {
	d := NewDynamic(32)
	for i := 0; i < 6; i++ {
		require.NotNil(t, d.Alloc(16))
	}
	require.Greater(t, d.Blocks(), 1)

	d.Reset()
	assert.Equal(t, 1, d.Blocks())
	assert.Equal(t, 32, d.Capacity())
	assert.Equal(t, 32, d.Available())
	require.NotNil(t, d.Alloc(16))
}

func TestDynamic_Close(t *testing.T) {
	d := NewDynamic(32, WithMmapBlocks())
	require.NotNil(t, d.Alloc(32))
	require.NotNil(t, d.Alloc(32))
	require.NoError(t, d.Close())
	assert.Nil(t, d.Alloc(1))
	assert.Equal(t, 0, d.Available())
	assert.Equal(t, 0, d.Blocks(), "a dead arena has no live blocks")
	assert.Equal(t, 0, d.Capacity())
	require.NoError(t, d.Close(), "Close is idempotent")

	d.Reset() // no-op on a closed pool
	assert.Equal(t, 0, d.Blocks())
	assert.Nil(t, d.Alloc(1))
}

func TestDynamic_ImplementsArena(t *testing.T) {
	d := NewDynamic(128)
	buf := d.AllocAligned(10, 16)
	require.NotNil(t, buf)
	d.Free(buf)
	assert.Equal(t, 128, d.Capacity())
}
