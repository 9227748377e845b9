// File: pool/objpool_test.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncPool_GetReturnsFreshWhenEmpty(t *testing.T) {
	created := 0
	sp := NewSyncPool(func() *[]byte {
		created++
		b := make([]byte, 0, 64)
		return &b
	})

	buf := sp.Get()
	require.NotNil(t, buf)
	assert.Equal(t, 1, created)
}

func TestSyncPool_ResetHookRunsOnPut(t *testing.T) {
	sp := NewSyncPoolWithReset(
		func() *[]byte {
			b := make([]byte, 0, 64)
			return &b
		},
		func(b *[]byte) *[]byte {
			*b = (*b)[:0]
			return b
		},
	)

	buf := sp.Get()
	*buf = append(*buf, "dirty"...)
	sp.Put(buf)

	// Whatever Get hands back next, it must be in the post-reset state.
	next := sp.Get()
	assert.Len(t, *next, 0)
}

func TestArenaPool_HandsOutRewoundArenas(t *testing.T) {
	ap := NewArenaPool(128)

	a := ap.Get()
	require.NotNil(t, a.Alloc(96))
	assert.Less(t, a.Available(), 128)
	ap.Put(a)

	b := ap.Get()
	assert.Equal(t, 128, b.Available())
	require.NotNil(t, b.Alloc(128))
}
