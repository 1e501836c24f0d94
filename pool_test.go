// SPDX-License-Identifier: Apache-2.0

package obstack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPoolAcquireRelease(t *testing.T) {
	p := NewPool()

	item := p.Acquire(1)
	require.NotNil(t, item)
	require.Equal(t, uint64(1), item.Key)

	require.NotNil(t, item.Arena.Alloc(100, 1))
	require.Equal(t, 100, item.Arena.Len())

	p.Release(item)
	require.Equal(t, 0, item.Arena.Len())
	require.Equal(t, uint64(0), item.Key)

	// The item is still strongly referenced here, so the weak pointer is
	// live and Acquire hands the same obstack back.
	reused := p.Acquire(2)
	require.Same(t, item, reused)
	require.Equal(t, uint64(2), reused.Key)
}

func TestPoolRecordsPeakUsage(t *testing.T) {
	p := NewPool()

	item := p.Acquire(7)
	item.Arena.Alloc(4096, 1)
	require.Equal(t, 4096, item.Arena.Peak())
	p.Release(item)

	size, ok := p.sizes[uint64(7)]
	require.True(t, ok)
	require.Equal(t, 1, size.count)
	require.Equal(t, 4096, size.totalBytes)

	// A new arena for the same key is sized from the recorded history.
	require.Equal(t, 4096, p.sizeForLocked(7))
}

func TestPoolSizeWindowRolls(t *testing.T) {
	p := NewPool()

	for i := 0; i < poolSizeWindow+10; i++ {
		item := p.Acquire(3)
		item.Arena.Alloc(1000, 1)
		p.Release(item)
	}

	size := p.sizes[uint64(3)]
	require.LessOrEqual(t, size.count, poolSizeWindow)
	require.Equal(t, 1000, size.totalBytes/size.count)
}

func TestPoolReleaseMany(t *testing.T) {
	p := NewPool()

	items := []*PoolItem{p.Acquire(1), p.Acquire(2), p.Acquire(3)}
	for _, item := range items {
		item.Arena.Alloc(64, 1)
	}
	p.ReleaseMany(items)

	for _, item := range items {
		require.Equal(t, 0, item.Arena.Len())
		require.Equal(t, uint64(0), item.Key)
	}
	require.Len(t, p.sizes, 3)
}

func TestPoolDefaultSizing(t *testing.T) {
	p := NewPool()
	require.Equal(t, 1024*1024, p.sizeForLocked(99))
}
