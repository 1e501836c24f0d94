// SPDX-License-Identifier: Apache-2.0

package obstack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllocateSlice(t *testing.T) {
	ob := MustNew()

	s := AllocateSlice[int64](ob, 3, 8)
	require.Len(t, s, 3)
	require.Equal(t, 8, cap(s))
	for _, v := range s {
		require.Zero(t, v)
	}

	s[0], s[1], s[2] = 1, 2, 3
	require.Equal(t, []int64{1, 2, 3}, s)
}

func TestAllocateSliceNilArena(t *testing.T) {
	s := AllocateSlice[int](nil, 2, 4)
	require.Len(t, s, 2)
	require.Equal(t, 4, cap(s))
}

func TestAllocateSliceExhaustedFallsBack(t *testing.T) {
	ob := MustNew(WithCapacity(16))
	// Does not fit in the fixed arena; must come from the heap instead of
	// returning nil.
	s := AllocateSlice[byte](ob, 64, 64)
	require.Len(t, s, 64)
}

func TestSliceAppend(t *testing.T) {
	ob := MustNew()

	s := AllocateSlice[int](ob, 3, 3)
	s[0], s[1], s[2] = 1, 2, 3

	s = SliceAppend(ob, s, 4, 5)
	require.Equal(t, []int{1, 2, 3, 4, 5}, s)

	// Appending within capacity must not move the slice.
	s = SliceAppend(ob, s[:0], 9)
	require.Equal(t, 9, s[0])
}

func TestSliceAppendFromEmpty(t *testing.T) {
	ob := MustNew()

	var s []string
	s = SliceAppend(ob, s, "a", "b", "c")
	require.Equal(t, []string{"a", "b", "c"}, s)
}

func TestSliceAppendNilArena(t *testing.T) {
	s := SliceAppend[int](nil, nil, 1, 2)
	require.Equal(t, []int{1, 2}, s)
}

func TestSliceAppendGrowth(t *testing.T) {
	ob := MustNew()

	var s []int
	for i := 0; i < 1000; i++ {
		s = SliceAppend(ob, s, i)
	}
	require.Len(t, s, 1000)
	for i, v := range s {
		require.Equal(t, i, v)
	}
}

func TestSliceAppendDiscardedByRewind(t *testing.T) {
	ob := MustNew()

	m := ob.MarkPos()
	s := SliceAppend[byte](ob, nil, 1, 2, 3)
	require.Len(t, s, 3)

	require.NoError(t, ob.Rewind(m))
	require.Equal(t, 0, ob.Len())
}
