// SPDX-License-Identifier: Apache-2.0

package obstack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGoMemory(t *testing.T) {
	var mem GoMemory

	buf, err := mem.Allocate(128)
	require.NoError(t, err)
	require.Len(t, buf, 128)
	for _, b := range buf {
		require.Zero(t, b)
	}
	mem.Free(buf)
}

func TestLimitedMemory(t *testing.T) {
	mem := NewLimitedMemory(nil, 256)

	buf1, err := mem.Allocate(100)
	require.NoError(t, err)
	require.Equal(t, 100, mem.Used())

	buf2, err := mem.Allocate(156)
	require.NoError(t, err)
	require.Equal(t, 256, mem.Used())

	_, err = mem.Allocate(1)
	require.ErrorIs(t, err, ErrOutOfMemory)

	mem.Free(buf1)
	require.Equal(t, 156, mem.Used())

	_, err = mem.Allocate(100)
	require.NoError(t, err)

	mem.Free(buf2)
}
