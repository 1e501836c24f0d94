// SPDX-License-Identifier: Apache-2.0

package obstack

import (
	"unsafe"
)

const growThreshold = 256

// AllocateSlice returns a []T of the given length and capacity whose
// backing array lives in the arena. If a is nil or exhausted, the slice is
// heap-allocated with make instead.
func AllocateSlice[T any](a Arena, len, cap int) []T {
	if a != nil {
		var x T
		bufSize := uintptr(cap) * unsafe.Sizeof(x)
		if ptr := (*T)(a.Alloc(bufSize, unsafe.Alignof(x))); ptr != nil {
			return unsafe.Slice(ptr, cap)[:len]
		}
	}
	return make([]T, len, cap)
}

// SliceAppend appends data to s, drawing any backing-array growth from the
// arena. A discarded backing array is not reclaimed individually; it stays
// allocated until the arena is rewound past it or reset.
func SliceAppend[T any](a Arena, s []T, data ...T) []T {
	if a == nil {
		return append(s, data...)
	}
	s = growSlice(a, s, len(data))
	return append(s, data...)
}

// growSlice ensures s has capacity for dataLen more elements, doubling
// small capacities and growing large ones by a quarter.
func growSlice[T any](a Arena, s []T, dataLen int) []T {
	newLen := len(s) + dataLen
	newCap := cap(s)

	if newCap > 0 {
		for newLen > newCap {
			if newCap < growThreshold {
				newCap *= 2
			} else {
				newCap += newCap / 4
			}
		}
	} else {
		newCap = dataLen
	}
	if newCap == cap(s) {
		return s
	}
	s2 := AllocateSlice[T](a, len(s), newCap)
	copy(s2, s)
	return s2
}
