// SPDX-License-Identifier: Apache-2.0

// Package obstack implements a region allocator with mark-and-rewind
// semantics, in the style of the classic obstack: objects are bump-allocated
// from chained chunks, a Mark captures the allocation cursor in O(1), and
// Rewind returns the cursor to a previously captured Mark, reclaiming every
// allocation made since. There is no per-object free.
package obstack

import (
	"unsafe"
)

// Arena is the allocation surface shared by all obstack variants.
type Arena interface {
	// Alloc returns a pointer to a zeroed region of at least size bytes,
	// aligned to alignment. A size of zero is valid: it returns the aligned
	// cursor address without advancing the cursor. Alloc returns nil when
	// the arena cannot satisfy the request (fixed-capacity arenas only;
	// growable arenas always succeed).
	Alloc(size, alignment uintptr) unsafe.Pointer

	// MarkPos returns a snapshot of the current allocation cursor. Marks
	// are plain values: capturing one allocates nothing.
	MarkPos() Mark

	// Rewind moves the cursor back to a previously captured mark. Every
	// allocation made after the mark was captured is invalidated; its
	// memory will be reused by future allocations. Rewind returns
	// ErrInvalidMark if m does not denote a position at or behind the
	// current cursor.
	Rewind(m Mark) error

	// Reset rewinds the cursor to the start of the arena without releasing
	// the underlying memory. All previously returned pointers become
	// invalid. Equivalent to rewinding to the zero Mark.
	Reset()

	// Release returns the arena's memory to its backing provider. The
	// arena must not be used afterwards.
	Release()

	// Len returns the number of bytes currently allocated, alignment
	// padding included.
	Len() int

	// Cap returns the total capacity of the arena's chunks.
	Cap() int

	// Peak returns the high-water mark of Len over the arena's lifetime.
	// Unlike Len it is not lowered by Reset or Rewind, which makes it the
	// right input for sizing a replacement arena.
	Peak() int
}

// Mark is a saved cursor position. It identifies a chunk and a byte offset
// within it rather than a raw address, so marks stay valid when the arena
// grows by chaining new chunks. The zero Mark denotes the start of the
// arena. Marks are comparable; two marks captured at the same cursor
// position are equal.
type Mark struct {
	chunk  int
	offset uintptr
}

// Allocate returns a *T whose memory comes from the arena. If a is nil, or
// the arena cannot satisfy the request, the value is heap-allocated instead
// so callers never observe a nil result.
func Allocate[T any](a Arena) *T {
	if a != nil {
		var x T
		if ptr := a.Alloc(unsafe.Sizeof(x), unsafe.Alignof(x)); ptr != nil {
			return (*T)(ptr)
		}
	}
	return new(T)
}
