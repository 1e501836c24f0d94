// SPDX-License-Identifier: Apache-2.0

package obstack

import (
	"sync"
	"unsafe"
)

type concurrentArena struct {
	mtx sync.Mutex
	a   Arena
}

// NewConcurrent returns an arena that serializes every operation, including
// MarkPos and Rewind, behind one mutex, making it safe for use from
// multiple goroutines. Note that a mark captured by one goroutine is
// invalidated by any other goroutine's rewind past it; callers that need
// scoped reclamation per goroutine should use a Pool instead.
func NewConcurrent(a Arena) Arena {
	return &concurrentArena{a: a}
}

// Alloc satisfies the Arena interface.
func (a *concurrentArena) Alloc(size, alignment uintptr) unsafe.Pointer {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.a == nil {
		return nil
	}
	return a.a.Alloc(size, alignment)
}

// MarkPos satisfies the Arena interface.
func (a *concurrentArena) MarkPos() Mark {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.a == nil {
		return Mark{}
	}
	return a.a.MarkPos()
}

// Rewind satisfies the Arena interface.
func (a *concurrentArena) Rewind(m Mark) error {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.a == nil {
		return ErrInvalidMark
	}
	return a.a.Rewind(m)
}

// Reset satisfies the Arena interface.
func (a *concurrentArena) Reset() {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.a == nil {
		return
	}
	a.a.Reset()
}

// Release satisfies the Arena interface.
func (a *concurrentArena) Release() {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.a == nil {
		return
	}
	a.a.Release()
}

// Len returns the total number of bytes currently allocated in the arena.
func (a *concurrentArena) Len() int {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.a == nil {
		return 0
	}
	return a.a.Len()
}

// Cap returns the total capacity of the arena's chunks.
func (a *concurrentArena) Cap() int {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.a == nil {
		return 0
	}
	return a.a.Cap()
}

// Peak returns the high-water mark of Len.
func (a *concurrentArena) Peak() int {
	a.mtx.Lock()
	defer a.mtx.Unlock()
	if a.a == nil {
		return 0
	}
	return a.a.Peak()
}
