// SPDX-License-Identifier: Apache-2.0

package obstack

import (
	"errors"
	"fmt"
	"unsafe"
)

// DefaultChunkSize is the chunk size used when no option overrides it.
const DefaultChunkSize = 32 * 1024

// Chunked is the standard obstack. It bump-allocates from a chain of
// chunks obtained from a Memory provider; when the current chunk is
// exhausted a new one is chained on, so addresses handed out earlier never
// move. The cursor is a (chunk, offset) pair and marks are snapshots of it.
// Not safe for concurrent use; see NewConcurrent.
type Chunked struct {
	mem           Memory
	chunks        []chunk
	current       int // index of the chunk the cursor is in
	chunkSize     int
	initialChunks int
	fixed         bool // growth disabled
	peak          uintptr
}

type chunk struct {
	buf []byte
	off uintptr
}

// alloc carves size bytes aligned to alignment out of the chunk. The
// returned region is zeroed, which also scrubs stale data left behind by a
// rewind. Reports false when the request does not fit.
func (c *chunk) alloc(size, alignment uintptr) (unsafe.Pointer, bool) {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(c.buf)))
	aligned := (base + c.off + alignment - 1) &^ (alignment - 1)
	pad := aligned - (base + c.off)
	if c.off+pad+size > uintptr(len(c.buf)) {
		return nil, false
	}
	c.off += pad
	ptr := unsafe.Add(unsafe.Pointer(unsafe.SliceData(c.buf)), c.off)
	c.off += size

	// clear compiles to runtime.memclrNoHeapPointers here.
	clear(unsafe.Slice((*byte)(ptr), size))

	return ptr, true
}

// Option configures a Chunked obstack at construction time.
type Option func(*Chunked)

// WithChunkSize sets the size of each chunk the obstack requests from its
// Memory provider. Values below one are ignored.
func WithChunkSize(size int) Option {
	return func(a *Chunked) {
		if size > 0 {
			a.chunkSize = size
		}
	}
}

// WithCapacity makes the obstack fixed-size: a single chunk of size bytes
// with growth disabled. Alloc returns nil and AllocBytes returns
// ErrOutOfCapacity once the chunk is exhausted.
func WithCapacity(size int) Option {
	return func(a *Chunked) {
		if size > 0 {
			a.chunkSize = size
		}
		a.initialChunks = 1
		a.fixed = true
	}
}

// WithMemory sets the backing-memory provider. The default is GoMemory.
func WithMemory(mem Memory) Option {
	return func(a *Chunked) {
		if mem != nil {
			a.mem = mem
		}
	}
}

// WithInitialChunks pre-allocates n chunks at construction.
func WithInitialChunks(n int) Option {
	return func(a *Chunked) {
		if n > 0 {
			a.initialChunks = n
		}
	}
}

// New creates a Chunked obstack, eagerly obtaining its initial chunk(s)
// from the configured Memory provider. If the provider fails, New frees
// anything it already obtained and returns an error satisfying
// errors.Is(err, ErrOutOfMemory); no partial arena is returned.
func New(opts ...Option) (*Chunked, error) {
	a := &Chunked{
		mem:           GoMemory{},
		chunkSize:     DefaultChunkSize,
		initialChunks: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	for i := 0; i < a.initialChunks; i++ {
		buf, err := a.mem.Allocate(a.chunkSize)
		if err != nil {
			for _, c := range a.chunks {
				a.mem.Free(c.buf)
			}
			if errors.Is(err, ErrOutOfMemory) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %v", ErrOutOfMemory, err)
		}
		a.chunks = append(a.chunks, chunk{buf: buf})
	}
	return a, nil
}

// MustNew is New for providers that cannot fail, such as the default
// GoMemory. It panics on error.
func MustNew(opts ...Option) *Chunked {
	a, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return a
}

// Alloc satisfies the Arena interface.
func (a *Chunked) Alloc(size, alignment uintptr) unsafe.Pointer {
	a.panicIfReleased()
	if alignment == 0 {
		alignment = 1
	}
	for {
		if ptr, ok := a.chunks[a.current].alloc(size, alignment); ok {
			if l := a.len(); l > a.peak {
				a.peak = l
			}
			return ptr
		}
		// Current chunk exhausted. Chunks past the cursor were retained by
		// an earlier rewind and are empty; reuse them before growing.
		if a.current+1 < len(a.chunks) {
			a.current++
			continue
		}
		if a.fixed {
			return nil
		}
		// Worst-case alignment padding is alignment-1 bytes.
		if !a.grow(int(size + alignment)) {
			return nil
		}
		a.current++
	}
}

// AllocBytes returns a zeroed n-byte slice inside the obstack. On a
// fixed-capacity obstack it returns ErrOutOfCapacity when the request does
// not fit; a growable obstack only fails if its Memory provider does.
func (a *Chunked) AllocBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative size %d", ErrOutOfCapacity, n)
	}
	ptr := a.Alloc(uintptr(n), 1)
	if ptr == nil {
		return nil, fmt.Errorf("%w: %d bytes", ErrOutOfCapacity, n)
	}
	return unsafe.Slice((*byte)(ptr), n), nil
}

// MarkPos satisfies the Arena interface. It is equivalent to a zero-size
// Alloc with alignment one, minus the pointer: the cursor does not move.
func (a *Chunked) MarkPos() Mark {
	a.panicIfReleased()
	return Mark{chunk: a.current, offset: a.chunks[a.current].off}
}

// Rewind satisfies the Arena interface. On success the cursor equals m
// exactly, so MarkPos() == m afterwards. Chunks past the mark keep their
// memory and are reused by later allocations.
func (a *Chunked) Rewind(m Mark) error {
	a.panicIfReleased()
	if m.chunk < 0 || m.chunk > a.current {
		return fmt.Errorf("%w: chunk %d ahead of cursor", ErrInvalidMark, m.chunk)
	}
	if m.offset > a.chunks[m.chunk].off {
		return fmt.Errorf("%w: offset %d ahead of cursor", ErrInvalidMark, m.offset)
	}
	for i := m.chunk + 1; i <= a.current; i++ {
		a.chunks[i].off = 0
	}
	a.current = m.chunk
	a.chunks[m.chunk].off = m.offset
	return nil
}

// Reset satisfies the Arena interface.
func (a *Chunked) Reset() {
	a.panicIfReleased()
	for i := range a.chunks {
		a.chunks[i].off = 0
	}
	a.current = 0
}

// Release satisfies the Arena interface. Every chunk is returned to the
// Memory provider in one pass; any further use of the obstack panics.
func (a *Chunked) Release() {
	for _, c := range a.chunks {
		a.mem.Free(c.buf)
	}
	a.chunks = nil
	a.current = 0
}

// NumChunks returns the number of chunks the obstack currently holds.
func (a *Chunked) NumChunks() int {
	return len(a.chunks)
}

func (a *Chunked) len() uintptr {
	var total uintptr
	for i := 0; i <= a.current; i++ {
		total += a.chunks[i].off
	}
	return total
}

// Len returns the number of bytes allocated up to the cursor, alignment
// padding and chunk-tail waste included.
func (a *Chunked) Len() int {
	if a.chunks == nil {
		return 0
	}
	return int(a.len())
}

// Cap returns the total capacity of all chunks.
func (a *Chunked) Cap() int {
	var total int
	for _, c := range a.chunks {
		total += len(c.buf)
	}
	return total
}

// Peak returns the high-water mark of Len. It is not lowered by Reset or
// Rewind.
func (a *Chunked) Peak() int {
	return int(a.peak)
}

// grow chains a new chunk of at least min bytes. Reports false when the
// Memory provider fails.
func (a *Chunked) grow(min int) bool {
	size := a.chunkSize
	if min > size {
		size = min
	}
	buf, err := a.mem.Allocate(size)
	if err != nil {
		return false
	}
	a.chunks = append(a.chunks, chunk{buf: buf})
	return true
}

func (a *Chunked) panicIfReleased() {
	if a.chunks == nil {
		panic("obstack: use after Release")
	}
}
