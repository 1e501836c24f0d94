// SPDX-License-Identifier: Apache-2.0

package obstack

// Builder assembles one object at a time from pieces whose final size is
// not known up front, with the object's bytes living in the arena. Write
// bytes into it, then call Finish to seal the object in place and start the
// next one, or Discard to rewind the arena to where the object began.
//
// A Builder assumes it is the only writer to the arena between the first
// write of an object and its Finish or Discard; interleaved allocations are
// not reclaimed by Discard and may end up between the object's growth
// steps.
//
// Builder implements io.Writer, io.StringWriter and io.ByteWriter. If the
// arena is nil, bytes accumulate on the Go heap instead.
type Builder struct {
	arena Arena
	buf   []byte
	base  Mark
	open  bool
}

// NewBuilder returns a Builder allocating from a.
func NewBuilder(a Arena) *Builder {
	return &Builder{arena: a}
}

// begin records the cursor position at the start of a new object so
// Discard can rewind to it.
func (b *Builder) begin() {
	if !b.open {
		if b.arena != nil {
			b.base = b.arena.MarkPos()
		}
		b.open = true
	}
}

// Write appends p to the object under construction.
func (b *Builder) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	b.begin()
	b.buf = SliceAppend(b.arena, b.buf, p...)
	return len(p), nil
}

// WriteString appends s to the object under construction.
func (b *Builder) WriteString(s string) (n int, err error) {
	if len(s) == 0 {
		return 0, nil
	}
	b.begin()
	b.buf = SliceAppend(b.arena, b.buf, []byte(s)...)
	return len(s), nil
}

// WriteByte appends a single byte to the object under construction.
func (b *Builder) WriteByte(c byte) error {
	b.begin()
	b.buf = SliceAppend(b.arena, b.buf, c)
	return nil
}

// Grow reserves capacity for at least n more bytes, so that the following
// writes up to that size need no further arena allocation.
func (b *Builder) Grow(n int) {
	if n <= 0 {
		return
	}
	b.begin()
	b.buf = growSlice(b.arena, b.buf, n)
}

// Len returns the size of the object under construction.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Bytes returns the object under construction. The slice is valid only
// until the next write; use Finish for a stable result.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// Finish seals the object and returns it. The returned slice lives in the
// arena (capacity clipped to its length) and remains valid until the arena
// is rewound past the object's start. The Builder is ready for the next
// object.
func (b *Builder) Finish() []byte {
	obj := b.buf[:len(b.buf):len(b.buf)]
	b.buf = nil
	b.open = false
	return obj
}

// Discard abandons the object under construction and rewinds the arena to
// the position recorded at the object's first write, reclaiming its bytes
// and any intermediate growth copies.
func (b *Builder) Discard() error {
	if b.open && b.arena != nil {
		if err := b.arena.Rewind(b.base); err != nil {
			return err
		}
	}
	b.buf = nil
	b.open = false
	return nil
}
