// SPDX-License-Identifier: Apache-2.0

package obstack

// Memory supplies raw chunk storage to an obstack. It stands in for the
// obstack_chunk_alloc / obstack_chunk_free hooks of the original design:
// the provider is passed to New rather than fixed at build time, so the
// arena's logic is independent of any particular system allocator.
type Memory interface {
	// Allocate returns a zeroed buffer of exactly size bytes.
	Allocate(size int) ([]byte, error)

	// Free releases a buffer previously returned by Allocate. Providers
	// backed by the Go heap may treat this as a no-op.
	Free(buf []byte)
}

// GoMemory is the default provider. Buffers come from the Go heap and are
// reclaimed by the garbage collector once unreferenced; Allocate never
// fails.
type GoMemory struct{}

func (GoMemory) Allocate(size int) ([]byte, error) { return make([]byte, size), nil }

func (GoMemory) Free([]byte) {}

// LimitedMemory caps the total bytes outstanding from an underlying
// provider. Once the cap would be exceeded, Allocate fails with
// ErrOutOfMemory. Freeing buffers returns their bytes to the budget.
type LimitedMemory struct {
	mem   Memory
	limit int
	used  int
}

// NewLimitedMemory wraps mem with a total-bytes cap. If mem is nil,
// GoMemory is used.
func NewLimitedMemory(mem Memory, limit int) *LimitedMemory {
	if mem == nil {
		mem = GoMemory{}
	}
	return &LimitedMemory{mem: mem, limit: limit}
}

func (m *LimitedMemory) Allocate(size int) ([]byte, error) {
	if m.used+size > m.limit {
		return nil, ErrOutOfMemory
	}
	buf, err := m.mem.Allocate(size)
	if err != nil {
		return nil, err
	}
	m.used += size
	return buf, nil
}

func (m *LimitedMemory) Free(buf []byte) {
	m.used -= len(buf)
	m.mem.Free(buf)
}

// Used returns the bytes currently outstanding.
func (m *LimitedMemory) Used() int { return m.used }
