package obstack

import (
	"sync"
	"weak"
)

// Pool hands out obstacks for scoped workloads, one arena per concurrent
// user, as an alternative to sharing a single locked arena. Released
// obstacks are kept through weak pointers, so the GC may reclaim idle ones
// at any time and the pool's size adapts to memory pressure without
// explicit tuning.
//
// The key passed to Acquire identifies a workload class; the pool records
// the peak usage of the last arenas released under each key and sizes new
// arenas for that key accordingly.
type Pool struct {
	pool  []weak.Pointer[PoolItem]
	sizes map[uint64]*poolItemSize
	mu    sync.Mutex
}

// poolItemSize tracks peak usage over a rolling window of releases.
type poolItemSize struct {
	count      int
	totalBytes int
}

const poolSizeWindow = 50

// PoolItem is an obstack checked out of a Pool.
type PoolItem struct {
	Arena Arena
	Key   uint64
}

// NewPool creates an empty Pool.
func NewPool() *Pool {
	return &Pool{
		sizes: make(map[uint64]*poolItemSize),
	}
}

// Acquire returns an obstack from the pool, or a new one sized from the
// recorded peak usage of the given workload key when none is available.
func (p *Pool) Acquire(key uint64) *PoolItem {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.pool) > 0 {
		lastIdx := len(p.pool) - 1
		wp := p.pool[lastIdx]
		p.pool = p.pool[:lastIdx]

		v := wp.Value()
		if v != nil {
			v.Key = key
			return v
		}
		// Weak pointer already collected; try the next one.
	}

	return &PoolItem{
		Arena: MustNew(WithChunkSize(p.sizeForLocked(key))),
		Key:   key,
	}
}

// Release resets the item's obstack and returns it to the pool, recording
// its peak usage under the key it was acquired with.
func (p *Pool) Release(item *PoolItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.releaseLocked(item)
}

// ReleaseMany releases a batch of items under one lock acquisition.
func (p *Pool) ReleaseMany(items []*PoolItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range items {
		p.releaseLocked(item)
	}
}

func (p *Pool) releaseLocked(item *PoolItem) {
	peak := item.Arena.Peak()
	item.Arena.Reset()

	if size, ok := p.sizes[item.Key]; ok {
		if size.count == poolSizeWindow {
			size.count = 1
			size.totalBytes = size.totalBytes / poolSizeWindow
		}
		size.count++
		size.totalBytes += peak
	} else {
		p.sizes[item.Key] = &poolItemSize{
			count:      1,
			totalBytes: peak,
		}
	}

	item.Key = 0

	p.pool = append(p.pool, weak.Make(item))
}

// sizeForLocked returns the chunk size for a new obstack serving the given
// workload key. Defaults to 1MB when the key has no history.
func (p *Pool) sizeForLocked(key uint64) int {
	if size, ok := p.sizes[key]; ok && size.totalBytes > 0 {
		return size.totalBytes / size.count
	}
	return 1024 * 1024
}
