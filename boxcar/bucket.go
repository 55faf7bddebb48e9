// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package boxcar

import (
	"sync"
	"sync/atomic"
)

// bucket owns either nothing or a contiguous array of entries. Once the
// array is installed it is never replaced or freed until the owning Vector
// is destroyed, which is what gives published values a stable address.
//
// ensureAllocated is the only place a boxcar.Vector ever takes a lock, and
// it's strictly a cold-path lock: the common case (bucket already
// allocated) is a single atomic load with no lock involved at all.
type bucket[T any] struct {
	entries atomic.Pointer[[]entry[T]]
	mu      sync.Mutex
}

// ensureAllocated returns the bucket's entry array, allocating a zeroed
// array of the given capacity on first call. Multiple goroutines may race
// to call this concurrently; exactly one allocation survives.
func (b *bucket[T]) ensureAllocated(capacity int) []entry[T] {
	if p := b.entries.Load(); p != nil {
		return *p
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if p := b.entries.Load(); p != nil {
		return *p
	}
	arr := make([]entry[T], capacity)
	b.entries.Store(&arr)
	return arr
}

// get returns the entry at offset, or nil if the bucket hasn't been
// allocated yet.
func (b *bucket[T]) get(offset int) *entry[T] {
	p := b.entries.Load()
	if p == nil {
		return nil
	}
	return &(*p)[offset]
}

// allocated reports whether the bucket's entry array has been installed.
func (b *bucket[T]) allocated() bool {
	return b.entries.Load() != nil
}

// snapshot returns the bucket's entry array (or nil), for use by an
// iterator that wants to hold onto it across several steps instead of
// reloading the atomic pointer every time.
func (b *bucket[T]) snapshot() []entry[T] {
	if p := b.entries.Load(); p != nil {
		return *p
	}
	return nil
}

// deallocate drops every active entry exactly once and frees the array.
// Called exactly once per bucket, from Vector.Destroy, under the
// requirement that the whole Vector is uniquely owned at that point: no
// atomics beyond the final non-atomic-equivalent load are required.
func (b *bucket[T]) deallocate() {
	p := b.entries.Load()
	if p == nil {
		return
	}
	for i := range *p {
		(*p)[i].dropIfActive()
	}
	b.entries.Store(nil)
}
