// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package boxcar

import (
	"fmt"
	"sync/atomic"
)

// Vector is a concurrent, append-only sequence of values of type T.
//
// The zero Vector is an empty Vector ready for use; New returns a pointer
// to one, and NewFromSlice a pre-populated one. A Vector must not be
// copied after first use.
//
// Push, Get, Count, Reserve, and iteration may all be called concurrently
// from any number of goroutines, with no operation ever blocking another
// except the first writer to touch a given bucket, which briefly holds
// that bucket's own lock while allocating it.
type Vector[T any] struct {
	head    atomic.Uint64
	buckets [numBuckets]bucket[T]
}

// New returns an empty Vector.
func New[T any]() *Vector[T] {
	return &Vector[T]{}
}

// NewFromSlice returns a Vector pre-populated with values, pushed in
// order, so values[i] ends up at index i.
func NewFromSlice[T any](values []T) *Vector[T] {
	v := New[T]()
	for _, value := range values {
		v.Push(value)
	}
	return v
}

// Push reserves the next index, publishes value there, and returns the
// index it was placed at. Every call to Push on a given Vector returns a
// distinct index, and the indices handed out form a dense prefix of the
// natural numbers starting at 0.
//
// Between reserving the index and publishing the value, the index is
// visible to Count but not yet to Get or iteration; this window is the
// basis of the skip-don't-stop rule iterators follow.
func (v *Vector[T]) Push(value T) uint64 {
	i := v.head.Add(1) - 1
	b, offset := decompose(i)
	entries := v.buckets[b].ensureAllocated(int(bucketCap(b)))
	entries[offset].publish(value)
	return i
}

// Get returns the value at index i and true, or the zero value and false
// if i hasn't been reserved yet or has been reserved but not yet
// published.
func (v *Vector[T]) Get(i uint64) (T, bool) {
	var zero T
	if i >= v.head.Load() {
		return zero, false
	}
	b, offset := decompose(i)
	bk := &v.buckets[b]
	e := bk.get(int(offset))
	if e == nil {
		return zero, false
	}
	return e.load()
}

// At returns the value at index i, panicking if i is out of range or
// hasn't been published yet. It is the convenience indexing operation
// described in the package's external interface.
func (v *Vector[T]) At(i uint64) T {
	value, ok := v.Get(i)
	if !ok {
		panic(fmt.Sprintf("boxcar: index %d out of range", i))
	}
	return value
}

// Count returns the number of reserved indices, i.e. the next index that
// Push would hand out. This may be larger than the number of values
// currently visible to Get, by the number of pushes presently in flight.
// Count observed from any goroutine is monotonically non-decreasing.
func (v *Vector[T]) Count() uint64 {
	return v.head.Load()
}

// Reserve is a best-effort optimization: it pre-allocates every bucket
// needed to hold "additional" more pushes, so that those pushes don't pay
// the cost of the first-allocation path. It never changes Count, and it is
// always safe to treat it as a no-op.
func (v *Vector[T]) Reserve(additional uint64) {
	if additional == 0 {
		return
	}
	last := v.head.Load() + additional - 1
	lastBucket, _ := decompose(last)
	for b := 0; b <= lastBucket; b++ {
		v.buckets[b].ensureAllocated(int(bucketCap(b)))
	}
}

// Destroy drops every successfully published value exactly once and frees
// every allocated bucket. It assumes unique ownership of the Vector: it is
// not safe to call Destroy concurrently with Push, Get, Reserve, or
// iteration, nor to use the Vector afterward.
func (v *Vector[T]) Destroy() {
	for i := range v.buckets {
		v.buckets[i].deallocate()
	}
}

// BucketStats reports how many of the Vector's buckets have been
// allocated so far, out of the total bucket table size. It exists to give
// metrics collectors something to report without instrumenting the hot
// path of ensureAllocated itself.
func (v *Vector[T]) BucketStats() (allocated, total int) {
	for i := range v.buckets {
		if v.buckets[i].allocated() {
			allocated++
		}
	}
	return allocated, numBuckets
}
