// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package boxcar

// Iterator walks a Vector's (index, value) pairs in index order, forward
// or backward. It snapshots the Vector's reserved length (Count) at
// construction time and visits at most that many indices.
//
// If a lower index's push is still in flight (reserved but not yet
// published) when iteration reaches it, the iterator skips it rather than
// stopping: an index published after a later one hasn't been, does not
// terminate the walk. An Iterator may therefore yield fewer items than its
// snapshot promised; that is documented, expected behavior, not a bug.
//
// An Iterator carries the current bucket's entry slice alongside the
// bucket's start index and capacity so that stepping within a bucket never
// has to redo the (bucket, offset) decomposition; that only happens when
// crossing a bucket boundary.
type Iterator[T any] struct {
	v     *Vector[T]
	limit uint64 // snapshot of head; forward iteration stops once index reaches this

	index    uint64 // next index to consider, in either direction
	reverse  bool
	done     bool
	bucketID int
	start    uint64 // bucketStart(bucketID)
	capacity int    // bucketCap(bucketID)
	entries  []entry[T]
}

// Iter returns a forward iterator over v.
func (v *Vector[T]) Iter() *Iterator[T] {
	it := &Iterator[T]{v: v, limit: v.head.Load()}
	it.loadBucket(0)
	return it
}

// ReverseIter returns an iterator that walks v from its highest reserved
// index down to 0, following the same skip-don't-stop rule as Iter.
func (v *Vector[T]) ReverseIter() *Iterator[T] {
	limit := v.head.Load()
	it := &Iterator[T]{v: v, limit: limit, reverse: true}
	if limit == 0 {
		it.done = true
		return it
	}
	it.index = limit - 1
	b, _ := decompose(it.index)
	it.loadBucket(b)
	return it
}

// loadBucket points the iterator at bucket b, loading its entry slice (or
// nil, if unallocated) a single time for the whole bucket.
func (it *Iterator[T]) loadBucket(b int) {
	it.bucketID = b
	it.start = bucketStart(b)
	it.capacity = int(bucketCap(b))
	if b >= 0 && b < numBuckets {
		it.entries = it.v.buckets[b].snapshot()
	} else {
		it.entries = nil
	}
}

// Next returns the next (index, value) pair in iteration order, or
// ok=false once the snapshot has been exhausted.
func (it *Iterator[T]) Next() (index uint64, value T, ok bool) {
	if it.reverse {
		return it.nextReverse()
	}
	return it.nextForward()
}

func (it *Iterator[T]) nextForward() (uint64, T, bool) {
	var zero T
	for it.index < it.limit {
		offset := int(it.index - it.start)
		if offset >= it.capacity {
			it.loadBucket(it.bucketID + 1)
			continue
		}
		idx := it.index
		it.index++
		if it.entries != nil {
			if val, published := it.entries[offset].load(); published {
				return idx, val, true
			}
		}
	}
	return 0, zero, false
}

func (it *Iterator[T]) nextReverse() (uint64, T, bool) {
	var zero T
	for !it.done {
		offset := int(it.index - it.start)
		if offset < 0 {
			it.loadBucket(it.bucketID - 1)
			continue
		}
		idx := it.index
		var val T
		var published bool
		if it.entries != nil {
			val, published = it.entries[offset].load()
		}
		if idx == 0 {
			it.done = true
		} else {
			it.index--
		}
		if published {
			return idx, val, true
		}
	}
	return 0, zero, false
}
