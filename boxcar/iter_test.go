// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package boxcar

import (
	"testing"

	"github.com/aristanetworks/boxcar/test"
)

func collectForward[T any](it *Iterator[T]) (indices []uint64, values []T) {
	for {
		i, v, ok := it.Next()
		if !ok {
			return indices, values
		}
		indices = append(indices, i)
		values = append(values, v)
	}
}

// Testable property 5: iteration coverage on a quiescent vector.
func TestIterForwardCoverage(t *testing.T) {
	v := New[int]()
	const n = 100
	for i := 0; i < n; i++ {
		v.Push(i * 10)
	}

	indices, values := collectForward(v.Iter())
	if len(indices) != n {
		t.Fatalf("got %d items, want %d", len(indices), n)
	}
	for i := 0; i < n; i++ {
		if indices[i] != uint64(i) {
			t.Fatalf("item %d has index %d, want %d", i, indices[i], i)
		}
		if values[i] != i*10 {
			t.Fatalf("item %d has value %d, want %d", i, values[i], i*10)
		}
	}
}

func TestIterReverseCoverage(t *testing.T) {
	v := New[int]()
	const n = 100
	for i := 0; i < n; i++ {
		v.Push(i)
	}

	it := v.ReverseIter()
	for want := n - 1; want >= 0; want-- {
		idx, val, ok := it.Next()
		if !ok {
			t.Fatalf("reverse iterator stopped early, expected index %d", want)
		}
		if int(idx) != want || val != want {
			t.Fatalf("got (index=%d, value=%d), want (%d, %d)", idx, val, want, want)
		}
	}
	if _, _, ok := it.Next(); ok {
		t.Fatal("reverse iterator should be exhausted")
	}
}

func TestIterEmptyVector(t *testing.T) {
	v := New[int]()
	if _, _, ok := v.Iter().Next(); ok {
		t.Fatal("forward iterator over an empty vector should yield nothing")
	}
	if _, _, ok := v.ReverseIter().Next(); ok {
		t.Fatal("reverse iterator over an empty vector should yield nothing")
	}
}

func TestIterSnapshotsCountAtConstruction(t *testing.T) {
	v := New[int]()
	v.Push(1)
	v.Push(2)
	it := v.Iter()
	v.Push(3) // pushed after the iterator was constructed

	indices, _ := collectForward(it)
	if got := test.Diff(indices, []uint64{0, 1}); got != "" {
		t.Fatalf("iterator should only see the snapshot at construction time: %s", got)
	}
}

// S6 from the spec: iterator skip-don't-stop. An index is reserved but its
// publish is parked; a later index is published fully; the iterator must
// yield the later index without stopping at (or yielding) the parked one.
func TestIterSkipsUnpublishedIndex(t *testing.T) {
	v := New[int]()

	v.Push(100) // index 0, published

	// Reserve index 1 without publishing it yet (parked publisher).
	v.head.Add(1)

	v.Push(300) // index 2, published

	it := v.Iter()
	indices, values := collectForward(it)

	want := []uint64{0, 2}
	if got := test.Diff(indices, want); got != "" {
		t.Fatalf("indices diff: %s (got %v)", got, indices)
	}
	if values[0] != 100 || values[1] != 300 {
		t.Fatalf("values = %v, want [100 300]", values)
	}

	// Now publish the parked index and confirm a fresh iterator sees all
	// three.
	b, off := decompose(1)
	entries := v.buckets[b].ensureAllocated(int(bucketCap(b)))
	entries[off].publish(200)

	indices2, values2 := collectForward(v.Iter())
	if got := test.Diff(indices2, []uint64{0, 1, 2}); got != "" {
		t.Fatalf("indices2 diff: %s", got)
	}
	if got := test.Diff(values2, []int{100, 200, 300}); got != "" {
		t.Fatalf("values2 diff: %s", got)
	}
}
