// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package boxcar

import "testing"

func TestEntryEmptyByDefault(t *testing.T) {
	var e entry[int]
	if _, ok := e.load(); ok {
		t.Fatal("zero-value entry should not be active")
	}
}

func TestEntryPublishThenLoad(t *testing.T) {
	var e entry[string]
	e.publish("hello")
	got, ok := e.load()
	if !ok || got != "hello" {
		t.Fatalf("load() = (%q, %v), want (\"hello\", true)", got, ok)
	}
}

type dropCounter struct {
	n *int
}

func (d dropCounter) Drop() {
	*d.n++
}

func TestEntryDropIfActive(t *testing.T) {
	var n int
	var e entry[dropCounter]

	// Dropping an empty entry is a no-op.
	e.dropIfActive()
	if n != 0 {
		t.Fatalf("dropIfActive on an empty entry dropped %d times", n)
	}

	e.publish(dropCounter{n: &n})
	e.dropIfActive()
	if n != 1 {
		t.Fatalf("dropIfActive dropped %d times, want 1", n)
	}

	// A second call must not drop again.
	e.dropIfActive()
	if n != 1 {
		t.Fatalf("dropIfActive dropped again, count is now %d", n)
	}
}
