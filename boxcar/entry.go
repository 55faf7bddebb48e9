// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package boxcar

import "sync/atomic"

// Dropper is implemented by values that need deterministic cleanup when the
// Vector holding them is destroyed. Destroy calls Drop exactly once for
// every successfully published value that implements it; values that don't
// implement Dropper are simply left for the garbage collector.
type Dropper interface {
	Drop()
}

// entry is a single storage cell: room for one value plus a one-bit
// publication flag. It starts out empty (flag clear, value zero) and
// transitions to active exactly once, when publish is called. There is no
// path back to empty outside of dropIfActive, which is only ever used
// during Vector.Destroy with no concurrent access.
type entry[T any] struct {
	value  T
	active atomic.Bool
}

// publish writes value into the entry and then marks it active. The Store
// is a release: any goroutine that later observes active==true via load
// also observes this write to value (and everything the publisher did
// before calling publish).
func (e *entry[T]) publish(value T) {
	e.value = value
	e.active.Store(true)
}

// load acquires the active flag and, if set, returns the published value.
func (e *entry[T]) load() (value T, ok bool) {
	if e.active.Load() {
		return e.value, true
	}
	var zero T
	return zero, false
}

// dropIfActive drops the contained value exactly once if the entry is
// active. It reads the flag with a single atomic load and needs no further
// synchronization: it is only ever called by Vector.Destroy, which
// requires unique ownership of the whole Vector.
func (e *entry[T]) dropIfActive() {
	if !e.active.Load() {
		return
	}
	if d, ok := any(e.value).(Dropper); ok {
		d.Drop()
	}
	var zero T
	e.value = zero
	e.active.Store(false)
}
