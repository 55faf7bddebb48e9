// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package boxcar implements a concurrent, append-only vector: values can be
// pushed from many goroutines at once and read from many goroutines at
// once, without ever taking a global lock and without ever relocating a
// value once it has been published.
//
// A Vector grows by adding buckets, never by copying existing ones, so the
// address of a published value is stable for the lifetime of the Vector.
// The only lock in the whole structure is a per-bucket mutex that guards
// the (rare) first allocation of that bucket; everything else is atomic
// operations: a fetch-add to reserve an index, loads and stores otherwise.
package boxcar
