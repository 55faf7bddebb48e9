// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// The boxcarbench tool drives concurrent load against a boxcar.Vector to
// measure Push, Get, and iteration throughput.
package main

import (
	"flag"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aristanetworks/glog"

	"github.com/aristanetworks/boxcar/boxcar"
)

var (
	writers    = flag.Int("writers", runtime.GOMAXPROCS(0), "number of concurrent pushing goroutines")
	readers    = flag.Int("readers", runtime.GOMAXPROCS(0), "number of concurrent reading goroutines")
	perWriter  = flag.Int("per-writer", 1000000, "number of values each writer pushes")
	readerTime = flag.Duration("reader-time", 2*time.Second, "minimum time readers sample Get; they also keep sampling until every writer has finished")
)

func main() {
	flag.Parse()

	v := boxcar.New[uint64]()

	var wg sync.WaitGroup
	wg.Add(*writers)
	start := time.Now()
	for w := 0; w < *writers; w++ {
		w := w
		go func() {
			defer wg.Done()
			for i := 0; i < *perWriter; i++ {
				v.Push(uint64(w)<<32 | uint64(i))
			}
		}()
	}

	stopReaders := make(chan struct{})
	var readOps atomic.Uint64
	var readWG sync.WaitGroup
	readWG.Add(*readers)
	for r := 0; r < *readers; r++ {
		go func() {
			defer readWG.Done()
			for {
				select {
				case <-stopReaders:
					return
				default:
				}
				n := v.Count()
				if n > 0 {
					v.Get(n - 1)
					readOps.Add(1)
				}
			}
		}()
	}

	pushElapsed := make(chan time.Duration, 1)
	go func() {
		wg.Wait()
		pushElapsed <- time.Since(start)
	}()

	time.Sleep(*readerTime)
	elapsed := <-pushElapsed
	close(stopReaders)
	readWG.Wait()

	total := *writers * *perWriter
	glog.Infof("pushed %d values across %d writers in %s (%.0f pushes/sec)",
		total, *writers, elapsed, float64(total)/elapsed.Seconds())

	iterStart := time.Now()
	n := 0
	it := v.Iter()
	for {
		if _, _, ok := it.Next(); !ok {
			break
		}
		n++
	}
	glog.Infof("iterated %d values in %s", n, time.Since(iterStart))
	glog.Infof("readers completed %d Get calls", readOps.Load())

	allocated, total2 := v.BucketStats()
	glog.Infof("bucket table: %d/%d allocated", allocated, total2)

	v.Destroy()
}
