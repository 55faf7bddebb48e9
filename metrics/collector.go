// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Counter is the read-only slice of *boxcar.Vector[T] a Collector needs.
// It lets a Collector report on a vector of any element type without the
// metrics package itself becoming generic.
type Counter interface {
	Count() uint64
	BucketStats() (allocated, total int)
}

// Collector is a prometheus.Collector that reports a boxcar.Vector's
// length and bucket table occupancy, plus the duration of the iterations
// it times via ObserveIteration. Register it once per Vector of interest.
type Collector struct {
	vec   Counter
	label string

	length     *prometheus.Desc
	bucketsUse *prometheus.Desc
	iterations prometheus.Histogram
}

// NewCollector returns a Collector for vec. label identifies the vector in
// the exported metrics, e.g. the Kafka topic it's being fed from.
func NewCollector(vec Counter, label string) *Collector {
	return &Collector{
		vec:   vec,
		label: label,
		length: prometheus.NewDesc(
			"boxcar_reserved_length",
			"Number of indices reserved by Push so far (Vector.Count).",
			nil, prometheus.Labels{"vector": label},
		),
		bucketsUse: prometheus.NewDesc(
			"boxcar_bucket_allocations_total",
			"Number of buckets currently allocated, out of the fixed bucket table size.",
			[]string{"state"}, prometheus.Labels{"vector": label},
		),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "boxcar_iteration_duration_seconds",
			Help:        "Wall-clock duration of a full Iterator pass over the vector.",
			ConstLabels: prometheus.Labels{"vector": label},
			Buckets:     prometheus.DefBuckets,
		}),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.length
	ch <- c.bucketsUse
	c.iterations.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.length, prometheus.GaugeValue, float64(c.vec.Count()))

	allocated, total := c.vec.BucketStats()
	ch <- prometheus.MustNewConstMetric(c.bucketsUse, prometheus.GaugeValue, float64(allocated), "allocated")
	ch <- prometheus.MustNewConstMetric(c.bucketsUse, prometheus.GaugeValue, float64(total-allocated), "unallocated")

	c.iterations.Collect(ch)
}

// ObserveIteration records how long a full iteration pass took, for
// inclusion in the boxcar_iteration_duration_seconds histogram. Callers
// that iterate a Collector's vector periodically (a scrape-driven report,
// a compaction sweep) should time their pass and call this once per pass.
func (c *Collector) ObserveIteration(d time.Duration) {
	c.iterations.Observe(d.Seconds())
}
