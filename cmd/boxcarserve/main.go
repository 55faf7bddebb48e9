// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// The boxcarserve tool ingests a Kafka topic into a boxcar.Vector and
// serves its contents over HTTP, with Prometheus metrics and dynamic glog
// verbosity alongside.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aristanetworks/glog"

	"github.com/aristanetworks/boxcar/boxcar"
	boxcarglog "github.com/aristanetworks/boxcar/glog"
	"github.com/aristanetworks/boxcar/ingest"
	"github.com/aristanetworks/boxcar/kafka"
	"github.com/aristanetworks/boxcar/metrics"
)

var (
	topic       = flag.String("topic", "", "Kafka topic to ingest into the vector")
	listenAddr  = flag.String("listenaddr", ":8080", "address on which to serve /vector and /metrics")
	maxInFlight = flag.Int64("max-in-flight", 1024, "maximum in-flight, unacknowledged pushes across all partitions")
)

func main() {
	flag.Parse()
	if *topic == "" {
		glog.Fatal("You need to specify a Kafka topic using the -topic flag")
	}
	var addresses []string
	if *kafka.Addresses != "" {
		addresses = strings.Split(*kafka.Addresses, ",")
	}
	if len(addresses) == 0 {
		glog.Fatal("You need to specify at least one Kafka broker using the -kafka flag")
	}

	vec := boxcar.New[[]byte]()
	log := &boxcarglog.Glog{}

	consumer, err := ingest.NewConsumer(addresses, *topic, vec, *maxInFlight, log)
	if err != nil {
		glog.Fatalf("Failed to create consumer: %v", err)
	}
	defer consumer.Close()

	prometheus.MustRegister(metrics.NewCollector(vec, *topic))
	http.HandleFunc("/vector/len", lenHandler(vec))
	http.HandleFunc("/vector/get", getHandler(vec))

	srv := metrics.NewMonitorServer(*listenAddr)
	glog.Infof("serving /debug, /debug/loglevel, /metrics and /vector on %s", *listenAddr)
	go srv.Run()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
		glog.Fatalf("ingest consumer stopped: %v", err)
	}
}

func lenHandler(vec *boxcar.Vector[[]byte]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "%d\n", vec.Count())
	}
}

func getHandler(vec *boxcar.Vector[[]byte]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("i")
		i, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			http.Error(w, fmt.Sprintf("invalid index %q: %v", raw, err), http.StatusBadRequest)
			return
		}
		value, ok := vec.Get(i)
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(value)
	}
}
