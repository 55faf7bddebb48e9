// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package ingest turns a Kafka topic into a boxcar.Vector: every message on
// every partition is pushed, in the order the partition consumer delivers
// it, giving a durable, concurrently-readable append log fed by Kafka.
package ingest

import (
	"context"
	"fmt"

	"github.com/Shopify/sarama"
	"golang.org/x/sync/errgroup"

	"github.com/aristanetworks/boxcar/boxcar"
	boxcarkafka "github.com/aristanetworks/boxcar/kafka"
	"github.com/aristanetworks/boxcar/logger"
	"github.com/aristanetworks/boxcar/sync/semaphore"
)

// Consumer consumes every partition of a Kafka topic concurrently and
// pushes each message's value into a Vector.
type Consumer struct {
	vec      *boxcar.Vector[[]byte]
	client   sarama.Client
	consumer sarama.Consumer
	topic    string
	limiter  *semaphore.Weighted
	log      logger.Logger
}

// NewConsumer dials the given Kafka brokers and returns a Consumer that
// will, once Run is called, push every message of topic into vec.
// maxInFlight bounds how many Push calls may be in progress at once,
// across all partitions. A message holds the limit only while it is being
// pushed; messages already fetched and buffered by a partition consumer
// are not counted against it.
func NewConsumer(addresses []string, topic string, vec *boxcar.Vector[[]byte],
	maxInFlight int64, log logger.Logger) (*Consumer, error) {

	client, err := boxcarkafka.NewConsumerClient(addresses)
	if err != nil {
		return nil, fmt.Errorf("ingest: creating kafka client: %w", err)
	}
	consumer, err := sarama.NewConsumerFromClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("ingest: creating kafka consumer: %w", err)
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Consumer{
		vec:      vec,
		client:   client,
		consumer: consumer,
		topic:    topic,
		limiter:  semaphore.NewWeighted(maxInFlight),
		log:      log,
	}, nil
}

// Run consumes every partition of the topic concurrently until ctx is
// canceled or a partition consumer returns a fatal error, in which case
// every other partition's consumption is canceled too.
func (c *Consumer) Run(ctx context.Context) error {
	partitions, err := c.consumer.Partitions(c.topic)
	if err != nil {
		return fmt.Errorf("ingest: listing partitions for %q: %w", c.topic, err)
	}

	group, ctx := errgroup.WithContext(ctx)
	for _, partition := range partitions {
		partition := partition
		pc, err := c.consumer.ConsumePartition(c.topic, partition, sarama.OffsetOldest)
		if err != nil {
			return fmt.Errorf("ingest: consuming %s/%d: %w", c.topic, partition, err)
		}
		group.Go(func() error {
			defer pc.Close()
			return c.consumeMessages(ctx, partition, pc.Messages(), pc.Errors())
		})
	}
	return group.Wait()
}

// consumeMessages drives a single partition's message and error channels.
// It is split out from Run so it can be exercised with fake channels in
// tests, without standing up a real Kafka broker.
func (c *Consumer) consumeMessages(ctx context.Context, partition int32,
	messages <-chan *sarama.ConsumerMessage, errs <-chan *sarama.ConsumerError) error {

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			if err := c.limiter.Acquire(ctx, 1); err != nil {
				return err
			}
			idx := c.vec.Push(msg.Value)
			c.limiter.Release(1)
			c.log.Infof("ingest: partition %d offset %d published at vector index %d",
				partition, msg.Offset, idx)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			c.log.Errorf("ingest: partition %d: %v", partition, err)
		}
	}
}

// Close releases the underlying Kafka client. It does not stop an
// in-progress Run; cancel the context passed to Run for that.
func (c *Consumer) Close() error {
	return c.client.Close()
}

type nopLogger struct{}

func (nopLogger) Info(args ...interface{})                 {}
func (nopLogger) Infof(format string, args ...interface{}) {}
func (nopLogger) Error(args ...interface{})                {}
func (nopLogger) Errorf(format string, args ...interface{}) {}
func (nopLogger) Fatal(args ...interface{})                {}
func (nopLogger) Fatalf(format string, args ...interface{}) {}
