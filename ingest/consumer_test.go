// Copyright (c) 2024 Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/Shopify/sarama"

	"github.com/aristanetworks/boxcar/boxcar"
	"github.com/aristanetworks/boxcar/sync/semaphore"
)

func newTestConsumer(vec *boxcar.Vector[[]byte]) *Consumer {
	return &Consumer{
		vec:     vec,
		topic:   "test-topic",
		limiter: semaphore.NewWeighted(8),
		log:     nopLogger{},
	}
}

func TestConsumeMessagesPushesEachMessageInOrder(t *testing.T) {
	vec := boxcar.New[[]byte]()
	c := newTestConsumer(vec)

	messages := make(chan *sarama.ConsumerMessage, 3)
	errs := make(chan *sarama.ConsumerError)
	want := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	for i, v := range want {
		messages <- &sarama.ConsumerMessage{Value: v, Offset: int64(i)}
	}
	close(messages)

	if err := c.consumeMessages(context.Background(), 0, messages, errs); err != nil {
		t.Fatalf("consumeMessages returned %v", err)
	}

	if got := vec.Count(); got != uint64(len(want)) {
		t.Fatalf("Count() = %d, want %d", got, len(want))
	}
	for i, wantVal := range want {
		got, ok := vec.Get(uint64(i))
		if !ok || string(got) != string(wantVal) {
			t.Fatalf("Get(%d) = (%q, %v), want (%q, true)", i, got, ok, wantVal)
		}
	}
}

func TestConsumeMessagesStopsOnContextCancel(t *testing.T) {
	vec := boxcar.New[[]byte]()
	c := newTestConsumer(vec)

	ctx, cancel := context.WithCancel(context.Background())
	messages := make(chan *sarama.ConsumerMessage)
	errs := make(chan *sarama.ConsumerError)

	done := make(chan error, 1)
	go func() { done <- c.consumeMessages(ctx, 0, messages, errs) }()

	cancel()
	select {
	case err := <-done:
		if err == nil {
			t.Fatal("consumeMessages should return ctx.Err() once canceled")
		}
	case <-time.After(time.Second):
		t.Fatal("consumeMessages did not return after context cancellation")
	}
}

func TestConsumeMessagesLogsErrorsWithoutStopping(t *testing.T) {
	vec := boxcar.New[[]byte]()
	c := newTestConsumer(vec)

	messages := make(chan *sarama.ConsumerMessage, 1)
	errs := make(chan *sarama.ConsumerError, 1)
	errs <- &sarama.ConsumerError{Topic: "test-topic", Partition: 0}
	messages <- &sarama.ConsumerMessage{Value: []byte("after-error")}
	close(messages)
	close(errs)

	if err := c.consumeMessages(context.Background(), 0, messages, errs); err != nil {
		t.Fatalf("consumeMessages returned %v", err)
	}
	if got := vec.Count(); got != 1 {
		t.Fatalf("Count() = %d, want 1 (the message after the error should still be pushed)", got)
	}
}
