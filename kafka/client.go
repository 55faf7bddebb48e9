// Copyright (C) 2016  Arista Networks, Inc.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package kafka

import (
	"os"

	"github.com/Shopify/sarama"
)

// NewConsumerClient returns a Kafka client configured for consuming, using
// the local hostname as the client ID the way the rest of this codebase's
// Kafka clients do.
func NewConsumerClient(addresses []string) (sarama.Client, error) {
	config := sarama.NewConfig()
	hostname, err := os.Hostname()
	if err != nil {
		hostname = ""
	}
	config.ClientID = hostname
	config.Consumer.Return.Errors = true

	return sarama.NewClient(addresses, config)
}
