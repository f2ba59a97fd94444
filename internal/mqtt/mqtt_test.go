// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package mqtt

import (
	"testing"

	"github.com/cobaltcore-dev/placement-solver/internal/conf"
)

func TestClientWithNoURLIsANoop(t *testing.T) {
	client := NewClient(conf.MQTTConfig{}, Monitor{})

	if err := client.Connect(); err != nil {
		t.Fatalf("Connect returned an error for an unconfigured broker: %v", err)
	}
	// Publish must not panic or attempt a connection.
	client.Publish("placement/solve", map[string]any{"status": "optimal"})
	client.Disconnect()
}
