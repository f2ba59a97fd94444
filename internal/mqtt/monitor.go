// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package mqtt

import (
	"github.com/cobaltcore-dev/placement-solver/internal/monitoring"
	"github.com/prometheus/client_golang/prometheus"
)

// Monitor collects Prometheus metrics for the mqtt telemetry client.
type Monitor struct {
	connectionAttempts prometheus.Counter
	publishFailures    prometheus.Counter
}

// NewMQTTMonitor creates a new monitor and registers its metrics.
func NewMQTTMonitor(registry *monitoring.Registry) Monitor {
	connectionAttempts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placement_solver_mqtt_connection_attempts_total",
		Help: "Total number of attempts to connect to the MQTT broker",
	})
	publishFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "placement_solver_mqtt_publish_failures_total",
		Help: "Total number of failed attempts to publish solve telemetry",
	})
	registry.MustRegister(connectionAttempts, publishFailures)
	return Monitor{
		connectionAttempts: connectionAttempts,
		publishFailures:    publishFailures,
	}
}
