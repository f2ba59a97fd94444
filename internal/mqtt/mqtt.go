// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

// Package mqtt publishes solve telemetry (the project id, the requested
// instance and candidate host counts, the chosen host names, and
// whether the request was infeasible) to an mqtt broker for offline
// analysis. Publishing is best-effort: a
// broker outage never blocks or fails a scheduling request.
package mqtt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sapcc/go-bits/jobloop"
)

// Client publishes solve telemetry to the configured mqtt broker. A
// nil/empty conf.MQTTConfig.URL disables publishing: Connect becomes
// a no-op and Publish silently drops its payload.
type Client interface {
	Connect() error
	Publish(topic string, obj any)
	Disconnect()
}

type client struct {
	conf    conf.MQTTConfig
	client  *mqtt.Client
	lock    *sync.Mutex
	monitor Monitor
}

// NewClient builds a client from the given configuration.
func NewClient(cfg conf.MQTTConfig, monitor Monitor) Client {
	return &client{conf: cfg, lock: &sync.Mutex{}, monitor: monitor}
}

func (t *client) onUnexpectedConnectionLoss(_ mqtt.Client, err error) {
	slog.Error("connection to mqtt broker lost", "err", err)
	t.Disconnect()
	t.client = nil

	for retry := range t.conf.Reconnect.MaxRetries {
		slog.Info("attempting to reconnect to mqtt broker", "attempt", retry+1, "url", t.conf.URL)
		if err := t.Connect(); err != nil {
			slog.Error("failed to reconnect to mqtt broker", "err", err)
			if retry < t.conf.Reconnect.MaxRetries-1 {
				interval := time.Duration(t.conf.Reconnect.RetryIntervalSeconds) * time.Second
				time.Sleep(jobloop.DefaultJitter(interval))
			}
			t.client = nil
			continue
		}
		slog.Info("reconnected to mqtt broker")
		return
	}
	slog.Error("failed to reconnect to mqtt broker after max retries", "maxRetries", t.conf.Reconnect.MaxRetries)
}

// Connect to the mqtt broker. A no-op if no broker URL is configured
// or the client is already connected.
func (t *client) Connect() error {
	if t.conf.URL == "" {
		return nil
	}
	if t.client != nil {
		return nil
	}
	if t.monitor.connectionAttempts != nil {
		t.monitor.connectionAttempts.Inc()
	}

	slog.Info("connecting to mqtt broker", "url", t.conf.URL)
	opts := mqtt.NewClientOptions()
	opts.AddBroker(t.conf.URL)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetConnectRetry(false)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(true)
	opts.SetConnectionLostHandler(t.onUnexpectedConnectionLoss)
	//nolint:gosec // client id uniqueness doesn't need to be cryptographically secure.
	opts.SetClientID(fmt.Sprintf("placement-solver-%d", rand.Intn(1_000_000)))
	opts.SetOrderMatters(false)
	opts.SetProtocolVersion(5)
	opts.SetUsername(t.conf.Username)
	opts.SetPassword(t.conf.Password)

	c := mqtt.NewClient(opts)
	if conn := c.Connect(); conn.Wait() && conn.Error() != nil {
		return conn.Error()
	}
	t.client = &c
	slog.Info("connected to mqtt broker")
	return nil
}

// Publish obj as json under topic. Failures are logged, not returned:
// telemetry publishing must never fail a scheduling request.
func (t *client) Publish(topic string, obj any) {
	if t.conf.URL == "" {
		return
	}
	if err := t.publish(topic, obj); err != nil {
		if t.monitor.publishFailures != nil {
			t.monitor.publishFailures.Inc()
		}
		slog.Error("failed to publish mqtt telemetry", "err", err, "topic", topic)
		return
	}
	slog.Debug("published mqtt telemetry", "topic", topic)
}

func (t *client) publish(topic string, obj any) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if err := t.Connect(); err != nil {
		return err
	}
	if t.client == nil {
		return nil
	}
	c := *t.client

	data, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	pub := c.Publish(topic, 1, false, string(data))
	if pub.Wait() && pub.Error() != nil {
		return pub.Error()
	}
	return nil
}

// Disconnect from the mqtt broker, if connected.
func (t *client) Disconnect() {
	if t.client == nil {
		return
	}
	c := *t.client
	t.client = nil
	c.Disconnect(1000)
	for c.IsConnected() {
		time.Sleep(100 * time.Millisecond)
	}
	slog.Info("disconnected from mqtt broker")
}
