// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package conf

import (
	"encoding/json"
	"io"
	"os"
)

// Configuration for structured logging.
type LoggingConfig struct {
	// The log level to use (debug, info, warn, error).
	LevelStr string `json:"level"`
	// The log format to use (json, text).
	Format string `json:"format"`
}

// Configuration for the monitoring module.
type MonitoringConfig struct {
	// The labels to add to all metrics.
	Labels map[string]string `json:"labels"`
	// The port to expose the metrics on.
	Port int `json:"port"`
}

// Configuration for the api port.
type APIConfig struct {
	// The port to expose the API on.
	Port int `json:"port"`
	// If request bodies should be logged out.
	// This feature is intended for debugging purposes only.
	LogRequestBodies bool `json:"logRequestBodies"`
}

type MQTTReconnectConfig struct {
	// The interval between reconnection attempts on connection loss.
	RetryIntervalSeconds int `json:"retryIntervalSeconds"`
	// The maximum number of reconnection attempts on connection loss before giving up.
	MaxRetries int `json:"maxRetries"`
}

// Configuration for the mqtt telemetry sink.
type MQTTConfig struct {
	// The URL of the MQTT broker to publish telemetry on. Empty disables mqtt.
	URL string `json:"url"`
	// The topic solve telemetry is published under.
	Topic     string              `json:"topic"`
	Username  string              `json:"username"`
	Password  string              `json:"password"`
	Reconnect MQTTReconnectConfig `json:"reconnect"`
}

// Configuration for authenticating against OpenStack Keystone. The
// credential fields themselves live in SecretConfig (environment
// variables); this only carries the non-secret parts the hoststate and
// flavorsrc collaborators need to find the right endpoints.
type KeystoneConfig struct {
	// Which OpenStack endpoint interface to use (public, internal, admin).
	Availability string `json:"availability"`
}

// Configuration for a single cost plugin activation.
type SolverCostConfig struct {
	// The name under which the cost plugin is registered.
	Name string `json:"name"`
	// Custom options for the cost plugin, as a raw json map.
	Options RawOpts `json:"options,omitempty"`
}

// Configuration for a single constraint plugin activation.
type SolverConstraintConfig struct {
	// The name under which the constraint plugin is registered.
	Name string `json:"name"`
	// Custom options for the constraint plugin, as a raw json map.
	Options RawOpts `json:"options,omitempty"`
}

// Configuration for the solver_scheduler group.
type SolverConfig struct {
	// Cost class names to activate, in configuration order.
	Costs []SolverCostConfig `json:"costs"`
	// Constraint class names to activate, in configuration order.
	// The structural Assignment and Row-monotonicity constraints are
	// always active and are never read from this list.
	Constraints []SolverConstraintConfig `json:"constraints"`
	// How much time in seconds is allowed for the solver to solve the
	// scheduling problem. If this limit is exceeded the solver stops
	// and a SolverFailure is raised.
	PulpSolverTimeoutSeconds int `json:"pulpSolverTimeoutSeconds"`
	// Allocation ratios imported from elsewhere (nova-compatible naming).
	RAMAllocationRatio  float64 `json:"ramAllocationRatio"`
	DiskAllocationRatio float64 `json:"diskAllocationRatio"`
	CPUAllocationRatio  float64 `json:"cpuAllocationRatio"`
	// Cluster-wide caps imported from elsewhere.
	MaxInstancesPerHost int `json:"maxInstancesPerHost"`
	MaxNetworksPerRack  int `json:"maxNetworksPerRack"`
}

// Apply defaults matching the nova-solver-scheduler blueprint.
func (c *SolverConfig) applyDefaults() {
	if c.PulpSolverTimeoutSeconds == 0 {
		c.PulpSolverTimeoutSeconds = 20
	}
	if c.RAMAllocationRatio == 0 {
		c.RAMAllocationRatio = 1.0
	}
	if c.DiskAllocationRatio == 0 {
		c.DiskAllocationRatio = 1.0
	}
	if c.CPUAllocationRatio == 0 {
		c.CPUAllocationRatio = 1.0
	}
	if len(c.Costs) == 0 {
		c.Costs = []SolverCostConfig{{Name: "ram_cost"}}
	}
	if len(c.Constraints) == 0 {
		c.Constraints = []SolverConstraintConfig{{Name: "active_hosts"}}
	}
}

// Configuration for the placement-solver service.
type Config interface {
	GetLoggingConfig() LoggingConfig
	GetMonitoringConfig() MonitoringConfig
	GetAPIConfig() APIConfig
	GetMQTTConfig() MQTTConfig
	GetSolverConfig() SolverConfig
	GetKeystoneConfig() KeystoneConfig
	// Check if the configuration is valid.
	Validate() error
}

type config struct {
	LoggingConfig    `json:"logging"`
	MonitoringConfig `json:"monitoring"`
	APIConfig        `json:"api"`
	MQTTConfig       `json:"mqtt"`
	SolverConfig     `json:"solver_scheduler"`
	KeystoneConfig   `json:"keystone"`
}

// Create a new configuration from the default config json file.
func NewConfig() Config {
	return newConfigFromFile("/etc/config/conf.json")
}

// Create a new configuration from the given file.
func newConfigFromFile(filepath string) Config {
	file, err := os.Open(filepath)
	if err != nil {
		panic(err)
	}
	defer file.Close()
	bytes, err := io.ReadAll(file)
	if err != nil {
		panic(err)
	}
	return newConfigFromBytes(bytes)
}

// Create a new configuration from the given bytes.
func newConfigFromBytes(bytes []byte) Config {
	var c config
	if err := json.Unmarshal(bytes, &c); err != nil {
		panic(err)
	}
	c.SolverConfig.applyDefaults()
	if c.KeystoneConfig.Availability == "" {
		c.KeystoneConfig.Availability = "public"
	}
	return &c
}

func (c *config) GetLoggingConfig() LoggingConfig       { return c.LoggingConfig }
func (c *config) GetMonitoringConfig() MonitoringConfig { return c.MonitoringConfig }
func (c *config) GetAPIConfig() APIConfig               { return c.APIConfig }
func (c *config) GetMQTTConfig() MQTTConfig             { return c.MQTTConfig }
func (c *config) GetSolverConfig() SolverConfig         { return c.SolverConfig }
func (c *config) GetKeystoneConfig() KeystoneConfig     { return c.KeystoneConfig }
