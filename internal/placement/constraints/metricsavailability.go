// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// metricsAvailabilityOpts is the metrics_availability plugin's json
// config shape, loaded through the conf.JsonOpts mixin below since it
// has no default to preserve across a missing key: an absent "keys"
// array and an explicitly empty one both fall back to req.MetricRatios.
type metricsAvailabilityOpts struct {
	Keys []string `json:"keys"`
}

// MetricsAvailability rejects hosts missing any metric the metrics
// cost is configured to weigh by, so that cost never silently treats
// a host without telemetry as neutral. Grounded on
// linearconstraints/metrics_constraint.py.
type MetricsAvailability struct {
	conf.JsonOpts[metricsAvailabilityOpts]
}

func NewMetricsAvailability() placement.Constraint { return &MetricsAvailability{} }

func (c *MetricsAvailability) Name() string { return "metrics_availability" }

func (c *MetricsAvailability) Init(opts conf.RawOpts) error {
	return c.Load(opts)
}

func (c *MetricsAvailability) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	keys := c.Options.Keys
	if len(keys) == 0 {
		for name := range req.MetricRatios {
			keys = append(keys, name)
		}
	}
	if len(keys) == 0 {
		return placement.ConstraintContribution{}, nil
	}
	reject := make([]bool, len(hosts))
	for i, host := range hosts {
		for _, key := range keys {
			if _, ok := host.Metrics[key]; !ok {
				reject[i] = true
				break
			}
		}
	}
	return rejectHosts(vars, reject), nil
}
