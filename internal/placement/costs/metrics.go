// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package costs

import (
	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// MetricsCost weighs hosts by a configured linear combination of their
// reported metrics. Grounded on costs/metrics_cost.py: weight_setting
// maps metric name to ratio, and a host missing any configured metric
// gets min - (max-min)*WeightMultiplierOfUnavailable instead, where min
// and max range over the hosts that report every configured metric. At
// the default of -1.0 that is the largest observed weight.
type MetricsCost struct {
	Multiplier              float64
	Ratios                  map[string]float64
	WeightMultiplierOfUnavailable float64
}

func NewMetricsCost() placement.Cost {
	return &MetricsCost{
		Multiplier:                    -1.0,
		WeightMultiplierOfUnavailable: -1.0,
	}
}

func (c *MetricsCost) Name() string { return "metrics_cost" }

func (c *MetricsCost) Init(opts conf.RawOpts) error {
	var parsed struct {
		Multiplier                    *float64           `json:"multiplier"`
		Ratios                        map[string]float64 `json:"ratios"`
		WeightMultiplierOfUnavailable *float64           `json:"weightMultiplierOfUnavailable"`
	}
	if err := opts.Unmarshal(&parsed); err != nil {
		return err
	}
	c.Multiplier = -1.0
	if parsed.Multiplier != nil {
		c.Multiplier = *parsed.Multiplier
	}
	c.Ratios = parsed.Ratios
	c.WeightMultiplierOfUnavailable = -1.0
	if parsed.WeightMultiplierOfUnavailable != nil {
		c.WeightMultiplierOfUnavailable = *parsed.WeightMultiplierOfUnavailable
	}
	return nil
}

func (c *MetricsCost) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.CostContribution, error) {
	ratios := c.Ratios
	if ratios == nil {
		ratios = req.MetricRatios
	}

	weights := make([]float64, len(hosts))
	available := make([]bool, len(hosts))
	var numericValues []float64
	for i, host := range hosts {
		sum := 0.0
		ok := true
		for name, ratio := range ratios {
			metric, found := host.Metrics[name]
			if !found {
				ok = false
				break
			}
			sum += metric.Value * ratio
		}
		weights[i] = sum
		available[i] = ok
		if ok {
			numericValues = append(numericValues, sum)
		}
	}

	if len(numericValues) > 0 {
		minVal, maxVal := numericValues[0], numericValues[0]
		for _, v := range numericValues {
			if v < minVal {
				minVal = v
			}
			if v > maxVal {
				maxVal = v
			}
		}
		fallback := minVal - (maxVal-minVal)*c.WeightMultiplierOfUnavailable
		for i := range hosts {
			if !available[i] {
				weights[i] = fallback
			}
		}
	} else {
		for i := range weights {
			weights[i] = 0
		}
	}

	numSlots := vars.NumSlots()
	names := make([]string, 0, vars.NumHosts()*numSlots)
	coefs := make([]float64, 0, vars.NumHosts()*numSlots)
	for i := range hosts {
		for j := 0; j < numSlots; j++ {
			names = append(names, vars.Name(i, j))
			coefs = append(coefs, weights[i])
		}
	}
	return placement.CostContribution{
		Vars:         names,
		Coefficients: coefs,
		Multiplier:   c.Multiplier,
	}, nil
}
