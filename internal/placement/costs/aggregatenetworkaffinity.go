// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package costs

import (
	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// AggregateNetworkAffinityCost rewards placing an instance on a host
// whose aggregates advertise network_affinity=true for networks the
// request actually asked for. Grounded on
// costs/aggregate_network_affinity_cost.py.
type AggregateNetworkAffinityCost struct {
	Multiplier float64
}

func NewAggregateNetworkAffinityCost() placement.Cost {
	return &AggregateNetworkAffinityCost{Multiplier: 1.0}
}

func (c *AggregateNetworkAffinityCost) Name() string { return "aggregate_network_affinity_cost" }

func (c *AggregateNetworkAffinityCost) Init(opts conf.RawOpts) error {
	var parsed struct {
		Multiplier *float64 `json:"multiplier"`
	}
	if err := opts.Unmarshal(&parsed); err != nil {
		return err
	}
	c.Multiplier = 1.0
	if parsed.Multiplier != nil {
		c.Multiplier = *parsed.Multiplier
	}
	return nil
}

func (c *AggregateNetworkAffinityCost) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.CostContribution, error) {
	numSlots := vars.NumSlots()
	names := make([]string, 0, vars.NumHosts()*numSlots)
	coefs := make([]float64, 0, vars.NumHosts()*numSlots)

	for i, host := range hosts {
		affinityNetworks := make(map[string]bool)
		for _, agg := range host.Aggregates {
			switch agg.Metadata["network_affinity"] {
			case "true", "True", "1", "yes", "Yes", "y", "Y":
				for _, n := range agg.Networks {
					affinityNetworks[n] = true
				}
			}
		}
		hostCost := 0.0
		for _, network := range req.RequestedNetworks {
			if network != "" && affinityNetworks[network] {
				hostCost -= 1
			}
		}
		for j := 0; j < numSlots; j++ {
			names = append(names, vars.Name(i, j))
			coefs = append(coefs, hostCost)
		}
	}
	return placement.CostContribution{
		Vars:         names,
		Coefficients: coefs,
		Multiplier:   c.Multiplier,
	}, nil
}
