// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// NumNetworksPerRack caps, for every host, the worst-case number of
// distinct networks any rack (aggregate) it belongs to would carry if
// all of the request's slots landed there. Grounded on
// linearconstraints/num_networks_per_rack_constraint.py: for each
// aggregate the host is a member of, count how many requested
// networks are not already in that aggregate's network list, and keep
// the worst (largest) post-placement total across the host's
// aggregates.
type NumNetworksPerRack struct {
	MaxNetworksPerRack int
}

func NewNumNetworksPerRack() placement.Constraint {
	return &NumNetworksPerRack{MaxNetworksPerRack: 0}
}

func (c *NumNetworksPerRack) Name() string { return "num_networks_per_rack" }

func (c *NumNetworksPerRack) Init(opts conf.RawOpts) error {
	var parsed struct {
		MaxNetworksPerRack *int `json:"maxNetworksPerRack"`
	}
	if err := opts.Unmarshal(&parsed); err != nil {
		return err
	}
	if parsed.MaxNetworksPerRack != nil {
		c.MaxNetworksPerRack = *parsed.MaxNetworksPerRack
	}
	return nil
}

func (c *NumNetworksPerRack) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	var contrib placement.ConstraintContribution
	if c.MaxNetworksPerRack <= 0 || len(req.RequestedNetworks) == 0 {
		return contrib, nil
	}
	numSlots := vars.NumSlots()

	for i, host := range hosts {
		worst := 0
		for _, agg := range host.Aggregates {
			existing := make(map[string]bool, len(agg.Networks))
			for _, n := range agg.Networks {
				existing[n] = true
			}
			after := len(agg.Networks)
			for _, requested := range req.RequestedNetworks {
				if requested != "" && !existing[requested] {
					after++
				}
			}
			if after > worst {
				worst = after
			}
		}
		coefficient := float64(worst - c.MaxNetworksPerRack)
		row := make([]string, numSlots)
		coefs := make([]float64, numSlots)
		for j := 0; j < numSlots; j++ {
			row[j] = vars.Name(i, j)
			coefs[j] = coefficient
		}
		contrib.Vars = append(contrib.Vars, row)
		contrib.Coefficients = append(contrib.Coefficients, coefs)
		contrib.Consts = append(contrib.Consts, 0)
		contrib.Ops = append(contrib.Ops, placement.OpLe)
	}
	return contrib, nil
}
