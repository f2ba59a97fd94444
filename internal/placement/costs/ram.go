// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

// Package costs collects the cost plugins shipped with the placement
// engine. Each file mirrors one of the nova-solver-scheduler blueprint's
// solvers/costs modules, reworked into the engine's contribution
// protocol.
package costs

import (
	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// RamCost spreads instances across hosts by free RAM. Grounded on
// costs/ram_cost.py: coefficient[i][j] = -free_ram_mb[i] + requested_ram*(j+1),
// so a host's j-th slot gets steeper the more of its RAM the first j
// slots already claimed. A negative Multiplier stacks instead of
// spreads.
type RamCost struct {
	Multiplier float64
}

func NewRamCost() placement.Cost { return &RamCost{Multiplier: 1.0} }

func (c *RamCost) Name() string { return "ram_cost" }

func (c *RamCost) Init(opts conf.RawOpts) error {
	var parsed struct {
		Multiplier *float64 `json:"multiplier"`
	}
	if err := opts.Unmarshal(&parsed); err != nil {
		return err
	}
	if parsed.Multiplier != nil {
		c.Multiplier = *parsed.Multiplier
	} else {
		c.Multiplier = 1.0
	}
	return nil
}

func (c *RamCost) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.CostContribution, error) {
	requestedRAM := req.InstanceType.MemoryMB
	numSlots := vars.NumSlots()

	names := make([]string, 0, vars.NumHosts()*numSlots)
	coefs := make([]float64, 0, vars.NumHosts()*numSlots)
	for i, host := range hosts {
		for j := 0; j < numSlots; j++ {
			names = append(names, vars.Name(i, j))
			coefs = append(coefs, float64(-host.FreeRAMMB)+float64(requestedRAM)*float64(j+1))
		}
	}
	return placement.CostContribution{
		Vars:         names,
		Coefficients: coefs,
		Multiplier:   c.Multiplier,
	}, nil
}
