// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// RAM caps the total RAM demand each host can accept, scaled by the
// configured ram_allocation_ratio. Grounded on
// linearconstraints/ram_constraint.py: a host whose usable RAM can't
// even fit one instance is rejected outright (all its slots zeroed);
// otherwise an inequality row bounds the number of instances it can
// take. The enforced cap is recorded into host.Limits.MemoryMB.
type RAM struct {
	AllocationRatio float64
}

func NewRAM() placement.Constraint { return &RAM{AllocationRatio: 1.0} }

func (c *RAM) Name() string { return "ram" }

func (c *RAM) Init(opts conf.RawOpts) error {
	var parsed struct {
		AllocationRatio *float64 `json:"allocationRatio"`
	}
	if err := opts.Unmarshal(&parsed); err != nil {
		return err
	}
	c.AllocationRatio = 1.0
	if parsed.AllocationRatio != nil {
		c.AllocationRatio = *parsed.AllocationRatio
	}
	return nil
}

func (c *RAM) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	requestedRAM := float64(req.InstanceType.MemoryMB)
	numSlots := vars.NumSlots()

	var contrib placement.ConstraintContribution
	for i, host := range hosts {
		memoryLimit := float64(host.TotalUsableRAMMB) * c.AllocationRatio
		usedRAM := float64(host.TotalUsableRAMMB - host.FreeRAMMB)
		usableRAM := memoryLimit - usedRAM

		limit := int(memoryLimit)
		hosts[i].Limits.MemoryMB = &limit

		if usableRAM < requestedRAM {
			for j := 0; j < numSlots; j++ {
				contrib.Vars = append(contrib.Vars, []string{vars.Name(i, j)})
				contrib.Coefficients = append(contrib.Coefficients, []float64{1})
				contrib.Consts = append(contrib.Consts, 0)
				contrib.Ops = append(contrib.Ops, placement.OpEq)
			}
			continue
		}
		row := make([]string, numSlots)
		coefs := make([]float64, numSlots)
		for j := 0; j < numSlots; j++ {
			row[j] = vars.Name(i, j)
			coefs[j] = requestedRAM
		}
		contrib.Vars = append(contrib.Vars, row)
		contrib.Coefficients = append(contrib.Coefficients, coefs)
		contrib.Consts = append(contrib.Consts, usableRAM)
		contrib.Ops = append(contrib.Ops, placement.OpLe)
	}
	return contrib, nil
}
