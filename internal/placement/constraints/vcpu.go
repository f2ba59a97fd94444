// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// VCPU caps the total vCPU demand each host can accept, scaled by the
// configured cpu_allocation_ratio. Grounded on
// linearconstraints/vcpu_constraint.py. A host reporting zero total
// vCPUs is treated as having broken CPU collection and is rejected
// outright, matching the blueprint's warning-and-reject behavior.
type VCPU struct {
	AllocationRatio float64
}

func NewVCPU() placement.Constraint { return &VCPU{AllocationRatio: 1.0} }

func (c *VCPU) Name() string { return "vcpu" }

func (c *VCPU) Init(opts conf.RawOpts) error {
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

func (c *VCPU) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	requestedVCPUs := float64(req.InstanceType.VCPUs)
	numSlots := vars.NumSlots()

	var contrib placement.ConstraintContribution
	for i, host := range hosts {
		if host.VCPUsTotal == 0 {
			for j := 0; j < numSlots; j++ {
				contrib.Vars = append(contrib.Vars, []string{vars.Name(i, j)})
				contrib.Coefficients = append(contrib.Coefficients, []float64{1})
				contrib.Consts = append(contrib.Consts, 0)
				contrib.Ops = append(contrib.Ops, placement.OpEq)
			}
			continue
		}
		vcpusLimit := float64(host.VCPUsTotal) * c.AllocationRatio
		usableVCPUs := vcpusLimit - float64(host.VCPUsUsed)

		limit := int(vcpusLimit)
		hosts[i].Limits.VCPU = &limit

		if usableVCPUs < requestedVCPUs {
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
			coefs[j] = requestedVCPUs
		}
		contrib.Vars = append(contrib.Vars, row)
		contrib.Coefficients = append(contrib.Coefficients, coefs)
		contrib.Consts = append(contrib.Consts, usableVCPUs)
		contrib.Ops = append(contrib.Ops, placement.OpLe)
	}
	return contrib, nil
}
