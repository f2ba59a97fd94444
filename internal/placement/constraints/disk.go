// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// Disk caps the total disk demand each host can accept, scaled by the
// configured disk_allocation_ratio. Grounded on
// constraints/disk_constraint.py (the linear-constraint sibling never
// shipped in the blueprint, so the non-linear file is the closest
// source); requested disk combines root, ephemeral and swap exactly as
// there, converting swap's already-MB unit alongside the two GB ones.
// A request with no disk demand emits no rows.
type Disk struct {
	AllocationRatio float64
}

func NewDisk() placement.Constraint { return &Disk{AllocationRatio: 1.0} }

func (c *Disk) Name() string { return "disk" }

func (c *Disk) Init(opts conf.RawOpts) error {
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

func (c *Disk) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	it := req.InstanceType
	requestedDiskMB := float64(1024*(it.RootDiskGB+it.EphemeralDiskGB) + it.SwapMB)
	numSlots := vars.NumSlots()

	var contrib placement.ConstraintContribution
	for i, host := range hosts {
		totalUsableDiskMB := float64(host.TotalUsableDiskMB)
		diskLimitMB := totalUsableDiskMB * c.AllocationRatio
		usedDiskMB := totalUsableDiskMB - float64(host.FreeDiskMB)
		usableDiskMB := diskLimitMB - usedDiskMB

		limitGB := int(diskLimitMB / 1024)
		hosts[i].Limits.DiskGB = &limitGB
		if requestedDiskMB == 0 {
			continue
		}

		if usableDiskMB < requestedDiskMB {
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
			coefs[j] = requestedDiskMB
		}
		contrib.Vars = append(contrib.Vars, row)
		contrib.Coefficients = append(contrib.Coefficients, coefs)
		contrib.Consts = append(contrib.Consts, usableDiskMB)
		contrib.Ops = append(contrib.Ops, placement.OpLe)
	}
	return contrib, nil
}
