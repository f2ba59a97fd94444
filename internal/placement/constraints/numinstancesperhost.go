// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// NumInstancesPerHost caps how many of the requested instances a
// single host may receive, given how many it already runs. Grounded
// on constraints/num_instances_constraint.py: slots beyond the
// acceptable count are zeroed individually rather than rejecting the
// whole row, since a host may still take some of the batch.
type NumInstancesPerHost struct {
	MaxInstancesPerHost int
}

func NewNumInstancesPerHost() placement.Constraint {
	return &NumInstancesPerHost{MaxInstancesPerHost: 0}
}

func (c *NumInstancesPerHost) Name() string { return "num_instances_per_host" }

func (c *NumInstancesPerHost) Init(opts conf.RawOpts) error {
	var parsed struct {
		MaxInstancesPerHost *int `json:"maxInstancesPerHost"`
	}
	if err := opts.Unmarshal(&parsed); err != nil {
		return err
	}
	if parsed.MaxInstancesPerHost != nil {
		c.MaxInstancesPerHost = *parsed.MaxInstancesPerHost
	}
	return nil
}

func (c *NumInstancesPerHost) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	max := c.MaxInstancesPerHost
	numSlots := vars.NumSlots()

	var contrib placement.ConstraintContribution
	if max <= 0 {
		return contrib, nil
	}
	for i, host := range hosts {
		acceptable := max - host.NumInstances
		if acceptable < 0 {
			acceptable = 0
		}
		if acceptable >= numSlots {
			continue
		}
		for j := acceptable; j < numSlots; j++ {
			contrib.Vars = append(contrib.Vars, []string{vars.Name(i, j)})
			contrib.Coefficients = append(contrib.Coefficients, []float64{1})
			contrib.Consts = append(contrib.Consts, 0)
			contrib.Ops = append(contrib.Ops, placement.OpEq)
		}
	}
	return contrib, nil
}
