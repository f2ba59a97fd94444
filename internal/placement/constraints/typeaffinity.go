// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// TypeAffinity refuses a host that already runs an instance of a
// different flavor than the one being requested. Grounded on
// linearconstraints/type_affinity_constraint.py; works best paired
// with a spreading ram_cost, as the blueprint notes.
type TypeAffinity struct{}

func NewTypeAffinity() placement.Constraint { return &TypeAffinity{} }

func (c *TypeAffinity) Name() string               { return "type_affinity" }
func (c *TypeAffinity) Init(opts conf.RawOpts) error { return nil }

func (c *TypeAffinity) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	reject := make([]bool, len(hosts))
	for i, host := range hosts {
		for _, running := range host.RunningInstanceTypes {
			if running != req.InstanceType.ID {
				reject[i] = true
				break
			}
		}
	}
	return rejectHosts(vars, reject), nil
}
