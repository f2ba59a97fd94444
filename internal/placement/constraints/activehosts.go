// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// ActiveHosts only allows hosts whose compute service is enabled and
// reporting as up. Grounded on
// linearconstraints/active_hosts_constraint.py and
// linearconstraints/active_host_constraint.py, which both delegate to
// the compute_filter check nova itself runs for non-solver scheduling.
type ActiveHosts struct{}

func NewActiveHosts() placement.Constraint { return &ActiveHosts{} }

func (c *ActiveHosts) Name() string               { return "active_hosts" }
func (c *ActiveHosts) Init(opts conf.RawOpts) error { return nil }

func (c *ActiveHosts) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	reject := make([]bool, len(hosts))
	for i, host := range hosts {
		reject[i] = !host.ServiceEnabled || !host.ServiceUp
	}
	return rejectHosts(vars, reject), nil
}
