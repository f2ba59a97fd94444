// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// Retry excludes hosts that a prior scheduling attempt for this
// request already tried. Grounded on
// linearconstraints/retry_constraint.py.
type Retry struct{}

func NewRetry() placement.Constraint { return &Retry{} }

func (c *Retry) Name() string               { return "retry" }
func (c *Retry) Init(opts conf.RawOpts) error { return nil }

func (c *Retry) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	if len(req.RetryHosts) == 0 {
		return placement.ConstraintContribution{}, nil
	}
	attempted := make(map[string]bool, len(req.RetryHosts))
	for _, h := range req.RetryHosts {
		attempted[h] = true
	}
	reject := make([]bool, len(hosts))
	for i, host := range hosts {
		reject[i] = attempted[host.Name]
	}
	return rejectHosts(vars, reject), nil
}
