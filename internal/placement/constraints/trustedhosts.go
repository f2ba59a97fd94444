// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// TrustedHosts restricts placement to hosts present in the request's
// trusted-host list when the flavor asks for a trust level at all.
// Grounded on linearconstraints/trusted_hosts_constraints.py, which
// in the original delegates to the attestation-backed TrustedFilter;
// here the attestation decision is expected to have already been
// folded into FilterProperties.TrustedHosts by the caller.
type TrustedHosts struct{}

func NewTrustedHosts() placement.Constraint { return &TrustedHosts{} }

func (c *TrustedHosts) Name() string               { return "trusted_hosts" }
func (c *TrustedHosts) Init(opts conf.RawOpts) error { return nil }

func (c *TrustedHosts) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	if _, required := req.InstanceType.ExtraSpecs["trust"]; !required {
		return placement.ConstraintContribution{}, nil
	}
	trusted := make(map[string]bool, len(req.TrustedHosts))
	for _, h := range req.TrustedHosts {
		trusted[h] = true
	}
	reject := make([]bool, len(hosts))
	for i, host := range hosts {
		reject[i] = !trusted[host.Name]
	}
	return rejectHosts(vars, reject), nil
}
