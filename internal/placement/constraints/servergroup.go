// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

func hasPolicy(policies []placement.GroupPolicy, want placement.GroupPolicy) bool {
	for _, p := range policies {
		if p == want {
			return true
		}
	}
	return false
}

func groupHostSet(groupHosts []string) map[string]bool {
	set := make(map[string]bool, len(groupHosts))
	for _, h := range groupHosts {
		set[h] = true
	}
	return set
}

// ServerGroupAffinity implements the affinity leg of a server group
// placement policy. Grounded on
// constraints/server_group_affinity_constraint.py: when the group has
// no hosts yet, it emits the coupling row that only admits solutions
// where all N requested instances land on the same host; once the
// group already owns hosts, placement is restricted to those hosts.
type ServerGroupAffinity struct{}

func NewServerGroupAffinity() placement.Constraint { return &ServerGroupAffinity{} }

func (c *ServerGroupAffinity) Name() string               { return "server_group_affinity" }
func (c *ServerGroupAffinity) Init(opts conf.RawOpts) error { return nil }

func (c *ServerGroupAffinity) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	var contrib placement.ConstraintContribution
	if !hasPolicy(req.GroupPolicies, placement.GroupPolicyAffinity) {
		return contrib, nil
	}
	numSlots := vars.NumSlots()

	if len(req.GroupHosts) == 0 {
		for i := range hosts {
			row := make([]string, numSlots)
			coefs := make([]float64, numSlots)
			for j := 0; j < numSlots; j++ {
				row[j] = vars.Name(i, j)
				if j == 0 {
					coefs[j] = float64(1 - numSlots)
				} else {
					coefs[j] = 1
				}
			}
			contrib.Vars = append(contrib.Vars, row)
			contrib.Coefficients = append(contrib.Coefficients, coefs)
			contrib.Consts = append(contrib.Consts, 0)
			contrib.Ops = append(contrib.Ops, placement.OpEq)
		}
		return contrib, nil
	}

	set := groupHostSet(req.GroupHosts)
	reject := make([]bool, len(hosts))
	for i, host := range hosts {
		reject[i] = !set[host.Name]
	}
	return rejectHosts(vars, reject), nil
}

// ServerGroupAntiAffinity implements the anti-affinity leg: hosts
// already in the group are rejected outright, and every remaining
// host is capped to at most one of the requested instances. Grounded
// on constraints/server_group_affinity_constraint.py.
type ServerGroupAntiAffinity struct{}

func NewServerGroupAntiAffinity() placement.Constraint { return &ServerGroupAntiAffinity{} }

func (c *ServerGroupAntiAffinity) Name() string               { return "server_group_anti_affinity" }
func (c *ServerGroupAntiAffinity) Init(opts conf.RawOpts) error { return nil }

func (c *ServerGroupAntiAffinity) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	var contrib placement.ConstraintContribution
	if !hasPolicy(req.GroupPolicies, placement.GroupPolicyAntiAffinity) {
		return contrib, nil
	}
	numSlots := vars.NumSlots()
	set := groupHostSet(req.GroupHosts)

	for i, host := range hosts {
		if set[host.Name] {
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
			coefs[j] = 1
		}
		contrib.Vars = append(contrib.Vars, row)
		contrib.Coefficients = append(contrib.Coefficients, coefs)
		contrib.Consts = append(contrib.Consts, 1)
		contrib.Ops = append(contrib.Ops, placement.OpLe)
	}
	return contrib, nil
}
