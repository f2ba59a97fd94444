// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"strings"

	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// ComputeCapabilities rejects hosts that don't satisfy the requested
// flavor's capabilities:-scoped extra specs. Grounded on
// linearconstraints/compute_capabilities_constraint.py; simplified to
// exact string match since the blueprint's extra_specs_ops comparator
// (<=, >=, s==, etc.) is out of scope here.
type ComputeCapabilities struct{}

func NewComputeCapabilities() placement.Constraint { return &ComputeCapabilities{} }

func (c *ComputeCapabilities) Name() string               { return "compute_capabilities" }
func (c *ComputeCapabilities) Init(opts conf.RawOpts) error { return nil }

func satisfiesCapabilities(metadata map[string]string, extraSpecs map[string]string) bool {
	for key, want := range extraSpecs {
		scope := strings.SplitN(key, ":", 2)
		name := key
		if len(scope) == 2 {
			if scope[0] != "capabilities" {
				continue
			}
			name = scope[1]
		}
		if metadata[name] != want {
			return false
		}
	}
	return true
}

func (c *ComputeCapabilities) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	extraSpecs := req.InstanceType.ExtraSpecs
	if len(extraSpecs) == 0 {
		return placement.ConstraintContribution{}, nil
	}
	reject := make([]bool, len(hosts))
	for i, host := range hosts {
		metadata := make(map[string]string)
		for _, agg := range host.Aggregates {
			for k, v := range agg.Metadata {
				metadata[k] = v
			}
		}
		reject[i] = !satisfiesCapabilities(metadata, extraSpecs)
	}
	return rejectHosts(vars, reject), nil
}
