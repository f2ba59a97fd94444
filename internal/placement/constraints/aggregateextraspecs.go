// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"strings"

	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// AggregateInstanceExtraSpecs requires every aggregate_instance_extra_specs:-
// scoped extra spec on the requested flavor to be satisfied by at
// least one value in the matching aggregate metadata key, for every
// aggregate the host belongs to. Grounded on
// linearconstraints/aggregate_instance_extra_specs.py.
type AggregateInstanceExtraSpecs struct{}

func NewAggregateInstanceExtraSpecs() placement.Constraint { return &AggregateInstanceExtraSpecs{} }

func (c *AggregateInstanceExtraSpecs) Name() string               { return "aggregate_instance_extra_specs" }
func (c *AggregateInstanceExtraSpecs) Init(opts conf.RawOpts) error { return nil }

const aggregateExtraSpecsScope = "aggregate_instance_extra_specs"

func (c *AggregateInstanceExtraSpecs) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	extraSpecs := req.InstanceType.ExtraSpecs
	if len(extraSpecs) == 0 {
		return placement.ConstraintContribution{}, nil
	}
	reject := make([]bool, len(hosts))
	for i, host := range hosts {
		passes := true
	aggregateLoop:
		for _, agg := range host.Aggregates {
			for key, want := range extraSpecs {
				scope := strings.SplitN(key, ":", 2)
				name := key
				if len(scope) == 2 {
					if scope[0] != aggregateExtraSpecsScope {
						continue
					}
					name = scope[1]
				}
				values, ok := agg.Metadata[name]
				if !ok || !strings.Contains(values, want) {
					passes = false
					break aggregateLoop
				}
			}
		}
		reject[i] = !passes
	}
	return rejectHosts(vars, reject), nil
}
