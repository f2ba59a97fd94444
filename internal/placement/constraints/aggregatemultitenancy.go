// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"strings"

	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// AggregateMultitenancyIsolation restricts hosts in an aggregate
// tagged with filter_tenant_id to only that project's instances.
// Grounded on linearconstraints/aggregate_multitenancy_isolation.py.
type AggregateMultitenancyIsolation struct{}

func NewAggregateMultitenancyIsolation() placement.Constraint {
	return &AggregateMultitenancyIsolation{}
}

func (c *AggregateMultitenancyIsolation) Name() string               { return "aggregate_multitenancy_isolation" }
func (c *AggregateMultitenancyIsolation) Init(opts conf.RawOpts) error { return nil }

func (c *AggregateMultitenancyIsolation) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	reject := make([]bool, len(hosts))
	for i, host := range hosts {
		for _, agg := range host.Aggregates {
			allowed, ok := agg.Metadata["filter_tenant_id"]
			if !ok || allowed == "" {
				continue
			}
			if !strings.Contains(allowed, req.ProjectID) {
				reject[i] = true
				break
			}
		}
	}
	return rejectHosts(vars, reject), nil
}
