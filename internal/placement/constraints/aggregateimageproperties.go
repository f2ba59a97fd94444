// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"strings"

	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// AggregateImagePropertiesIsolation rejects a host when one of its
// aggregates' namespaced metadata keys names an option list that
// conflicts with the requested image's matching property. Grounded
// on linearconstraints/aggregate_image_properties_isolation.py.
type AggregateImagePropertiesIsolation struct {
	Namespace string
	Separator string
}

func NewAggregateImagePropertiesIsolation() placement.Constraint {
	return &AggregateImagePropertiesIsolation{Separator: "."}
}

func (c *AggregateImagePropertiesIsolation) Name() string {
	return "aggregate_image_properties_isolation"
}

func (c *AggregateImagePropertiesIsolation) Init(opts conf.RawOpts) error {
	var parsed struct {
		Namespace string  `json:"namespace"`
		Separator *string `json:"separator"`
	}
	if err := opts.Unmarshal(&parsed); err != nil {
		return err
	}
	c.Namespace = parsed.Namespace
	c.Separator = "."
	if parsed.Separator != nil {
		c.Separator = *parsed.Separator
	}
	return nil
}

func (c *AggregateImagePropertiesIsolation) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	reject := make([]bool, len(hosts))
	for i, host := range hosts {
		passes := true
	aggregateLoop:
		for _, agg := range host.Aggregates {
			for key, options := range agg.Metadata {
				if c.Namespace != "" && !strings.HasPrefix(key, c.Namespace+c.Separator) {
					continue
				}
				prop, ok := req.ImageProperties[key]
				if ok && prop != "" && !strings.Contains(options, prop) {
					passes = false
					break aggregateLoop
				}
			}
		}
		reject[i] = !passes
	}
	return rejectHosts(vars, reject), nil
}
