// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// IsolatedHosts keeps isolated images on isolated hosts and, depending
// on configuration, the reverse. Grounded on
// linearconstraints/isolated_hosts_constraint.py: RestrictToIsolated
// mirrors restrict_isolated_hosts_to_isolated_images.
type IsolatedHosts struct {
	IsolatedImages  []string
	RestrictToIsolated bool
}

func NewIsolatedHosts() placement.Constraint { return &IsolatedHosts{} }

func (c *IsolatedHosts) Name() string { return "isolated_hosts" }

func (c *IsolatedHosts) Init(opts conf.RawOpts) error {
	var parsed struct {
		IsolatedImages      []string `json:"isolatedImages"`
		RestrictToIsolated *bool    `json:"restrictIsolatedHostsToIsolatedImages"`
	}
	if err := opts.Unmarshal(&parsed); err != nil {
		return err
	}
	c.IsolatedImages = parsed.IsolatedImages
	if parsed.RestrictToIsolated != nil {
		c.RestrictToIsolated = *parsed.RestrictToIsolated
	}
	return nil
}

func (c *IsolatedHosts) isIsolatedImage(imageRef string) bool {
	for _, id := range c.IsolatedImages {
		if id == imageRef {
			return true
		}
	}
	return false
}

func (c *IsolatedHosts) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	imageRef := req.ImageProperties["id"]
	imageIsolated := len(c.IsolatedImages) > 0 && c.isIsolatedImage(imageRef)

	isolatedHostSet := make(map[string]bool, len(req.IsolatedHosts))
	for _, h := range req.IsolatedHosts {
		isolatedHostSet[h] = true
	}

	reject := make([]bool, len(hosts))
	for i, host := range hosts {
		hostIsolated := isolatedHostSet[host.Name]
		var passes bool
		if len(c.IsolatedImages) == 0 {
			passes = !c.RestrictToIsolated || !hostIsolated
		} else if c.RestrictToIsolated {
			passes = imageIsolated == hostIsolated
		} else {
			passes = !imageIsolated || hostIsolated
		}
		reject[i] = !passes
	}
	return rejectHosts(vars, reject), nil
}
