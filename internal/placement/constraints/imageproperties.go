// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"strings"

	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// ImageProperties rejects hosts whose advertised supported_instances
// (architecture, hypervisor type, vm mode triples) don't cover what
// the requested image asks for. Grounded on
// linearconstraints/image_props_constraint.py; the blueprint's
// additional hypervisor-version predicate match is out of scope and
// left to the hypervisor_version-aware caller to pre-filter.
type ImageProperties struct{}

func NewImageProperties() placement.Constraint { return &ImageProperties{} }

func (c *ImageProperties) Name() string               { return "image_properties" }
func (c *ImageProperties) Init(opts conf.RawOpts) error { return nil }

// instanceSupported mirrors _compare_props: each supported entry is a
// "arch:hypervisor_type:vm_mode" triple, and a non-empty wanted value
// is satisfied if it appears anywhere among that triple's three
// fields (a membership test, not a positional match, exactly as the
// blueprint implements it).
func instanceSupported(supported []string, wanted []string) bool {
	any := false
	for _, w := range wanted {
		if w != "" {
			any = true
		}
	}
	if !any {
		return true
	}
	if len(supported) == 0 {
		return false
	}
	for _, s := range supported {
		fields := strings.Split(s, ":")
		match := true
		for _, w := range wanted {
			if w == "" {
				continue
			}
			found := false
			for _, f := range fields {
				if f == w {
					found = true
					break
				}
			}
			if !found {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func (c *ImageProperties) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	wanted := []string{
		req.ImageProperties["architecture"],
		req.ImageProperties["hypervisor_type"],
		req.ImageProperties["vm_mode"],
	}
	reject := make([]bool, len(hosts))
	for i, host := range hosts {
		reject[i] = !instanceSupported(host.SupportedInstances, wanted)
	}
	return rejectHosts(vars, reject), nil
}
