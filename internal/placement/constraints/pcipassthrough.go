// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// PCIPassthrough rejects hosts whose PCI device pools cannot support
// the request's PCI device requests. Grounded on
// linearconstraints/pci_passthrough_constraint.py.
type PCIPassthrough struct{}

func NewPCIPassthrough() placement.Constraint { return &PCIPassthrough{} }

func (c *PCIPassthrough) Name() string               { return "pci_passthrough" }
func (c *PCIPassthrough) Init(opts conf.RawOpts) error { return nil }

func (c *PCIPassthrough) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.ConstraintContribution, error) {
	if len(req.PCIRequests) == 0 {
		return placement.ConstraintContribution{}, nil
	}
	reject := make([]bool, len(hosts))
	for i, host := range hosts {
		reject[i] = !placement.SupportPCIRequests(host.PCIStats, req.PCIRequests)
	}
	return rejectHosts(vars, reject), nil
}
