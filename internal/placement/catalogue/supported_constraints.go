// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package catalogue

import (
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
	"github.com/cobaltcore-dev/placement-solver/internal/placement/constraints"
)

// Configuration of constraint plugins supported by the solver. The
// constraints actually activated for a given deployment are named in
// the solver_scheduler.constraints configuration list. The structural
// Assignment and row-monotonicity constraints are never looked up
// here: the Problem Builder wires them directly and they cannot be
// turned off.
var supportedConstraints = map[string]func() placement.Constraint{
	"active_hosts":                        constraints.NewActiveHosts,
	"ram":                                 constraints.NewRAM,
	"disk":                                constraints.NewDisk,
	"vcpu":                                constraints.NewVCPU,
	"num_instances_per_host":              constraints.NewNumInstancesPerHost,
	"num_networks_per_rack":               constraints.NewNumNetworksPerRack,
	"type_affinity":                       constraints.NewTypeAffinity,
	"retry":                               constraints.NewRetry,
	"trusted_hosts":                       constraints.NewTrustedHosts,
	"isolated_hosts":                      constraints.NewIsolatedHosts,
	"compute_capabilities":                constraints.NewComputeCapabilities,
	"image_properties":                    constraints.NewImageProperties,
	"aggregate_multitenancy_isolation":     constraints.NewAggregateMultitenancyIsolation,
	"aggregate_instance_extra_specs":       constraints.NewAggregateInstanceExtraSpecs,
	"aggregate_image_properties_isolation": constraints.NewAggregateImagePropertiesIsolation,
	"pci_passthrough":                      constraints.NewPCIPassthrough,
	"metrics_availability":                 constraints.NewMetricsAvailability,
	"server_group_affinity":                constraints.NewServerGroupAffinity,
	"server_group_anti_affinity":           constraints.NewServerGroupAntiAffinity,
}

// NewDefaultConstraintRegistry returns a ConstraintRegistry
// pre-populated with every constraint plugin this module ships.
func NewDefaultConstraintRegistry() *placement.ConstraintRegistry {
	r := placement.NewConstraintRegistry()
	for name, factory := range supportedConstraints {
		r.Register(name, factory)
	}
	return r
}
