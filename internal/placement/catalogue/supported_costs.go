// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

// Package catalogue wires the concrete cost and constraint plugins
// into the registries the engine looks them up by name from. It is
// kept separate from package placement so the plugin packages can
// import the placement types without creating an import cycle back
// into this aggregator.
package catalogue

import (
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
	"github.com/cobaltcore-dev/placement-solver/internal/placement/costs"
)

// Configuration of cost plugins supported by the solver. The costs
// actually activated for a given deployment are named in the
// solver_scheduler.costs configuration list.
var supportedCosts = map[string]func() placement.Cost{
	"ram_cost":                        costs.NewRamCost,
	"metrics_cost":                    costs.NewMetricsCost,
	"ip_distance_cost":                costs.NewIPDistanceCost,
	"aggregate_network_affinity_cost": costs.NewAggregateNetworkAffinityCost,
}

// NewDefaultCostRegistry returns a CostRegistry pre-populated with
// every cost plugin this module ships.
func NewDefaultCostRegistry() *placement.CostRegistry {
	r := placement.NewCostRegistry()
	for name, factory := range supportedCosts {
		r.Register(name, factory)
	}
	return r
}
