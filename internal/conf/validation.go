// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package conf

import "fmt"

// Check if the configuration is internally consistent.
func (c *config) Validate() error {
	solver := c.SolverConfig
	if solver.PulpSolverTimeoutSeconds <= 0 {
		return fmt.Errorf("pulpSolverTimeoutSeconds must be positive, got %d", solver.PulpSolverTimeoutSeconds)
	}
	for _, ratio := range []struct {
		name  string
		value float64
	}{
		{"ramAllocationRatio", solver.RAMAllocationRatio},
		{"diskAllocationRatio", solver.DiskAllocationRatio},
		{"cpuAllocationRatio", solver.CPUAllocationRatio},
	} {
		if ratio.value <= 0 {
			return fmt.Errorf("%s must be positive, got %f", ratio.name, ratio.value)
		}
	}
	seenCosts := make(map[string]bool, len(solver.Costs))
	for _, cost := range solver.Costs {
		if cost.Name == "" {
			return fmt.Errorf("solver_scheduler.costs entry is missing a name")
		}
		if seenCosts[cost.Name] {
			return fmt.Errorf("cost %s is activated more than once", cost.Name)
		}
		seenCosts[cost.Name] = true
	}
	seenConstraints := make(map[string]bool, len(solver.Constraints))
	for _, constraint := range solver.Constraints {
		if constraint.Name == "" {
			return fmt.Errorf("solver_scheduler.constraints entry is missing a name")
		}
		if seenConstraints[constraint.Name] {
			return fmt.Errorf("constraint %s is activated more than once", constraint.Name)
		}
		seenConstraints[constraint.Name] = true
	}
	return nil
}
