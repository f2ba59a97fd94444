// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

// Package constraints collects the constraint plugins shipped with the
// placement engine. Each file mirrors one of the nova-solver-scheduler
// blueprint's solvers/linearconstraints (or, where only a non-linear
// equivalent existed, solvers/constraints) modules, reworked into the
// engine's contribution protocol.
package constraints

import "github.com/cobaltcore-dev/placement-solver/internal/placement"

// rejectHosts builds the standard host-rejection shape every
// blueprint filter-style constraint shares: for every host i that
// fails, zero out every slot in that row with an X[i][j] == 0 row.
// Hosts that pass contribute nothing.
func rejectHosts(vars *placement.VariableModel, reject []bool) placement.ConstraintContribution {
	var contrib placement.ConstraintContribution
	numSlots := vars.NumSlots()
	for i, rejected := range reject {
		if !rejected {
			continue
		}
		for j := 0; j < numSlots; j++ {
			contrib.Vars = append(contrib.Vars, []string{vars.Name(i, j)})
			contrib.Coefficients = append(contrib.Coefficients, []float64{1})
			contrib.Consts = append(contrib.Consts, 0)
			contrib.Ops = append(contrib.Ops, placement.OpEq)
		}
	}
	return contrib
}
