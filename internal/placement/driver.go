// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

import (
	"context"
	"fmt"
	"time"
)

// SolverDriver runs a Problem through the branch-and-bound solver
// under a wall-clock budget and translates the raw solver status into
// a list of Assignments or an error, the way pulp_solver.py's
// get_solution turns a PuLP status code into a scheduling decision.
type SolverDriver struct {
	timeout time.Duration
}

// NewSolverDriver builds a driver with the given wall-clock budget.
func NewSolverDriver(timeout time.Duration) *SolverDriver {
	return &SolverDriver{timeout: timeout}
}

// Solve runs the branch-and-bound search to completion or until the
// budget expires, then interprets the result:
//   - Optimal: the assignment matrix is parsed back into Assignments.
//   - Infeasible: no error, an empty Assignment slice.
//   - anything else (including a timeout, whether or not an incumbent
//     was found): a *SolverFailure naming the status.
func (d *SolverDriver) Solve(ctx context.Context, problem *Problem, req FilterProperties) ([]Assignment, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	result := solveMIP(ctx, len(problem.Objective), problem.Objective, problem.Rows)
	switch result.status {
	case StatusOptimal:
		return parseAssignments(problem.Hosts, problem.Vars, result.values, resolveInstanceUUIDs(req)), nil
	case StatusInfeasible:
		return nil, nil
	default:
		return nil, &SolverFailure{Status: result.status}
	}
}

// resolveInstanceUUIDs returns the request's instance identifiers in
// input order, defaulting to "(unknown_uuid)k" for the k-th instance
// when the caller did not supply any, matching pulp_solver.py's solve().
func resolveInstanceUUIDs(req FilterProperties) []string {
	if len(req.InstanceUUIDs) > 0 {
		return req.InstanceUUIDs
	}
	uuids := make([]string, req.NumInstances)
	for i := range uuids {
		uuids[i] = fmt.Sprintf("(unknown_uuid)%d", i)
	}
	return uuids
}

// parseAssignments walks the solved assignment matrix in host-key
// order and, for every host, draws as many instance identifiers as it
// has selected slots from the front of instanceUUIDs (input order).
// Mirrors pulp_solver.py's solve(): the structural row-monotonicity
// invariant guarantees a host's selected slots are always a prefix
// X[i][0..k-1], so counting the 1s per host row recovers exactly how
// many of the requested instances that host received.
func parseAssignments(hosts []Host, vars *VariableModel, values []float64, instanceUUIDs []string) []Assignment {
	assignments := make([]Assignment, 0, vars.NumSlots())
	next := 0
	for i := 0; i < vars.NumHosts(); i++ {
		count := 0
		for j := 0; j < vars.NumSlots(); j++ {
			idx := i*vars.NumSlots() + j
			if values[idx] > 0.5 {
				count++
			}
		}
		for k := 0; k < count; k++ {
			assignments = append(assignments, Assignment{
				Host:       hosts[i],
				InstanceID: instanceUUIDs[next],
			})
			next++
		}
	}
	return assignments
}
