// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

import (
	"errors"
	"fmt"
)

var errPCIRequestUnsatisfiable = errors.New("pci request cannot be satisfied by the given stats")

// SolverFailure is raised when the branch-and-bound search terminates
// in a status other than optimal or infeasible (timed out, aborted, or
// hit an internal inconsistency). An infeasible problem is not an
// error: it is reported as an empty assignment list.
type SolverFailure struct {
	Status string
}

func (e *SolverFailure) Error() string {
	return fmt.Sprintf("solver did not reach an optimal solution: status=%s", e.Status)
}
