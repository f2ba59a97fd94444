// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

import (
	"fmt"
	"math"
	"time"
)

// activeCost pairs a constructed cost plugin with the name it was
// activated under.
type activeCost struct {
	name   string
	plugin Cost
}

// activeConstraint pairs a constructed constraint plugin with the
// name it was activated under.
type activeConstraint struct {
	name   string
	plugin Constraint
}

// Problem is the fully assembled 0/1 ILP: a flat objective vector and
// a list of linear rows over the same variable index space, built by
// the Problem Builder from the current hosts, request, and activated
// plugin set.
type Problem struct {
	Hosts     []Host
	Vars      *VariableModel
	VarIndex  map[string]int
	Objective []float64
	Rows      []lpRow
}

// ProblemBuilder assembles a Problem for one Solve call out of the
// activated cost and constraint plugins. It owns no per-call state:
// a single builder can be reused across concurrent Solve calls.
type ProblemBuilder struct {
	costs       []activeCost
	constraints []activeConstraint
	monitor     *SolverMonitor
}

// NewProblemBuilder constructs a builder from the plugin instances the
// engine has already activated (Init already called on each). monitor
// may be nil.
func NewProblemBuilder(costs []activeCost, constraints []activeConstraint, monitor *SolverMonitor) *ProblemBuilder {
	return &ProblemBuilder{costs: costs, constraints: constraints, monitor: monitor}
}

func hostSlotKeys(numHosts, numSlots int) (hostKeys, slotKeys []string) {
	hostKeys = make([]string, numHosts)
	for i := range hostKeys {
		hostKeys[i] = fmt.Sprintf("Host%d", i)
	}
	slotKeys = make([]string, numSlots)
	for j := range slotKeys {
		slotKeys[j] = fmt.Sprintf("InstanceNum%d", j)
	}
	return hostKeys, slotKeys
}

// normalizeCoefficients scales a single cost's raw coefficient vector
// into the fixed span [-1, 1] by dividing through by the largest
// absolute value present, so that costs measured in unrelated units
// (RAM megabytes, IP-distance integers, raw metric ratios) contribute
// comparably to the objective before their multipliers are applied.
// An all-zero vector (a cost with nothing to contribute) is returned
// unchanged. This runs once per cost, ahead of the secondary,
// whole-matrix shapeCostMatrix step below.
func normalizeCoefficients(coefs []float64) []float64 {
	maxAbs := 0.0
	for _, c := range coefs {
		if abs := math.Abs(c); abs > maxAbs {
			maxAbs = abs
		}
	}
	if maxAbs == 0 {
		return coefs
	}
	normalized := make([]float64, len(coefs))
	for i, c := range coefs {
		normalized[i] = c / maxAbs
	}
	return normalized
}

// shapeCostMatrix applies the cost-shaping step the nova-solver-
// scheduler blueprint's PulpSolver uses to turn an additive,
// potentially unbounded cost sum into a matrix that biases the
// optimum towards filling hosts from one end of each row: compare the
// total cost of packing every host's first slot against its last
// slot, pick an offset (the row-wise minimum or maximum of the first
// column) and a sign accordingly, then replace every cell with
// sign*(cell-offset)^2. This is ported verbatim from
// _calculate_host_instance_cost_matrix and is load-bearing: changing
// it changes which solutions tie for optimal.
func shapeCostMatrix(matrix [][]float64) [][]float64 {
	if len(matrix) == 0 || len(matrix[0]) == 0 {
		return matrix
	}
	firstColSum, lastColSum := 0.0, 0.0
	firstCol := make([]float64, len(matrix))
	lastCol := len(matrix[0]) - 1
	for i, row := range matrix {
		firstCol[i] = row[0]
		firstColSum += row[0]
		lastColSum += row[lastCol]
	}

	var offset float64
	var sign float64
	if firstColSum < lastColSum {
		offset = firstCol[0]
		for _, v := range firstCol {
			if v < offset {
				offset = v
			}
		}
		sign = 1
	} else {
		offset = firstCol[0]
		for _, v := range firstCol {
			if v > offset {
				offset = v
			}
		}
		sign = -1
	}

	for i := range matrix {
		for j := range matrix[i] {
			d := matrix[i][j] - offset
			matrix[i][j] = sign * d * d
		}
	}
	return matrix
}

// Build assembles the Problem for one Solve call. hosts and req are
// read-only except for the capacity constraints' write to
// host.Limits, which Compute performs in place on the hosts slice.
func (b *ProblemBuilder) Build(hosts []Host, req FilterProperties) (*Problem, error) {
	numHosts := len(hosts)
	numSlots := req.NumInstances
	hostKeys, slotKeys := hostSlotKeys(numHosts, numSlots)
	vars := NewVariableModel(hostKeys, slotKeys)

	varIndex := make(map[string]int, numHosts*numSlots)
	for idx, name := range vars.All() {
		varIndex[name] = idx
	}
	numVars := len(varIndex)

	costMatrix := make([][]float64, numHosts)
	for i := range costMatrix {
		costMatrix[i] = make([]float64, numSlots)
	}
	for _, ac := range b.costs {
		pluginStart := time.Now()
		contrib, err := ac.plugin.Compute(hosts, req, vars)
		b.monitor.ObservePlugin("cost", ac.name, time.Since(pluginStart))
		if err != nil {
			return nil, fmt.Errorf("cost %s: %w", ac.name, err)
		}
		normalized := normalizeCoefficients(contrib.Coefficients)
		for k, name := range contrib.Vars {
			i, j, ok := vars.Lookup(name)
			if !ok {
				return nil, fmt.Errorf("cost %s: unknown variable %q", ac.name, name)
			}
			costMatrix[i][j] += normalized[k] * contrib.Multiplier
		}
	}
	costMatrix = shapeCostMatrix(costMatrix)

	objective := make([]float64, numVars)
	for i, row := range costMatrix {
		for j, v := range row {
			objective[varIndex[vars.Name(i, j)]] = v
		}
	}

	var rows []lpRow
	rows = append(rows, assignmentRows(vars, varIndex)...)
	rows = append(rows, rowMonotonicityRows(vars, varIndex)...)

	for _, ac := range b.constraints {
		pluginStart := time.Now()
		contrib, err := ac.plugin.Compute(hosts, req, vars)
		b.monitor.ObservePlugin("constraint", ac.name, time.Since(pluginStart))
		if err != nil {
			return nil, fmt.Errorf("constraint %s: %w", ac.name, err)
		}
		for r := range contrib.Ops {
			coeffs := make([]float64, numVars)
			for k, name := range contrib.Vars[r] {
				idx, ok := varIndex[name]
				if !ok {
					return nil, fmt.Errorf("constraint %s: unknown variable %q", ac.name, name)
				}
				coeffs[idx] += contrib.Coefficients[r][k]
			}
			rows = append(rows, lpRow{coeffs: coeffs, op: contrib.Ops[r], rhs: contrib.Consts[r]})
		}
	}

	return &Problem{Hosts: hosts, Vars: vars, VarIndex: varIndex, Objective: objective, Rows: rows}, nil
}

// assignmentRows is the structural constraint Σ_i X[i][j] == 1 for
// every slot j: every requested instance lands on exactly one host.
// It is always active and is wired directly here rather than through
// the Constraint Registry, since no deployment may disable it.
func assignmentRows(vars *VariableModel, varIndex map[string]int) []lpRow {
	numVars := len(varIndex)
	rows := make([]lpRow, 0, vars.NumSlots())
	for j := 0; j < vars.NumSlots(); j++ {
		coeffs := make([]float64, numVars)
		for i := 0; i < vars.NumHosts(); i++ {
			coeffs[varIndex[vars.Name(i, j)]] = 1
		}
		rows = append(rows, lpRow{coeffs: coeffs, op: OpEq, rhs: 1})
	}
	return rows
}

// rowMonotonicityRows is the structural canonicalization invariant
// X[i][0] >= X[i][1] >= ... >= X[i][N-1] for every host i: it breaks
// the symmetry between the N interchangeable instance slots so the
// search space shrinks from N! equivalent labelings per host to one.
// Always active, wired directly for the same reason as the
// assignment rows.
func rowMonotonicityRows(vars *VariableModel, varIndex map[string]int) []lpRow {
	numVars := len(varIndex)
	var rows []lpRow
	for i := 0; i < vars.NumHosts(); i++ {
		for j := 0; j < vars.NumSlots()-1; j++ {
			coeffs := make([]float64, numVars)
			coeffs[varIndex[vars.Name(i, j)]] = 1
			coeffs[varIndex[vars.Name(i, j+1)]] = -1
			rows = append(rows, lpRow{coeffs: coeffs, op: OpGe, rhs: 0})
		}
	}
	return rows
}
