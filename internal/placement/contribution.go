// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

import "github.com/cobaltcore-dev/placement-solver/internal/conf"

// Op is a row relational operator, used by constraint rows.
type Op string

const (
	OpEq Op = "=="
	OpNe Op = "!="
	OpLe Op = "<="
	OpLt Op = "<"
	OpGe Op = ">="
	OpGt Op = ">"
)

// CostContribution is one cost plugin's contribution to the objective:
// a sparse linear combination over a subset of the variable grid's
// names, scaled by Multiplier before being summed into the objective.
type CostContribution struct {
	Vars        []string
	Coefficients []float64
	Multiplier  float64
}

// ConstraintContribution is one constraint plugin's contribution: any
// number of rows, each a sparse linear combination compared against a
// constant via Op.
type ConstraintContribution struct {
	Vars         [][]string
	Coefficients [][]float64
	Consts       []float64
	Ops          []Op
}

// Cost is implemented by plugins that shape the objective function.
// Init is called once per activation with the plugin's configured
// options; Compute is called once per Solve call.
type Cost interface {
	Init(opts conf.RawOpts) error
	Name() string
	Compute(hosts []Host, req FilterProperties, vars *VariableModel) (CostContribution, error)
}

// Constraint is implemented by plugins that restrict the feasible
// region. Init is called once per activation with the plugin's
// configured options; Compute is called once per Solve call.
type Constraint interface {
	Init(opts conf.RawOpts) error
	Name() string
	Compute(hosts []Host, req FilterProperties, vars *VariableModel) (ConstraintContribution, error)
}
