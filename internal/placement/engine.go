// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

import (
	"context"
	"fmt"
	"time"

	"github.com/cobaltcore-dev/placement-solver/internal/conf"
)

// Engine ties the Constraint/Cost registries, the Problem Builder, and
// the Solver Driver together into the single entrypoint the API
// handler calls per scheduling request. One Engine is built once at
// startup from the static solver_scheduler configuration and is safe
// for concurrent use: Solve builds a fresh Problem and VariableModel
// for every call and never shares mutable state across calls.
type Engine struct {
	costs       []activeCost
	constraints []activeConstraint
	timeout     time.Duration
	monitor     *SolverMonitor
}

// NewEngine activates the cost and constraint plugins named in cfg
// against the given registries and returns a ready-to-use Engine.
// monitor may be nil, in which case no metrics are recorded.
func NewEngine(cfg conf.SolverConfig, costRegistry *CostRegistry, constraintRegistry *ConstraintRegistry, monitor *SolverMonitor) (*Engine, error) {
	costs := make([]activeCost, 0, len(cfg.Costs))
	for _, c := range cfg.Costs {
		plugin, err := costRegistry.New(c.Name)
		if err != nil {
			return nil, fmt.Errorf("activating cost %s: %w", c.Name, err)
		}
		if err := plugin.Init(c.Options); err != nil {
			return nil, fmt.Errorf("initializing cost %s: %w", c.Name, err)
		}
		costs = append(costs, activeCost{name: c.Name, plugin: plugin})
	}

	constraints := make([]activeConstraint, 0, len(cfg.Constraints))
	for _, c := range cfg.Constraints {
		plugin, err := constraintRegistry.New(c.Name)
		if err != nil {
			return nil, fmt.Errorf("activating constraint %s: %w", c.Name, err)
		}
		if err := plugin.Init(c.Options); err != nil {
			return nil, fmt.Errorf("initializing constraint %s: %w", c.Name, err)
		}
		constraints = append(constraints, activeConstraint{name: c.Name, plugin: plugin})
	}

	return &Engine{
		costs:       costs,
		constraints: constraints,
		timeout:     time.Duration(cfg.PulpSolverTimeoutSeconds) * time.Second,
		monitor:     monitor,
	}, nil
}

// Solve builds the placement problem for the given hosts and request
// and runs it to a scheduling decision. An empty, nil-error result
// means the problem was feasible to prove infeasible: no host
// combination satisfies every active constraint.
func (e *Engine) Solve(ctx context.Context, hosts []Host, req FilterProperties) ([]Assignment, error) {
	start := time.Now()
	if req.NumInstances <= 0 || len(hosts) == 0 {
		return nil, nil
	}

	builder := NewProblemBuilder(e.costs, e.constraints, e.monitor)
	problem, err := builder.Build(hosts, req)
	if err != nil {
		e.monitor.ObserveSolve("error", time.Since(start))
		return nil, fmt.Errorf("building placement problem: %w", err)
	}

	driver := NewSolverDriver(e.timeout)
	assignments, err := driver.Solve(ctx, problem, req)
	switch {
	case err != nil:
		e.monitor.ObserveSolve("error", time.Since(start))
	case len(assignments) == 0:
		e.monitor.ObserveSolve(StatusInfeasible, time.Since(start))
	default:
		e.monitor.ObserveSolve(StatusOptimal, time.Since(start))
	}
	return assignments, err
}
