// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

import (
	"context"
	"testing"
	"time"
)

func TestSolverDriverSolveOptimalParsesAssignments(t *testing.T) {
	vars := NewVariableModel([]string{"Host0", "Host1"}, []string{"InstanceNum0"})
	hosts := []Host{{Name: "host-a"}, {Name: "host-b"}}
	problem := &Problem{
		Hosts:     hosts,
		Vars:      vars,
		VarIndex:  map[string]int{vars.Name(0, 0): 0, vars.Name(1, 0): 1},
		Objective: []float64{5, 1},
		Rows: []lpRow{
			{coeffs: []float64{1, 1}, op: OpEq, rhs: 1},
		},
	}

	driver := NewSolverDriver(time.Second)
	req := FilterProperties{NumInstances: 1, InstanceUUIDs: []string{"instance-uuid-1"}}
	assignments, err := driver.Solve(context.Background(), problem, req)
	if err != nil {
		t.Fatalf("Solve returned an error: %v", err)
	}
	if len(assignments) != 1 {
		t.Fatalf("len(assignments) = %d, want 1", len(assignments))
	}
	if assignments[0].Host.Name != "host-b" {
		t.Fatalf("assignments[0].Host.Name = %q, want %q (the cheaper host)", assignments[0].Host.Name, "host-b")
	}
	if assignments[0].InstanceID != "instance-uuid-1" {
		t.Fatalf("assignments[0].InstanceID = %q, want %q", assignments[0].InstanceID, "instance-uuid-1")
	}
}

func TestSolverDriverSolveDefaultsMissingInstanceUUIDs(t *testing.T) {
	vars := NewVariableModel([]string{"Host0"}, []string{"InstanceNum0", "InstanceNum1"})
	problem := &Problem{
		Hosts:     []Host{{Name: "host-a"}},
		Vars:      vars,
		VarIndex:  map[string]int{vars.Name(0, 0): 0, vars.Name(0, 1): 1},
		Objective: []float64{1, 1},
		Rows: []lpRow{
			{coeffs: []float64{1, 0}, op: OpEq, rhs: 1},
			{coeffs: []float64{0, 1}, op: OpEq, rhs: 1},
		},
	}

	driver := NewSolverDriver(time.Second)
	req := FilterProperties{NumInstances: 2}
	assignments, err := driver.Solve(context.Background(), problem, req)
	if err != nil {
		t.Fatalf("Solve returned an error: %v", err)
	}
	if len(assignments) != 2 {
		t.Fatalf("len(assignments) = %d, want 2", len(assignments))
	}
	if assignments[0].InstanceID != "(unknown_uuid)0" || assignments[1].InstanceID != "(unknown_uuid)1" {
		t.Fatalf("InstanceIDs = [%q %q], want [(unknown_uuid)0 (unknown_uuid)1]",
			assignments[0].InstanceID, assignments[1].InstanceID)
	}
}

func TestSolverDriverSolveDrawsInstancesInHostKeyOrderWithMultiplicity(t *testing.T) {
	// Two hosts, three slots. Every variable is pinned directly so the
	// solved assignment is host-a: slot0, slot1 (2 instances) and
	// host-b: slot2 (1 instance), regardless of the objective.
	// Instance identifiers must be handed out in input order,
	// host-key order, with multiplicity equal to each host's selected
	// slot count.
	vars := NewVariableModel([]string{"Host0", "Host1"}, []string{"InstanceNum0", "InstanceNum1", "InstanceNum2"})
	varIndex := map[string]int{
		vars.Name(0, 0): 0, vars.Name(0, 1): 1, vars.Name(0, 2): 2,
		vars.Name(1, 0): 3, vars.Name(1, 1): 4, vars.Name(1, 2): 5,
	}
	pin := func(idx int, value float64) lpRow {
		coeffs := make([]float64, 6)
		coeffs[idx] = 1
		return lpRow{coeffs: coeffs, op: OpEq, rhs: value}
	}
	problem := &Problem{
		Hosts:     []Host{{Name: "host-a"}, {Name: "host-b"}},
		Vars:      vars,
		VarIndex:  varIndex,
		Objective: []float64{0, 0, 0, 0, 0, 0},
		Rows: []lpRow{
			pin(0, 1), pin(1, 1), pin(2, 0), // host-a: slot0=1, slot1=1, slot2=0
			pin(3, 0), pin(4, 0), pin(5, 1), // host-b: slot0=0, slot1=0, slot2=1
		},
	}

	driver := NewSolverDriver(time.Second)
	req := FilterProperties{NumInstances: 3, InstanceUUIDs: []string{"uuid-a", "uuid-b", "uuid-c"}}
	assignments, err := driver.Solve(context.Background(), problem, req)
	if err != nil {
		t.Fatalf("Solve returned an error: %v", err)
	}
	if len(assignments) != 3 {
		t.Fatalf("len(assignments) = %d, want 3", len(assignments))
	}
	if assignments[0].Host.Name != "host-a" || assignments[0].InstanceID != "uuid-a" {
		t.Fatalf("assignments[0] = %+v, want host-a/uuid-a", assignments[0])
	}
	if assignments[1].Host.Name != "host-a" || assignments[1].InstanceID != "uuid-b" {
		t.Fatalf("assignments[1] = %+v, want host-a/uuid-b", assignments[1])
	}
	if assignments[2].Host.Name != "host-b" || assignments[2].InstanceID != "uuid-c" {
		t.Fatalf("assignments[2] = %+v, want host-b/uuid-c", assignments[2])
	}
}

func TestSolverDriverSolveInfeasibleReturnsNoError(t *testing.T) {
	vars := NewVariableModel([]string{"Host0"}, []string{"InstanceNum0"})
	problem := &Problem{
		Hosts:     []Host{{Name: "host-a"}},
		Vars:      vars,
		VarIndex:  map[string]int{vars.Name(0, 0): 0},
		Objective: []float64{1},
		Rows: []lpRow{
			{coeffs: []float64{1}, op: OpEq, rhs: 1},
			{coeffs: []float64{1}, op: OpEq, rhs: 0},
		},
	}

	driver := NewSolverDriver(time.Second)
	assignments, err := driver.Solve(context.Background(), problem, FilterProperties{NumInstances: 1})
	if err != nil {
		t.Fatalf("Solve returned an error for an infeasible problem: %v", err)
	}
	if len(assignments) != 0 {
		t.Fatalf("len(assignments) = %d, want 0", len(assignments))
	}
}

func TestSolverDriverSolveTimeoutWithoutIncumbentFails(t *testing.T) {
	vars := NewVariableModel([]string{"Host0"}, []string{"InstanceNum0"})
	problem := &Problem{
		Hosts:     []Host{{Name: "host-a"}},
		Vars:      vars,
		VarIndex:  map[string]int{vars.Name(0, 0): 0},
		Objective: []float64{1},
		Rows: []lpRow{
			{coeffs: []float64{1}, op: OpEq, rhs: 1},
			{coeffs: []float64{1}, op: OpEq, rhs: 0},
		},
	}

	driver := NewSolverDriver(time.Nanosecond)
	time.Sleep(time.Millisecond)
	_, err := driver.Solve(context.Background(), problem, FilterProperties{NumInstances: 1})
	if err == nil {
		t.Fatal("expected a SolverFailure for a timed-out, incumbent-less search")
	}
	failure, ok := err.(*SolverFailure)
	if !ok {
		t.Fatalf("err = %v (%T), want *SolverFailure", err, err)
	}
	if failure.Status != StatusNotSolved {
		t.Fatalf("failure.Status = %q, want %q", failure.Status, StatusNotSolved)
	}
}
