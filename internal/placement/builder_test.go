// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

import (
	"math"
	"testing"

	"github.com/cobaltcore-dev/placement-solver/internal/conf"
)

// fixedCost reports the same coefficient for every variable,
// regardless of hosts or request, for exercising the builder without
// depending on a real plugin's policy.
type fixedCost struct{ coeff float64 }

func (c *fixedCost) Name() string          { return "fixed_cost" }
func (c *fixedCost) Init(conf.RawOpts) error { return nil }
func (c *fixedCost) Compute(hosts []Host, req FilterProperties, vars *VariableModel) (CostContribution, error) {
	names := vars.All()
	coeffs := make([]float64, len(names))
	for i := range coeffs {
		coeffs[i] = c.coeff
	}
	return CostContribution{Vars: names, Coefficients: coeffs, Multiplier: 1}, nil
}

// rejectFirstHost is a minimal constraint plugin used to verify the
// builder correctly folds named-variable constraint rows into the
// problem's index space.
type rejectFirstHost struct{}

func (c *rejectFirstHost) Name() string          { return "reject_first_host" }
func (c *rejectFirstHost) Init(conf.RawOpts) error { return nil }
func (c *rejectFirstHost) Compute(hosts []Host, req FilterProperties, vars *VariableModel) (ConstraintContribution, error) {
	var contrib ConstraintContribution
	for j := 0; j < vars.NumSlots(); j++ {
		contrib.Vars = append(contrib.Vars, []string{vars.Name(0, j)})
		contrib.Coefficients = append(contrib.Coefficients, []float64{1})
		contrib.Consts = append(contrib.Consts, 0)
		contrib.Ops = append(contrib.Ops, OpEq)
	}
	return contrib, nil
}

func testHosts(n int) []Host {
	hosts := make([]Host, n)
	for i := range hosts {
		hosts[i] = Host{Name: "host" + string(rune('a'+i))}
	}
	return hosts
}

func TestProblemBuilderBuildAssemblesRowsAndObjective(t *testing.T) {
	builder := NewProblemBuilder(
		[]activeCost{{name: "fixed_cost", plugin: &fixedCost{coeff: 2}}},
		[]activeConstraint{{name: "reject_first_host", plugin: &rejectFirstHost{}}},
		nil,
	)
	hosts := testHosts(2)
	req := FilterProperties{NumInstances: 2}

	problem, err := builder.Build(hosts, req)
	if err != nil {
		t.Fatalf("Build returned an error: %v", err)
	}

	numVars := problem.Vars.NumHosts() * problem.Vars.NumSlots()
	if len(problem.Objective) != numVars {
		t.Fatalf("len(Objective) = %d, want %d", len(problem.Objective), numVars)
	}

	// assignmentRows (2) + rowMonotonicityRows (1 per host) + the
	// rejectFirstHost constraint (2, one per slot).
	wantRows := 2 + 2 + 2
	if len(problem.Rows) != wantRows {
		t.Fatalf("len(Rows) = %d, want %d", len(problem.Rows), wantRows)
	}

	// The rejected host's variables must appear as == 0 rows.
	for j := 0; j < 2; j++ {
		idx := problem.VarIndex[problem.Vars.Name(0, j)]
		found := false
		for _, row := range problem.Rows {
			if row.op == OpEq && row.rhs == 0 && row.coeffs[idx] == 1 {
				nonZero := 0
				for _, c := range row.coeffs {
					if c != 0 {
						nonZero++
					}
				}
				if nonZero == 1 {
					found = true
					break
				}
			}
		}
		if !found {
			t.Fatalf("expected a rejection row for host 0, slot %d", j)
		}
	}
}

func TestProblemBuilderBuildReportsUnknownVariable(t *testing.T) {
	badCost := &fixedCostWithBadName{}
	builder := NewProblemBuilder([]activeCost{{name: "bad_cost", plugin: badCost}}, nil, nil)
	_, err := builder.Build(testHosts(1), FilterProperties{NumInstances: 1})
	if err == nil {
		t.Fatal("expected an error for a cost contribution naming an unknown variable")
	}
}

type fixedCostWithBadName struct{}

func (c *fixedCostWithBadName) Name() string          { return "bad_cost" }
func (c *fixedCostWithBadName) Init(conf.RawOpts) error { return nil }
func (c *fixedCostWithBadName) Compute(hosts []Host, req FilterProperties, vars *VariableModel) (CostContribution, error) {
	return CostContribution{Vars: []string{"HI_NoSuchHost_NoSuchSlot"}, Coefficients: []float64{1}, Multiplier: 1}, nil
}

func TestHostSlotKeys(t *testing.T) {
	hostKeys, slotKeys := hostSlotKeys(2, 3)
	wantHosts := []string{"Host0", "Host1"}
	wantSlots := []string{"InstanceNum0", "InstanceNum1", "InstanceNum2"}
	for i, k := range wantHosts {
		if hostKeys[i] != k {
			t.Fatalf("hostKeys[%d] = %q, want %q", i, hostKeys[i], k)
		}
	}
	for j, k := range wantSlots {
		if slotKeys[j] != k {
			t.Fatalf("slotKeys[%d] = %q, want %q", j, slotKeys[j], k)
		}
	}
}

func TestAssignmentRows(t *testing.T) {
	vars := NewVariableModel([]string{"Host0", "Host1"}, []string{"InstanceNum0"})
	varIndex := map[string]int{vars.Name(0, 0): 0, vars.Name(1, 0): 1}
	rows := assignmentRows(vars, varIndex)
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1 (one slot)", len(rows))
	}
	row := rows[0]
	if row.op != OpEq || row.rhs != 1 {
		t.Fatalf("row = %+v, want op==, rhs=1", row)
	}
	if row.coeffs[0] != 1 || row.coeffs[1] != 1 {
		t.Fatalf("row.coeffs = %v, want [1 1]", row.coeffs)
	}
}

func TestRowMonotonicityRows(t *testing.T) {
	vars := NewVariableModel([]string{"Host0"}, []string{"InstanceNum0", "InstanceNum1", "InstanceNum2"})
	varIndex := map[string]int{
		vars.Name(0, 0): 0,
		vars.Name(0, 1): 1,
		vars.Name(0, 2): 2,
	}
	rows := rowMonotonicityRows(vars, varIndex)
	if len(rows) != 2 { // NumSlots - 1, for the single host
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	for _, row := range rows {
		if row.op != OpGe || row.rhs != 0 {
			t.Fatalf("row = %+v, want op>=, rhs=0", row)
		}
	}
}

func TestShapeCostMatrixPacksFromFirstColumnWhenCheaper(t *testing.T) {
	// first column sum (0+1=1) < last column sum (2+3=5): offset is the
	// row-wise min of the first column (0), sign is +1.
	matrix := [][]float64{
		{0, 1, 2},
		{1, 2, 3},
	}
	shaped := shapeCostMatrix(matrix)
	for i, row := range shaped {
		for j, v := range row {
			orig := float64(i) + float64(j)
			want := (orig - 0) * (orig - 0)
			if math.Abs(v-want) > 1e-9 {
				t.Fatalf("shaped[%d][%d] = %v, want %v", i, j, v, want)
			}
		}
	}
}

func TestShapeCostMatrixEmpty(t *testing.T) {
	if got := shapeCostMatrix(nil); got != nil {
		t.Fatalf("shapeCostMatrix(nil) = %v, want nil", got)
	}
	empty := [][]float64{}
	if got := shapeCostMatrix(empty); len(got) != 0 {
		t.Fatalf("shapeCostMatrix(empty) = %v, want empty", got)
	}
}

func TestNormalizeCoefficientsScalesToUnitSpan(t *testing.T) {
	got := normalizeCoefficients([]float64{-400, 0, 200})
	want := []float64{-1, 0, 0.5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("normalizeCoefficients = %v, want %v", got, want)
		}
	}
}

func TestNormalizeCoefficientsLeavesAllZeroUnchanged(t *testing.T) {
	got := normalizeCoefficients([]float64{0, 0, 0})
	for _, v := range got {
		if v != 0 {
			t.Fatalf("normalizeCoefficients(all zero) = %v, want all zero", got)
		}
	}
}

func TestBuildNormalizesEachCostBeforeAccumulating(t *testing.T) {
	builder := NewProblemBuilder(
		[]activeCost{{name: "fixed_cost", plugin: &fixedCost{coeff: 400}}},
		nil, nil,
	)
	problem, err := builder.Build(testHosts(1), FilterProperties{NumInstances: 1})
	if err != nil {
		t.Fatalf("Build returned an error: %v", err)
	}
	// A single-cell matrix normalizes to 1 regardless of the raw
	// coefficient's magnitude, then the secondary shaping step squares
	// it around its own offset (1 in this single-cell case: the first
	// and last column sums are equal, so the first column's maximum is
	// used).
	if problem.Objective[0] != 0 {
		t.Fatalf("Objective[0] = %v, want 0 (normalized to 1, then shaped around offset 1)", problem.Objective[0])
	}
}
