// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package costs

import (
	"testing"

	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

func TestRamCostStepsUpPerSlot(t *testing.T) {
	cost := NewRamCost()
	hosts := []placement.Host{{Name: "host-a", FreeRAMMB: 1000}}
	req := placement.FilterProperties{InstanceType: placement.InstanceType{MemoryMB: 200}}
	vars := placement.NewVariableModel([]string{"Host0"}, []string{"InstanceNum0", "InstanceNum1"})

	contrib, err := cost.Compute(hosts, req, vars)
	if err != nil {
		t.Fatalf("Compute returned an error: %v", err)
	}
	if len(contrib.Coefficients) != 2 {
		t.Fatalf("len(Coefficients) = %d, want 2", len(contrib.Coefficients))
	}
	// coefficient[j] = -free_ram_mb + requested_ram*(j+1)
	want0 := -1000.0 + 200.0*1
	want1 := -1000.0 + 200.0*2
	if contrib.Coefficients[0] != want0 {
		t.Fatalf("Coefficients[0] = %v, want %v", contrib.Coefficients[0], want0)
	}
	if contrib.Coefficients[1] != want1 {
		t.Fatalf("Coefficients[1] = %v, want %v", contrib.Coefficients[1], want1)
	}
	if contrib.Multiplier != 1.0 {
		t.Fatalf("Multiplier = %v, want 1.0 default", contrib.Multiplier)
	}
}

func TestRamCostInitOverridesMultiplier(t *testing.T) {
	cost := NewRamCost()
	opts := conf.NewRawOpts(`{"multiplier": -2.5}`)
	if err := cost.Init(opts); err != nil {
		t.Fatalf("Init returned an error: %v", err)
	}

	hosts := []placement.Host{{Name: "host-a", FreeRAMMB: 100}}
	vars := placement.NewVariableModel([]string{"Host0"}, []string{"InstanceNum0"})
	contrib, err := cost.Compute(hosts, placement.FilterProperties{}, vars)
	if err != nil {
		t.Fatalf("Compute returned an error: %v", err)
	}
	if contrib.Multiplier != -2.5 {
		t.Fatalf("Multiplier = %v, want -2.5", contrib.Multiplier)
	}
}
