// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"testing"

	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

func TestVCPURejectsHostWithZeroTotal(t *testing.T) {
	c := NewVCPU()
	hosts := []placement.Host{{Name: "host-a", VCPUsTotal: 0}}
	req := placement.FilterProperties{InstanceType: placement.InstanceType{VCPUs: 2}}
	vars := placement.NewVariableModel([]string{"Host0"}, []string{"InstanceNum0"})

	contrib, err := c.Compute(hosts, req, vars)
	if err != nil {
		t.Fatalf("Compute returned an error: %v", err)
	}
	if len(contrib.Ops) != 1 || contrib.Ops[0] != placement.OpEq {
		t.Fatalf("contrib = %+v, want a rejection row for broken CPU collection", contrib)
	}
}

func TestVCPURejectsHostTooSmall(t *testing.T) {
	c := NewVCPU()
	hosts := []placement.Host{{Name: "host-a", VCPUsTotal: 4, VCPUsUsed: 3}}
	req := placement.FilterProperties{InstanceType: placement.InstanceType{VCPUs: 8}}
	vars := placement.NewVariableModel([]string{"Host0"}, []string{"InstanceNum0"})

	contrib, err := c.Compute(hosts, req, vars)
	if err != nil {
		t.Fatalf("Compute returned an error: %v", err)
	}
	if len(contrib.Ops) != 1 || contrib.Ops[0] != placement.OpEq {
		t.Fatalf("contrib = %+v, want a rejection row", contrib)
	}
}

func TestVCPUCapsFeasibleHost(t *testing.T) {
	c := NewVCPU()
	hosts := []placement.Host{{Name: "host-a", VCPUsTotal: 16, VCPUsUsed: 0}}
	req := placement.FilterProperties{InstanceType: placement.InstanceType{VCPUs: 2}}
	vars := placement.NewVariableModel([]string{"Host0"}, []string{"InstanceNum0"})

	contrib, err := c.Compute(hosts, req, vars)
	if err != nil {
		t.Fatalf("Compute returned an error: %v", err)
	}
	if len(contrib.Ops) != 1 || contrib.Ops[0] != placement.OpLe || contrib.Consts[0] != 16 {
		t.Fatalf("contrib = %+v, want <= 16", contrib)
	}
	if hosts[0].Limits.VCPU == nil || *hosts[0].Limits.VCPU != 16 {
		t.Fatalf("Limits.VCPU = %v, want 16", hosts[0].Limits.VCPU)
	}
}
