// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

import "testing"

func TestVariableModelNaming(t *testing.T) {
	vm := NewVariableModel([]string{"Host0", "Host1"}, []string{"InstanceNum0", "InstanceNum1"})

	if got, want := vm.NumHosts(), 2; got != want {
		t.Fatalf("NumHosts() = %d, want %d", got, want)
	}
	if got, want := vm.NumSlots(), 2; got != want {
		t.Fatalf("NumSlots() = %d, want %d", got, want)
	}
	if got, want := vm.Name(0, 1), "HI_Host0_InstanceNum1"; got != want {
		t.Fatalf("Name(0, 1) = %q, want %q", got, want)
	}
}

func TestVariableModelLookupRoundTrips(t *testing.T) {
	vm := NewVariableModel([]string{"Host0", "Host1", "Host2"}, []string{"InstanceNum0", "InstanceNum1"})
	for i := 0; i < vm.NumHosts(); i++ {
		for j := 0; j < vm.NumSlots(); j++ {
			name := vm.Name(i, j)
			gotI, gotJ, ok := vm.Lookup(name)
			if !ok {
				t.Fatalf("Lookup(%q) reported not found", name)
			}
			if gotI != i || gotJ != j {
				t.Fatalf("Lookup(%q) = (%d, %d), want (%d, %d)", name, gotI, gotJ, i, j)
			}
		}
	}
}

func TestVariableModelLookupUnknownName(t *testing.T) {
	vm := NewVariableModel([]string{"Host0"}, []string{"InstanceNum0"})
	if _, _, ok := vm.Lookup("HI_Host99_InstanceNum99"); ok {
		t.Fatal("Lookup of an unknown variable name reported ok=true")
	}
}

// Host and slot keys containing underscores must not confuse Lookup,
// since names are resolved through a direct table rather than parsed
// apart at the underscores.
func TestVariableModelLookupSurvivesUnderscoresInKeys(t *testing.T) {
	vm := NewVariableModel([]string{"rack_a_host_0", "rack_a_host_1"}, []string{"slot_0"})
	name := vm.Name(1, 0)
	i, j, ok := vm.Lookup(name)
	if !ok || i != 1 || j != 0 {
		t.Fatalf("Lookup(%q) = (%d, %d, %v), want (1, 0, true)", name, i, j, ok)
	}
}

func TestVariableModelAllIsRowMajor(t *testing.T) {
	vm := NewVariableModel([]string{"Host0", "Host1"}, []string{"InstanceNum0", "InstanceNum1"})
	all := vm.All()
	want := []string{
		"HI_Host0_InstanceNum0", "HI_Host0_InstanceNum1",
		"HI_Host1_InstanceNum0", "HI_Host1_InstanceNum1",
	}
	if len(all) != len(want) {
		t.Fatalf("All() returned %d names, want %d", len(all), len(want))
	}
	for i, name := range want {
		if all[i] != name {
			t.Fatalf("All()[%d] = %q, want %q", i, all[i], name)
		}
	}
}
