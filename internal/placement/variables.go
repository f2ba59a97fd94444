// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

import "fmt"

// VariableModel tracks the binary decision variables X[i][j] for the
// placement problem: host i receives instance slot j.
//
// nova-solver-scheduler names each variable "HI_<host_key>_<instance_key>"
// and recovers the (i, j) pair by parsing that string back apart at
// solve time. We keep the same name for wire/debug compatibility but
// never parse it: populate() builds a direct lookup table instead, so
// a host or instance key containing an underscore cannot corrupt the
// decoded assignment.
type VariableModel struct {
	HostKeys  []string
	SlotKeys  []string
	Names     [][]string
	index     map[string][2]int
}

// NewVariableModel builds the full host x slot variable grid and its
// name table. hostKeys and slotKeys must each be non-empty and unique.
func NewVariableModel(hostKeys, slotKeys []string) *VariableModel {
	vm := &VariableModel{
		HostKeys: hostKeys,
		SlotKeys: slotKeys,
		Names:    make([][]string, len(hostKeys)),
		index:    make(map[string][2]int, len(hostKeys)*len(slotKeys)),
	}
	for i, hk := range hostKeys {
		vm.Names[i] = make([]string, len(slotKeys))
		for j, sk := range slotKeys {
			name := fmt.Sprintf("HI_%s_%s", hk, sk)
			vm.Names[i][j] = name
			vm.index[name] = [2]int{i, j}
		}
	}
	return vm
}

// NumHosts returns the number of host rows in the grid.
func (vm *VariableModel) NumHosts() int { return len(vm.HostKeys) }

// NumSlots returns the number of instance-slot columns in the grid.
func (vm *VariableModel) NumSlots() int { return len(vm.SlotKeys) }

// Name returns the variable name for host row i, slot column j.
func (vm *VariableModel) Name(i, j int) string { return vm.Names[i][j] }

// Lookup recovers the (host, slot) indices for a variable name,
// reporting ok=false if the name is not part of this grid.
func (vm *VariableModel) Lookup(name string) (i, j int, ok bool) {
	pair, found := vm.index[name]
	if !found {
		return 0, 0, false
	}
	return pair[0], pair[1], true
}

// All returns every variable name in row-major (host, then slot) order.
func (vm *VariableModel) All() []string {
	names := make([]string, 0, len(vm.HostKeys)*len(vm.SlotKeys))
	for i := range vm.HostKeys {
		names = append(names, vm.Names[i]...)
	}
	return names
}
