// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package constraints

import (
	"testing"

	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

func TestActiveHostsRejectsDisabledAndDownHosts(t *testing.T) {
	c := NewActiveHosts()
	hosts := []placement.Host{
		{Name: "host-a", ServiceEnabled: true, ServiceUp: true},
		{Name: "host-b", ServiceEnabled: false, ServiceUp: true},
		{Name: "host-c", ServiceEnabled: true, ServiceUp: false},
	}
	vars := placement.NewVariableModel([]string{"Host0", "Host1", "Host2"}, []string{"InstanceNum0"})

	contrib, err := c.Compute(hosts, placement.FilterProperties{}, vars)
	if err != nil {
		t.Fatalf("Compute returned an error: %v", err)
	}
	if len(contrib.Ops) != 2 {
		t.Fatalf("len(Ops) = %d, want 2 (host-b and host-c rejected)", len(contrib.Ops))
	}
	rejected := map[string]bool{}
	for _, vs := range contrib.Vars {
		rejected[vs[0]] = true
	}
	if !rejected[vars.Name(1, 0)] || !rejected[vars.Name(2, 0)] {
		t.Fatalf("rejected vars = %v, want host-b and host-c's slots", contrib.Vars)
	}
	if rejected[vars.Name(0, 0)] {
		t.Fatal("host-a is enabled and up, it must not be rejected")
	}
}
