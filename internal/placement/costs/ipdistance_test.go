// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package costs

import (
	"testing"

	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

func TestIPDistanceCostZeroWithNoVolumeHosts(t *testing.T) {
	cost := NewIPDistanceCost()
	hosts := []placement.Host{{Name: "host-a", IP: [4]byte{10, 0, 0, 1}}}
	vars := placement.NewVariableModel([]string{"Host0"}, []string{"InstanceNum0"})

	contrib, err := cost.Compute(hosts, placement.FilterProperties{}, vars)
	if err != nil {
		t.Fatalf("Compute returned an error: %v", err)
	}
	if contrib.Coefficients[0] != 0 {
		t.Fatalf("coefficient = %v, want 0", contrib.Coefficients[0])
	}
}

func TestIPDistanceCostFavorsCloserHost(t *testing.T) {
	cost := NewIPDistanceCost()
	hosts := []placement.Host{
		{Name: "host-a", IP: [4]byte{10, 0, 0, 1}},
		{Name: "host-b", IP: [4]byte{10, 0, 0, 200}},
	}
	req := placement.FilterProperties{VolumeHosts: [][4]byte{{10, 0, 0, 1}}}
	vars := placement.NewVariableModel([]string{"Host0", "Host1"}, []string{"InstanceNum0"})

	contrib, err := cost.Compute(hosts, req, vars)
	if err != nil {
		t.Fatalf("Compute returned an error: %v", err)
	}
	// host-a is identical to the volume host: distance sum and product
	// are both 0.
	if contrib.Coefficients[0] != 0 {
		t.Fatalf("host-a coefficient = %v, want 0", contrib.Coefficients[0])
	}
	if contrib.Coefficients[1] <= contrib.Coefficients[0] {
		t.Fatalf("host-b coefficient (%v) should exceed host-a's (%v)", contrib.Coefficients[1], contrib.Coefficients[0])
	}
}
