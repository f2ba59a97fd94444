// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package costs

import (
	"testing"

	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

func TestMetricsCostFallsBackForMissingMetrics(t *testing.T) {
	cost := NewMetricsCost().(*MetricsCost)
	cost.Ratios = map[string]float64{"cpu_contention": 1.0}
	cost.WeightMultiplierOfUnavailable = -1.0

	hosts := []placement.Host{
		{Name: "host-a", Metrics: map[string]placement.Metric{"cpu_contention": {Value: 10}}},
		{Name: "host-b", Metrics: map[string]placement.Metric{"cpu_contention": {Value: 20}}},
		{Name: "host-c", Metrics: map[string]placement.Metric{}}, // missing the metric entirely
	}
	vars := placement.NewVariableModel([]string{"Host0", "Host1", "Host2"}, []string{"InstanceNum0"})

	contrib, err := cost.Compute(hosts, placement.FilterProperties{}, vars)
	if err != nil {
		t.Fatalf("Compute returned an error: %v", err)
	}
	// fallback = min - (max-min)*(-1) = 10 - (10)*(-1) = 20
	if contrib.Coefficients[2] != 20 {
		t.Fatalf("fallback coefficient = %v, want 20", contrib.Coefficients[2])
	}
	if contrib.Coefficients[0] != 10 || contrib.Coefficients[1] != 20 {
		t.Fatalf("coefficients = %v, want [10 20 ...]", contrib.Coefficients)
	}
}

func TestMetricsCostAllZeroWhenNoRatiosConfigured(t *testing.T) {
	cost := NewMetricsCost().(*MetricsCost)
	hosts := []placement.Host{{Name: "host-a"}}
	vars := placement.NewVariableModel([]string{"Host0"}, []string{"InstanceNum0"})

	contrib, err := cost.Compute(hosts, placement.FilterProperties{}, vars)
	if err != nil {
		t.Fatalf("Compute returned an error: %v", err)
	}
	if contrib.Coefficients[0] != 0 {
		t.Fatalf("coefficient = %v, want 0 with no configured or requested ratios", contrib.Coefficients[0])
	}
}

func TestMetricsCostFallsBackToRequestRatiosWhenUnconfigured(t *testing.T) {
	cost := NewMetricsCost().(*MetricsCost)
	hosts := []placement.Host{{Name: "host-a", Metrics: map[string]placement.Metric{"io_wait": {Value: 5}}}}
	req := placement.FilterProperties{MetricRatios: map[string]float64{"io_wait": 2.0}}
	vars := placement.NewVariableModel([]string{"Host0"}, []string{"InstanceNum0"})

	contrib, err := cost.Compute(hosts, req, vars)
	if err != nil {
		t.Fatalf("Compute returned an error: %v", err)
	}
	if contrib.Coefficients[0] != 10 {
		t.Fatalf("coefficient = %v, want 10", contrib.Coefficients[0])
	}
}
