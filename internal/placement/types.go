// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

// PCIDeviceStats describes one pool of identical PCI devices on a host,
// along with the capability to test and apply a passthrough request
// against it without mutating the host in place.
//
// support_requests/apply_requests mirror the nova-solver-scheduler
// blueprint's PciDeviceStats.support_requests / apply_requests pair:
// the former is a pure predicate, the latter consumes capacity.
type PCIDeviceStats struct {
	VendorID  string
	ProductID string
	Count     int
}

// PCIRequest asks for Count devices matching Spec (vendor_id/product_id
// pairs, drawn from in order until Count devices have been taken).
type PCIRequest struct {
	Count int
	Specs []PCIDeviceSpec
}

type PCIDeviceSpec struct {
	VendorID  string
	ProductID string
}

// SupportPCIRequests reports whether the given requests could be satisfied
// without consuming any capacity. It never mutates stats.
func SupportPCIRequests(stats []PCIDeviceStats, requests []PCIRequest) bool {
	cp := clonePCIStats(stats)
	return applyPCIRequests(cp, requests) == nil
}

// ApplyPCIRequests consumes capacity from a private copy of stats for
// each of requests, in order, failing the first request it cannot
// satisfy. The original stats slice is never modified; callers that
// want to commit the change must take the returned slice.
func ApplyPCIRequests(stats []PCIDeviceStats, requests []PCIRequest) ([]PCIDeviceStats, error) {
	cp := clonePCIStats(stats)
	if err := applyPCIRequests(cp, requests); err != nil {
		return nil, err
	}
	return cp, nil
}

func clonePCIStats(stats []PCIDeviceStats) []PCIDeviceStats {
	cp := make([]PCIDeviceStats, len(stats))
	copy(cp, stats)
	return cp
}

func applyPCIRequests(stats []PCIDeviceStats, requests []PCIRequest) error {
	for _, req := range requests {
		remaining := req.Count
		for _, spec := range req.Specs {
			for i := range stats {
				if stats[i].VendorID != spec.VendorID || stats[i].ProductID != spec.ProductID {
					continue
				}
				take := min(remaining, stats[i].Count)
				stats[i].Count -= take
				remaining -= take
				if remaining == 0 {
					break
				}
			}
			if remaining == 0 {
				break
			}
		}
		if remaining > 0 {
			return errPCIRequestUnsatisfiable
		}
	}
	return nil
}

// Aggregate is a named group of hosts carrying metadata and, optionally,
// a list of networks already present on the rack it represents.
type Aggregate struct {
	Name     string
	Metadata map[string]string
	Networks []string
}

// Metric is a single named reading reported for a host.
type Metric struct {
	Name  string
	Value float64
}

// HostLimits is the write-only channel through which capacity
// constraints publish the effective, ratio-scaled cap they enforced.
// It is the only part of Host the engine is permitted to mutate.
type HostLimits struct {
	MemoryMB *int
	DiskGB   *int
	VCPU     *int
}

// Host is a read-mostly view of one candidate compute host. Everything
// except Limits is treated as immutable input for the duration of a
// Solve call.
type Host struct {
	Name string
	Node string

	ServiceEnabled bool
	ServiceUp      bool

	FreeRAMMB         int
	TotalUsableRAMMB  int
	UsedRAMMB         int
	FreeDiskMB        int
	TotalUsableDiskMB int
	UsedDiskMB        int
	VCPUsTotal        int
	VCPUsUsed         int
	NumInstances      int

	PCIStats []PCIDeviceStats

	Aggregates []Aggregate
	Metrics    map[string]Metric

	SupportedInstances []string
	HypervisorVersion  int

	// IP is the host's management IP, used by the IP-distance cost.
	IP [4]byte

	// RunningInstanceTypes lists the instance types currently running on this host, used by the
	// type-affinity host-rejection check.
	RunningInstanceTypes []string

	// Limits is written by capacity constraints to record the
	// allocation-ratio-scaled cap they enforced on this host.
	Limits HostLimits
}

// InstanceType is the requested flavor (nova-solver-scheduler calls
// this NovaFlavor).
type InstanceType struct {
	ID              string
	MemoryMB        int
	VCPUs           int
	RootDiskGB      int
	EphemeralDiskGB int
	SwapMB          int
	ExtraSpecs      map[string]string
}

// GroupPolicy names a server-group placement policy.
type GroupPolicy string

const (
	GroupPolicyAffinity     GroupPolicy = "affinity"
	GroupPolicyAntiAffinity GroupPolicy = "anti-affinity"
)

// ImageProperties carries the subset of request_spec.image.properties
// that host-rejection checks compare against a host's supported traits.
type ImageProperties map[string]string

// FilterProperties is the immutable request descriptor for one Solve
// call.
type FilterProperties struct {
	NumInstances      int
	InstanceUUIDs     []string
	InstanceType      InstanceType
	ImageProperties   ImageProperties
	SchedulerHints    map[string]string
	GroupPolicies     []GroupPolicy
	GroupHosts        []string
	PCIRequests       []PCIRequest
	RequestedNetworks []string
	RetryHosts        []string

	// ProjectID/IsolatedHosts/TrustedHosts feed host-rejection checks
	// that need request-scoped identity or cluster-wide policy lists.
	ProjectID     string
	IsolatedHosts []string
	TrustedHosts  []string

	// VolumeHosts are the management IPs of hosts already backing
	// volumes attached to this request, consumed by the IP-distance
	// cost.
	VolumeHosts [][4]byte

	// MetricRatios configures the metrics cost: metric name -> ratio.
	MetricRatios map[string]float64
}

// Assignment pairs a chosen host with the instance identifier placed
// on it.
type Assignment struct {
	Host       Host
	InstanceID string
}
