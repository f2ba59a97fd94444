// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package costs

import (
	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
)

// IPDistanceCost favors hosts whose management IP is numerically close
// to the hosts already backing the request's attached volumes.
// Grounded on costs/ip_distance_cost.py, whose distance metric treats
// each IPv4 octet as a base-256 digit and sums the distance-sum and
// distance-product across every volume host.
type IPDistanceCost struct {
	Multiplier float64
}

func NewIPDistanceCost() placement.Cost { return &IPDistanceCost{Multiplier: 1.0} }

func (c *IPDistanceCost) Name() string { return "ip_distance_cost" }

func (c *IPDistanceCost) Init(opts conf.RawOpts) error {
	var parsed struct {
		Multiplier *float64 `json:"multiplier"`
	}
	if err := opts.Unmarshal(&parsed); err != nil {
		return err
	}
	c.Multiplier = 1.0
	if parsed.Multiplier != nil {
		c.Multiplier = *parsed.Multiplier
	}
	return nil
}

func ipDistance(a, b [4]byte) float64 {
	d0 := int(a[0]) - int(b[0])
	d1 := int(a[1]) - int(b[1])
	d2 := int(a[2]) - int(b[2])
	d3 := int(a[3]) - int(b[3])
	v := ((d0*256-d1)*256-d2)*256 - d3
	if v < 0 {
		v = -v
	}
	return float64(v)
}

func (c *IPDistanceCost) Compute(hosts []placement.Host, req placement.FilterProperties, vars *placement.VariableModel) (placement.CostContribution, error) {
	numSlots := vars.NumSlots()
	names := make([]string, 0, vars.NumHosts()*numSlots)
	coefs := make([]float64, 0, vars.NumHosts()*numSlots)

	for i, host := range hosts {
		distanceSum, distanceProd := 0.0, 1.0
		for _, volHost := range req.VolumeHosts {
			d := ipDistance(host.IP, volHost)
			distanceSum += d
			distanceProd *= d
		}
		cost := 0.0
		if len(req.VolumeHosts) > 0 {
			cost = distanceSum + distanceProd
		}
		for j := 0; j < numSlots; j++ {
			names = append(names, vars.Name(i, j))
			coefs = append(coefs, cost)
		}
	}
	return placement.CostContribution{
		Vars:         names,
		Coefficients: coefs,
		Multiplier:   c.Multiplier,
	}, nil
}
