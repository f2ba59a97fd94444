// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

// Package flavorsrc resolves a Nova flavor ID into the placement
// engine's InstanceType. Thin and uncached, like hoststate: a
// collaborator supplying Engine.Solve's input, not a product.
package flavorsrc

import (
	"context"
	"log/slog"

	"github.com/cobaltcore-dev/placement-solver/internal/keystone"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/flavors"
)

// Source resolves flavor IDs to InstanceTypes.
type Source interface {
	Init(ctx context.Context) error
	Get(ctx context.Context, flavorID string) (placement.InstanceType, error)
}

type source struct {
	keystoneAPI keystone.API
	sc          *gophercloud.ServiceClient
}

// NewSource builds a flavorsrc Source authenticating through keystoneAPI.
func NewSource(keystoneAPI keystone.API) Source {
	return &source{keystoneAPI: keystoneAPI}
}

// Init authenticates against Keystone and resolves the Nova endpoint.
func (s *source) Init(ctx context.Context) error {
	if err := s.keystoneAPI.Authenticate(ctx); err != nil {
		return err
	}
	url, err := s.keystoneAPI.FindEndpoint("compute")
	if err != nil {
		return err
	}
	slog.Info("using nova endpoint", "url", url)
	s.sc = &gophercloud.ServiceClient{
		ProviderClient: s.keystoneAPI.Client(),
		Endpoint:       url,
		Type:           "compute",
		// Since microversion 2.61, extra_specs are embedded directly in
		// the flavor detail response, sparing us a second os-extra_specs
		// round trip per flavor.
		Microversion: "2.61",
	}
	return nil
}

// Get resolves flavorID into an InstanceType.
func (s *source) Get(ctx context.Context, flavorID string) (placement.InstanceType, error) {
	flavor, err := flavors.Get(ctx, s.sc, flavorID).Extract()
	if err != nil {
		return placement.InstanceType{}, err
	}
	return placement.InstanceType{
		ID:              flavor.ID,
		MemoryMB:        flavor.RAM,
		VCPUs:           flavor.VCPUs,
		RootDiskGB:      flavor.Disk,
		EphemeralDiskGB: flavor.Ephemeral,
		SwapMB:          flavor.Swap,
		ExtraSpecs:      flavor.ExtraSpecs,
	}, nil
}
