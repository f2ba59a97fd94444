// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

// Package hoststate fetches the current hypervisor and aggregate
// listing from Nova and assembles it into placement.Host values. It
// does no caching, retries, or pagination beyond what gophercloud
// gives for free: it is a collaborator supplying Engine.Solve's
// input, not a product in its own right.
package hoststate

import (
	"context"
	"log/slog"

	"github.com/cobaltcore-dev/placement-solver/internal/keystone"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/aggregates"
	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/hypervisors"
	"github.com/gophercloud/gophercloud/v2/pagination"
)

// Source lists the hosts currently known to Nova, assembled into the
// placement engine's Host model.
type Source interface {
	Init(ctx context.Context) error
	ListHosts(ctx context.Context) ([]placement.Host, error)
}

type rawAggregate struct {
	UUID             string            `json:"uuid"`
	Name             string            `json:"name"`
	AvailabilityZone *string           `json:"availability_zone"`
	Hosts            []string          `json:"hosts"`
	Metadata         map[string]string `json:"metadata"`
}

type rawHypervisorService struct {
	ID   int    `json:"id"`
	Host string `json:"host"`
}

type rawHypervisor struct {
	Hostname          string               `json:"hypervisor_hostname"`
	State             string               `json:"state"`
	Status            string               `json:"status"`
	HypervisorVersion int                  `json:"hypervisor_version"`
	Service           rawHypervisorService `json:"service"`
	VCPUs             int                  `json:"vcpus"`
	VCPUsUsed         int                  `json:"vcpus_used"`
	MemoryMB          int                  `json:"memory_mb"`
	MemoryMBUsed      int                  `json:"memory_mb_used"`
	LocalGB           int                  `json:"local_gb"`
	LocalGBUsed       int                  `json:"local_gb_used"`
	FreeRAMMB         int                  `json:"free_ram_mb"`
	FreeDiskGB        int                  `json:"free_disk_gb"`
	RunningVMs        int                  `json:"running_vms"`
}

type source struct {
	keystoneAPI keystone.API
	sc          *gophercloud.ServiceClient
}

// NewSource builds a hoststate Source authenticating through keystoneAPI.
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
		Microversion:   "2.61",
	}
	return nil
}

// ListHosts fetches the current hypervisor and aggregate listing and
// merges them into one Host per hypervisor.
func (s *source) ListHosts(ctx context.Context) ([]placement.Host, error) {
	hvs, err := s.listHypervisors(ctx)
	if err != nil {
		return nil, err
	}
	aggsByHost, err := s.listAggregatesByHost(ctx)
	if err != nil {
		return nil, err
	}

	hosts := make([]placement.Host, 0, len(hvs))
	for _, hv := range hvs {
		hosts = append(hosts, placement.Host{
			Name:              hv.Service.Host,
			Node:              hv.Hostname,
			ServiceEnabled:    hv.Status == "enabled",
			ServiceUp:         hv.State == "up",
			FreeRAMMB:         hv.FreeRAMMB,
			TotalUsableRAMMB:  hv.MemoryMB,
			UsedRAMMB:         hv.MemoryMBUsed,
			FreeDiskMB:        hv.FreeDiskGB * 1024,
			TotalUsableDiskMB: hv.LocalGB * 1024,
			UsedDiskMB:        hv.LocalGBUsed * 1024,
			VCPUsTotal:        hv.VCPUs,
			VCPUsUsed:         hv.VCPUsUsed,
			NumInstances:      hv.RunningVMs,
			HypervisorVersion: hv.HypervisorVersion,
			Aggregates:        aggsByHost[hv.Service.Host],
		})
	}
	return hosts, nil
}

func (s *source) listHypervisors(ctx context.Context) ([]rawHypervisor, error) {
	pages, err := hypervisors.List(s.sc, hypervisors.ListOpts{}).AllPages(ctx)
	if err != nil {
		return nil, err
	}
	var data struct {
		Hypervisors []rawHypervisor `json:"hypervisors"`
	}
	if err := pages.(hypervisors.HypervisorPage).ExtractInto(&data); err != nil {
		return nil, err
	}
	return data.Hypervisors, nil
}

func (s *source) listAggregatesByHost(ctx context.Context) (map[string][]placement.Aggregate, error) {
	pages, err := aggregates.List(s.sc).AllPages(ctx)
	if err != nil {
		return nil, err
	}
	var data struct {
		Aggregates []rawAggregate `json:"aggregates"`
	}
	if err := pages.(aggregates.AggregatesPage).ExtractInto(&data); err != nil {
		return nil, err
	}

	byHost := make(map[string][]placement.Aggregate)
	for _, raw := range data.Aggregates {
		for _, host := range raw.Hosts {
			byHost[host] = append(byHost[host], placement.Aggregate{
				Name:     raw.Name,
				Metadata: raw.Metadata,
			})
		}
	}
	return byHost, nil
}
