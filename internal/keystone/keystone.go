// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

// Package keystone authenticates against OpenStack Keystone and locates
// the Nova/Placement/Flavor service endpoints the hoststate and
// flavorsrc collaborators call into.
package keystone

import (
	"context"
	"log/slog"

	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack"
)

// API authenticates against Keystone once and resolves service
// endpoints afterwards.
type API interface {
	Authenticate(ctx context.Context) error
	Client() *gophercloud.ProviderClient
	FindEndpoint(serviceType string) (string, error)
}

type api struct {
	secrets  conf.SecretOpenStackConfig
	keystone conf.KeystoneConfig
	client   *gophercloud.ProviderClient
}

// NewAPI builds an API from the given secret and keystone configuration.
func NewAPI(secrets conf.SecretOpenStackConfig, keystoneConf conf.KeystoneConfig) API {
	return &api{secrets: secrets, keystone: keystoneConf}
}

// Authenticate against OpenStack Keystone. Idempotent: a second call
// after a successful one is a no-op.
func (a *api) Authenticate(ctx context.Context) error {
	if a.client != nil {
		return nil
	}
	slog.Info("authenticating against openstack", "url", a.secrets.OSAuthURL)
	authOptions := gophercloud.AuthOptions{
		IdentityEndpoint: a.secrets.OSAuthURL,
		Username:         a.secrets.OSUsername,
		DomainName:       a.secrets.OSUserDomainName,
		Password:         a.secrets.OSPassword,
		AllowReauth:      true,
		Scope: &gophercloud.AuthScope{
			ProjectName: a.secrets.OSProjectName,
			DomainName:  a.secrets.OSProjectDomainName,
		},
	}
	provider, err := openstack.NewClient(authOptions.IdentityEndpoint)
	if err != nil {
		return err
	}
	if err := openstack.Authenticate(ctx, provider, authOptions); err != nil {
		return err
	}
	a.client = provider
	slog.Info("authenticated against openstack")
	return nil
}

// Client returns the authenticated provider client.
func (a *api) Client() *gophercloud.ProviderClient {
	return a.client
}

// FindEndpoint resolves the endpoint URL for the given service type
// under the configured endpoint availability.
func (a *api) FindEndpoint(serviceType string) (string, error) {
	return a.client.EndpointLocator(gophercloud.EndpointOpts{
		Type:         serviceType,
		Availability: gophercloud.Availability(a.keystone.Availability),
	})
}
