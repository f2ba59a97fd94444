// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package conf

import (
	"os"

	"github.com/cobaltcore-dev/placement-solver/internal/logging"
)

// SecretOpenStackConfig carries the Keystone credentials the
// hoststate and flavorsrc collaborators authenticate with. Unlike the
// rest of conf, these come from the environment, never from the json
// config file, so they never end up logged or checked into a
// ConfigMap.
type SecretOpenStackConfig struct {
	OSAuthURL           string // URL to the OpenStack Keystone authentication endpoint.
	OSUsername          string
	OSPassword          string
	OSProjectName       string
	OSUserDomainName    string
	OSProjectDomainName string
}

type SecretConfig struct {
	SecretOpenStackConfig
}

func NewSecretConfig() SecretConfig {
	return SecretConfig{
		SecretOpenStackConfig: SecretOpenStackConfig{
			OSAuthURL:           ForceGetenv("OS_AUTH_URL"),
			OSUsername:          ForceGetenv("OS_USERNAME"),
			OSPassword:          ForceGetenv("OS_PASSWORD"),
			OSProjectName:       ForceGetenv("OS_PROJECT_NAME"),
			OSUserDomainName:    ForceGetenv("OS_USER_DOMAIN_NAME"),
			OSProjectDomainName: ForceGetenv("OS_PROJECT_DOMAIN_NAME"),
		},
	}
}

// Retrieve the value of the environment variable named by the key.
// If the variable is empty, it logs an error and exits the application.
func ForceGetenv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		logging.Log.Error("missing environment variable", "key", key)
		panic("missing environment variable")
	}
	return value
}

// Retrieve the value of the environment variable named by the key.
// If the variable is empty, it returns the provided default value.
func Getenv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
