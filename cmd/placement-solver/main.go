// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/flavorsrc"
	"github.com/cobaltcore-dev/placement-solver/internal/hoststate"
	"github.com/cobaltcore-dev/placement-solver/internal/keystone"
	"github.com/cobaltcore-dev/placement-solver/internal/monitoring"
	"github.com/cobaltcore-dev/placement-solver/internal/mqtt"
	"github.com/cobaltcore-dev/placement-solver/internal/placement"
	"github.com/cobaltcore-dev/placement-solver/internal/placement/catalogue"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sapcc/go-api-declarations/bininfo"
	"github.com/sapcc/go-bits/httpext"
	"go.uber.org/automaxprocs/maxprocs"
)

// runMonitoringServer serves the Prometheus metrics endpoint.
func runMonitoringServer(ctx context.Context, registry *monitoring.Registry, config conf.MonitoringConfig) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	slog.Info("metrics listening", "port", config.Port)
	addr := fmt.Sprintf(":%d", config.Port)
	if err := httpext.ListenAndServeContext(ctx, addr, mux); err != nil {
		panic(err)
	}
}

func main() {
	// If called with --version, report version and exit.
	bininfo.HandleVersionArgument()

	cfg := conf.NewConfig()
	cfg.GetLoggingConfig().SetDefaultLogger()

	// Match runtime concurrency to the container's CPU limit.
	undoMaxprocs, err := maxprocs.Set(maxprocs.Logger(slog.Debug))
	if err != nil {
		panic(err)
	}
	defer undoMaxprocs()

	// Gracefully shut down on SIGINT, giving Kubernetes 10 seconds to
	// stop sending new requests before the process actually exits.
	ctx := httpext.ContextWithSIGINT(context.Background(), 10*time.Second)

	registry := monitoring.NewRegistry(cfg.GetMonitoringConfig())
	go runMonitoringServer(ctx, registry, cfg.GetMonitoringConfig())

	secrets := conf.NewSecretConfig()
	keystoneAPI := keystone.NewAPI(secrets.SecretOpenStackConfig, cfg.GetKeystoneConfig())

	hostSource := hoststate.NewSource(keystoneAPI)
	if err := hostSource.Init(ctx); err != nil {
		panic("failed to initialize host state source: " + err.Error())
	}
	flavorSource := flavorsrc.NewSource(keystoneAPI)
	if err := flavorSource.Init(ctx); err != nil {
		panic("failed to initialize flavor source: " + err.Error())
	}

	mqttClient := mqtt.NewClient(cfg.GetMQTTConfig(), mqtt.NewMQTTMonitor(registry))
	if err := mqttClient.Connect(); err != nil {
		slog.Warn("failed to connect to mqtt broker, telemetry publishing disabled", "error", err)
	}
	defer mqttClient.Disconnect()

	solverConfig := cfg.GetSolverConfig()
	costRegistry := catalogue.NewDefaultCostRegistry()
	constraintRegistry := catalogue.NewDefaultConstraintRegistry()
	solverMonitor := placement.NewSolverMonitor(registry)
	engine, err := placement.NewEngine(solverConfig, costRegistry, constraintRegistry, &solverMonitor)
	if err != nil {
		panic("failed to initialize placement engine: " + err.Error())
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/up", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	apiMonitor := placement.NewAPIMonitor(registry)
	api := placement.NewAPI(engine, apiMonitor, mqttClient, flavorSource, hostSource, cfg.GetAPIConfig())
	api.Init(mux)

	apiConf := cfg.GetAPIConfig()
	addr := fmt.Sprintf(":%d", apiConf.Port)
	if err := httpext.ListenAndServeContext(ctx, addr, mux); err != nil {
		panic(err)
	}
}
