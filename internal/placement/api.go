// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/cobaltcore-dev/placement-solver/internal/conf"
	"github.com/cobaltcore-dev/placement-solver/internal/mqtt"
)

// InstanceTypeResolver resolves an instance-type ID into its full
// InstanceType, for requests whose filter_properties only carry the
// ID and leave ExtraSpecs empty. flavorsrc.Source satisfies this
// structurally.
type InstanceTypeResolver interface {
	Get(ctx context.Context, flavorID string) (InstanceType, error)
}

// HostLister lists the currently known candidate hosts, for requests
// that omit the hosts array and rely on the deployment's own host-state
// collaborator instead of pushing it with every request.
// hoststate.Source satisfies this structurally.
type HostLister interface {
	ListHosts(ctx context.Context) ([]Host, error)
}

// APINovaExternalSchedulerURL is the path the handler is bound to,
// matching the legacy Nova external-scheduler contract.
const APINovaExternalSchedulerURL = "/scheduler/nova/external"

// TopicSolveFinished is the mqtt topic solve telemetry is published
// under once a request completes.
const TopicSolveFinished = "placement-solver/solve/finished"

type APIRequestSpec struct {
	ProjectID  string `json:"project_id"`
	NInstances int    `json:"num_instances"`
}

type APIRequestHost struct {
	Name                 string            `json:"name"`
	Node                 string            `json:"node"`
	Status               string            `json:"status"`
	State                string            `json:"state"`
	FreeRAMMB            int               `json:"free_ram_mb"`
	TotalUsableRAMMB     int               `json:"total_usable_ram_mb"`
	UsedRAMMB            int               `json:"used_ram_mb"`
	FreeDiskMB           int               `json:"free_disk_mb"`
	TotalUsableDiskMB    int               `json:"total_usable_disk_mb"`
	UsedDiskMB           int               `json:"used_disk_mb"`
	VCPUsTotal           int               `json:"vcpus_total"`
	VCPUsUsed            int               `json:"vcpus_used"`
	NumInstances         int               `json:"num_instances"`
	HypervisorVersion    int               `json:"hypervisor_version"`
	SupportedInstances   []string          `json:"supported_instances"`
	RunningInstanceTypes []string          `json:"running_instance_types"`
	PCIStats             []PCIDeviceStats  `json:"pci_stats"`
	Aggregates           []Aggregate       `json:"aggregates"`
	Metrics              map[string]Metric `json:"metrics"`
}

type APIFilterProperties struct {
	InstanceUUIDs     []string           `json:"instance_uuids"`
	InstanceType      InstanceType       `json:"instance_type"`
	ImageProperties   ImageProperties    `json:"image_properties"`
	SchedulerHints    map[string]string  `json:"scheduler_hints"`
	GroupPolicies     []GroupPolicy      `json:"group_policies"`
	GroupHosts        []string           `json:"group_hosts"`
	PCIRequests       []PCIRequest       `json:"pci_requests"`
	RequestedNetworks []string           `json:"requested_networks"`
	RetryHosts        []string           `json:"retry_hosts"`
	IsolatedHosts     []string           `json:"isolated_hosts"`
	TrustedHosts      []string           `json:"trusted_hosts"`
	MetricRatios      map[string]float64 `json:"metric_ratios"`
}

type APINovaExternalSchedulerRequest struct {
	Spec             APIRequestSpec      `json:"spec"`
	Rebuild          bool                `json:"rebuild"`
	Hosts            []APIRequestHost    `json:"hosts"`
	Weights          map[string]float64  `json:"weights"`
	FilterProperties APIFilterProperties `json:"filter_properties"`
}

// APINovaExternalSchedulerResponse carries the ordered list of chosen
// host names, one entry per placed instance, matching the legacy Nova
// contract of "return names, let Nova zip them against instance UUIDs
// it already knows about".
type APINovaExternalSchedulerResponse struct {
	Hosts []string `json:"hosts"`
}

func canRunScheduler(req APINovaExternalSchedulerRequest) (bool, string) {
	if req.Rebuild {
		return false, "rebuild is not supported"
	}
	if req.Spec.NInstances <= 0 {
		return false, "num_instances must be positive"
	}
	return true, ""
}

func toHosts(apiHosts []APIRequestHost) []Host {
	hosts := make([]Host, len(apiHosts))
	for i, h := range apiHosts {
		hosts[i] = Host{
			Name:                 h.Name,
			Node:                 h.Node,
			ServiceEnabled:       h.Status == "enabled",
			ServiceUp:            h.State == "up",
			FreeRAMMB:            h.FreeRAMMB,
			TotalUsableRAMMB:     h.TotalUsableRAMMB,
			UsedRAMMB:            h.UsedRAMMB,
			FreeDiskMB:           h.FreeDiskMB,
			TotalUsableDiskMB:    h.TotalUsableDiskMB,
			UsedDiskMB:           h.UsedDiskMB,
			VCPUsTotal:           h.VCPUsTotal,
			VCPUsUsed:            h.VCPUsUsed,
			NumInstances:         h.NumInstances,
			HypervisorVersion:    h.HypervisorVersion,
			SupportedInstances:   h.SupportedInstances,
			RunningInstanceTypes: h.RunningInstanceTypes,
			PCIStats:             h.PCIStats,
			Aggregates:           h.Aggregates,
			Metrics:              h.Metrics,
		}
	}
	return hosts
}

func toFilterProperties(req APINovaExternalSchedulerRequest) FilterProperties {
	fp := req.FilterProperties
	return FilterProperties{
		NumInstances:      req.Spec.NInstances,
		InstanceUUIDs:     fp.InstanceUUIDs,
		InstanceType:      fp.InstanceType,
		ImageProperties:   fp.ImageProperties,
		SchedulerHints:    fp.SchedulerHints,
		GroupPolicies:     fp.GroupPolicies,
		GroupHosts:        fp.GroupHosts,
		PCIRequests:       fp.PCIRequests,
		RequestedNetworks: fp.RequestedNetworks,
		RetryHosts:        fp.RetryHosts,
		ProjectID:         req.Spec.ProjectID,
		IsolatedHosts:     fp.IsolatedHosts,
		TrustedHosts:      fp.TrustedHosts,
		MetricRatios:      fp.MetricRatios,
	}
}

// solveTelemetry is the payload published to mqtt once a request
// completes, for offline analysis of placement decisions.
type solveTelemetry struct {
	ProjectID    string   `json:"project_id"`
	NumInstances int      `json:"num_instances"`
	NumHosts     int      `json:"num_hosts"`
	Assignments  []string `json:"assignments"`
	Infeasible   bool     `json:"infeasible"`
}

// API exposes the Engine over the legacy Nova external-scheduler HTTP
// contract.
type API struct {
	engine   *Engine
	monitor  APIMonitor
	mqtt     mqtt.Client
	resolver InstanceTypeResolver
	hosts    HostLister
	config   conf.APIConfig
}

// NewAPI builds an API handler around the given engine. resolver and
// hosts may both be nil, in which case requests are expected to carry a
// fully populated instance_type and hosts array respectively.
func NewAPI(engine *Engine, monitor APIMonitor, mqttClient mqtt.Client, resolver InstanceTypeResolver, hosts HostLister, config conf.APIConfig) *API {
	return &API{engine: engine, monitor: monitor, mqtt: mqttClient, resolver: resolver, hosts: hosts, config: config}
}

// Init binds the handler to mux.
func (a *API) Init(mux *http.ServeMux) {
	mux.HandleFunc(APINovaExternalSchedulerURL, a.NovaExternalScheduler)
}

// NovaExternalScheduler handles POST requests from the Nova scheduler
// manager: it decodes the hosts/spec/filter_properties, runs Engine.Solve,
// and responds with the ordered list of chosen host names.
func (a *API) NovaExternalScheduler(w http.ResponseWriter, r *http.Request) {
	c := a.monitor.Callback(w, r, APINovaExternalSchedulerURL)

	if r.Method != http.MethodPost {
		c.Respond(http.StatusMethodNotAllowed, fmt.Errorf("invalid request method: %s", r.Method), "invalid request method")
		return
	}
	defer r.Body.Close()

	var req APINovaExternalSchedulerRequest
	body, err := io.ReadAll(r.Body)
	if err != nil {
		c.Respond(http.StatusBadRequest, err, "failed to read request body")
		return
	}
	if a.config.LogRequestBodies {
		slog.Info("request body", "url", APINovaExternalSchedulerURL, "body", string(body))
	}
	if err := json.Unmarshal(body, &req); err != nil {
		c.Respond(http.StatusBadRequest, err, "failed to decode request body")
		return
	}

	slog.Info("handling POST request",
		"url", APINovaExternalSchedulerURL,
		"hosts", len(req.Hosts), "spec", req.Spec)

	if ok, reason := canRunScheduler(req); !ok {
		c.Respond(http.StatusBadRequest, fmt.Errorf("cannot run scheduler: %s", reason), reason)
		return
	}

	hosts := toHosts(req.Hosts)
	if len(hosts) == 0 && a.hosts != nil {
		listed, err := a.hosts.ListHosts(r.Context())
		if err != nil {
			c.Respond(http.StatusInternalServerError, err, "failed to list candidate hosts")
			return
		}
		hosts = listed
	}
	filterProps := toFilterProperties(req)

	if a.resolver != nil && filterProps.InstanceType.ID != "" && len(filterProps.InstanceType.ExtraSpecs) == 0 {
		resolved, err := a.resolver.Get(r.Context(), filterProps.InstanceType.ID)
		if err != nil {
			slog.Warn("failed to resolve instance type, falling back to request payload",
				"instance_type_id", filterProps.InstanceType.ID, "error", err)
		} else {
			filterProps.InstanceType = resolved
		}
	}

	assignments, err := a.engine.Solve(r.Context(), hosts, filterProps)
	if err != nil {
		c.Respond(http.StatusInternalServerError, err, "failed to solve placement")
		return
	}

	names := make([]string, len(assignments))
	for i, assignment := range assignments {
		names[i] = assignment.Host.Name
	}

	if a.mqtt != nil {
		a.mqtt.Publish(TopicSolveFinished, solveTelemetry{
			ProjectID:    req.Spec.ProjectID,
			NumInstances: req.Spec.NInstances,
			NumHosts:     len(hosts),
			Assignments:  names,
			Infeasible:   len(assignments) == 0,
		})
	}

	response := APINovaExternalSchedulerResponse{Hosts: names}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		c.Respond(http.StatusInternalServerError, err, "failed to encode response")
		return
	}
	c.Respond(http.StatusOK, nil, "Success")
}
