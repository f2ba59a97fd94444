// Copyright 2025 SAP SE
// SPDX-License-Identifier: Apache-2.0

package placement

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cobaltcore-dev/placement-solver/internal/monitoring"
	"github.com/prometheus/client_golang/prometheus"
)

// APIMonitor collects Prometheus metrics for the HTTP surface.
type APIMonitor struct {
	apiRequestsTimer *prometheus.HistogramVec
}

// NewAPIMonitor creates a monitor and registers its metrics.
func NewAPIMonitor(registry *monitoring.Registry) APIMonitor {
	apiRequestsTimer := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "placement_solver_api_request_duration_seconds",
		Help:    "Duration of API requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status", "error"})
	registry.MustRegister(apiRequestsTimer)
	return APIMonitor{apiRequestsTimer: apiRequestsTimer}
}

// MonitoredCallback times one HTTP request and reports its outcome.
type MonitoredCallback struct {
	monitor *APIMonitor
	w       http.ResponseWriter
	r       *http.Request
	pattern string
	t       time.Time
}

// Callback starts timing a request handled under pattern.
func (m *APIMonitor) Callback(w http.ResponseWriter, r *http.Request, pattern string) MonitoredCallback {
	return MonitoredCallback{monitor: m, w: w, r: r, pattern: pattern, t: time.Now()}
}

// Respond writes the response and records the request's duration. A
// non-nil err is logged and written as the HTTP error body; text is
// always the label recorded on the metric, so it must never contain
// internal details.
func (c MonitoredCallback) Respond(code int, err error, text string) {
	if c.monitor != nil && c.monitor.apiRequestsTimer != nil {
		c.monitor.apiRequestsTimer.WithLabelValues(
			c.r.Method, c.pattern, strconv.Itoa(code), text,
		).Observe(time.Since(c.t).Seconds())
	}
	if err != nil {
		slog.Error("failed to handle request", "error", err, "path", c.pattern)
		http.Error(c.w, text, code)
	}
}

// SolverMonitor collects Prometheus metrics for the placement engine
// itself: overall solve duration/status and per-plugin evaluation
// time, mirroring the teacher's per-step weigher/filter timers.
type SolverMonitor struct {
	solveDuration  *prometheus.HistogramVec
	pluginDuration *prometheus.HistogramVec
}

// NewSolverMonitor creates a monitor and registers its metrics.
func NewSolverMonitor(registry *monitoring.Registry) SolverMonitor {
	solveDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "placement_solver_solve_duration_seconds",
		Help:    "Duration of a full Engine.Solve call",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})
	pluginDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "placement_solver_plugin_duration_seconds",
		Help:    "Duration of a single cost/constraint plugin's Compute call",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind", "name"})
	registry.MustRegister(solveDuration, pluginDuration)
	return SolverMonitor{solveDuration: solveDuration, pluginDuration: pluginDuration}
}

// ObserveSolve records how long a full Solve call took and its outcome.
func (m *SolverMonitor) ObserveSolve(status string, duration time.Duration) {
	if m == nil || m.solveDuration == nil {
		return
	}
	m.solveDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// ObservePlugin records how long a single plugin's Compute call took.
func (m *SolverMonitor) ObservePlugin(kind, name string, duration time.Duration) {
	if m == nil || m.pluginDuration == nil {
		return
	}
	m.pluginDuration.WithLabelValues(kind, name).Observe(duration.Seconds())
}
