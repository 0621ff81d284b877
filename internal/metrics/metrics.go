// Rinkside - NHL Advanced Analytics and Clip Intelligence Backend
// Copyright 2026 Rinkside Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rinkside/rinkside

// Package metrics provides Prometheus instrumentation for the HTTP surface,
// the NHL upstream proxy, the DuckDB warehouse, the in-process TTL cache,
// and the query orchestrator's tool fan-out.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// NHL upstream proxy metrics.
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhl_upstream_requests_total",
			Help: "Total number of NHL API upstream requests",
		},
		[]string{"endpoint", "outcome"}, // outcome: ok, timeout, bad_gateway, invalid
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nhl_upstream_duration_seconds",
			Help:    "NHL API upstream request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Warehouse (DuckDB) metrics.
	WarehouseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warehouse_query_duration_seconds",
			Help:    "Duration of DuckDB warehouse queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"dataset"},
	)

	WarehouseQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warehouse_query_errors_total",
			Help: "Total number of DuckDB warehouse query errors",
		},
		[]string{"dataset"},
	)

	// TTL cache metrics.
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"surface"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"surface"},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of expired cache entries swept",
		},
	)

	// Orchestrator tool metrics.
	ToolInvocations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orchestrator_tool_invocations_total",
			Help: "Total number of orchestrator tool invocations",
		},
		[]string{"tool", "outcome"}, // outcome: success, failure
	)

	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orchestrator_tool_duration_seconds",
			Help:    "Orchestrator tool run duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"tool"},
	)

	// Conversation store metrics.
	ConversationWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conversation_writes_total",
			Help: "Total number of conversation store writes",
		},
		[]string{"operation"}, // create, append, rename, delete
	)

	// Build info.
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rinkside_build_info",
			Help: "Build information (constant 1 labeled by version)",
		},
		[]string{"version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rinkside_uptime_seconds",
			Help: "Process uptime in seconds",
		},
	)
)

var startTime = time.Now()

// RecordAPIRequest records one finished HTTP request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordUpstream records one NHL upstream call.
func RecordUpstream(endpoint, outcome string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordWarehouseQuery records one warehouse query.
func RecordWarehouseQuery(dataset string, duration time.Duration, err error) {
	WarehouseQueryDuration.WithLabelValues(dataset).Observe(duration.Seconds())
	if err != nil {
		WarehouseQueryErrors.WithLabelValues(dataset).Inc()
	}
}

// RecordToolRun records one orchestrator tool invocation.
func RecordToolRun(tool string, duration time.Duration, success bool) {
	outcome := "success"
	if !success {
		outcome = "failure"
	}
	ToolInvocations.WithLabelValues(tool, outcome).Inc()
	ToolDuration.WithLabelValues(tool).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// UpdateUptime refreshes the uptime gauge; called by the metrics janitor.
func UpdateUptime() {
	AppUptime.Set(time.Since(startTime).Seconds())
}

// SetAppInfo publishes the build version label.
func SetAppInfo(version string) {
	AppInfo.WithLabelValues(version).Set(1)
}
