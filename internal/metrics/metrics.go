// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the admin console:
// - Console API endpoint latency and throughput
// - Upstream request latency, retries, and token refresh outcomes
// - Circuit breaker state
// - Session store operations
// - Audit pipeline throughput
// - WebSocket connections and snapshot recording

var (
	// Console API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_api_requests_total",
			Help: "Total number of console API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_api_request_duration_seconds",
			Help:    "Console API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "console_api_active_requests",
			Help: "Current number of active console API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Upstream Client Metrics
	UpstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_requests_total",
			Help: "Total number of requests issued to the upstream API",
		},
		[]string{"method", "route", "status_code"},
	)

	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "upstream_request_duration_seconds",
			Help:    "Upstream request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	UpstreamRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_request_errors_total",
			Help: "Total number of upstream requests that failed before a response",
		},
		[]string{"method", "route"},
	)

	UpstreamReplaysTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "upstream_request_replays_total",
			Help: "Total number of requests replayed after a token refresh",
		},
	)

	// Token Refresh Metrics
	RefreshAttemptsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "token_refresh_attempts_total",
			Help: "Total number of token refresh calls issued upstream",
		},
	)

	RefreshSuccessTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "token_refresh_success_total",
			Help: "Total number of successful token refreshes",
		},
	)

	RefreshFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "token_refresh_failures_total",
			Help: "Total number of failed token refreshes (session cleared)",
		},
	)

	RefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "token_refresh_duration_seconds",
			Help:    "Duration of token refresh calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SingleFlightWaitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "token_refresh_singleflight_waits_total",
			Help: "Total number of callers that waited on an in-flight refresh instead of starting their own",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Session Store Metrics
	SessionStoreOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_store_operations_total",
			Help: "Total number of session store operations",
		},
		[]string{"operation", "result"}, // operation: "get", "set", "delete"; result: "ok", "error"
	)

	SessionClearsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_clears_total",
			Help: "Total number of full session clears (logout or failed refresh)",
		},
	)

	// Audit Pipeline Metrics
	AuditEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "audit_events_published_total",
			Help: "Total number of audit events published to the event bus",
		},
		[]string{"event_type"},
	)

	AuditEventsPersisted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_events_persisted_total",
			Help: "Total number of audit events persisted to the event store",
		},
	)

	AuditPersistErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "audit_persist_errors_total",
			Help: "Total number of audit events that failed to persist",
		},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSMessagesDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_dropped_total",
			Help: "Total number of WebSocket messages dropped due to slow clients",
		},
	)

	// Analytics Snapshot Metrics
	SnapshotsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_snapshots_recorded_total",
			Help: "Total number of analytics snapshots recorded",
		},
	)

	SnapshotErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "analytics_snapshot_errors_total",
			Help: "Total number of failed snapshot attempts",
		},
	)

	SnapshotLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "analytics_snapshot_last_success_timestamp",
			Help: "Unix timestamp of last successful analytics snapshot",
		},
	)

	SnapshotDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analytics_snapshot_duration_seconds",
			Help:    "Duration of snapshot recording in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Upstream Health Metrics
	UpstreamHealthy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "upstream_healthy",
			Help: "Whether the upstream API is reachable (1=healthy, 0=unhealthy)",
		},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordAPIRequest records a console API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active console API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordUpstreamRequest records an upstream request that produced a response
func RecordUpstreamRequest(method, route, statusCode string, duration time.Duration) {
	UpstreamRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
	UpstreamRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordUpstreamError records an upstream request that failed before a response
func RecordUpstreamError(method, route string) {
	UpstreamRequestErrors.WithLabelValues(method, route).Inc()
}

// RecordReplay records a request replayed after a token refresh
func RecordReplay() {
	UpstreamReplaysTotal.Inc()
}

// RecordRefreshAttempt records a token refresh call being issued
func RecordRefreshAttempt() {
	RefreshAttemptsTotal.Inc()
}

// RecordRefreshOutcome records the result and duration of a token refresh
func RecordRefreshOutcome(success bool, duration time.Duration) {
	RefreshDuration.Observe(duration.Seconds())
	if success {
		RefreshSuccessTotal.Inc()
	} else {
		RefreshFailuresTotal.Inc()
	}
}

// RecordSingleFlightWait records a caller piggybacking on an in-flight refresh
func RecordSingleFlightWait() {
	SingleFlightWaitsTotal.Inc()
}

// RecordSessionOperation records a session store operation and its result
func RecordSessionOperation(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	SessionStoreOperations.WithLabelValues(operation, result).Inc()
}

// RecordSessionClear records a full credential clear
func RecordSessionClear() {
	SessionClearsTotal.Inc()
}

// RecordAuditPublished records an audit event published to the bus
func RecordAuditPublished(eventType string) {
	AuditEventsPublished.WithLabelValues(eventType).Inc()
}

// RecordAuditPersisted records the outcome of persisting an audit event
func RecordAuditPersisted(err error) {
	if err != nil {
		AuditPersistErrors.Inc()
		return
	}
	AuditEventsPersisted.Inc()
}

// RecordSnapshot records the outcome of an analytics snapshot attempt
func RecordSnapshot(duration time.Duration, err error) {
	SnapshotDuration.Observe(duration.Seconds())
	if err != nil {
		SnapshotErrors.Inc()
		return
	}
	SnapshotsRecorded.Inc()
	SnapshotLastSuccess.Set(float64(time.Now().Unix()))
}

// SetUpstreamHealthy sets the upstream health gauge
func SetUpstreamHealthy(healthy bool) {
	if healthy {
		UpstreamHealthy.Set(1)
	} else {
		UpstreamHealthy.Set(0)
	}
}
