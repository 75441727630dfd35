// Package metrics defines and registers all custom Prometheus metrics for the
// storefront gateway. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default registry on package load through
// promauto; HTTP-level metrics come from the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Backend metrics ───────────────────────────────────────────────────────────

// BackendRequestsTotal counts calls to the storefront backend.
// Labels:
//   - endpoint: route template of the call (e.g. "/cart/{cart}")
//   - method: HTTP method
//   - code: response status, or "transport" when no response arrived
var BackendRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_requests_total",
		Help:      "Total number of requests issued to the storefront backend.",
	},
	[]string{"endpoint", "method", "code"},
)

// BackendRequestDuration measures backend round trips, including failed ones.
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of storefront backend requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// SessionsExpiredTotal counts backend 401s that cleared a session's credentials.
var SessionsExpiredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sessions_expired_total",
		Help:      "Total number of sessions whose credentials were cleared after a backend 401.",
	},
)

// ── Auth flow metrics ─────────────────────────────────────────────────────────

// AuthFlowEventsTotal counts phone verification flow events.
// Labels:
//   - mode: "login" or "register"
//   - event: audit event name (e.g. "credentials_accepted", "otp_rejected")
var AuthFlowEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_flow_events_total",
		Help:      "Total number of phone verification flow events.",
	},
	[]string{"mode", "event"},
)

// ── Query cache metrics ───────────────────────────────────────────────────────

// QueryCacheLookupsTotal counts cache reads.
// Label:
//   - result: "hit", "miss" or "error"
var QueryCacheLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "query_cache_lookups_total",
		Help:      "Total number of query cache lookups, labelled by result.",
	},
	[]string{"result"},
)

// InvalidationsTotal counts invalidation jobs.
// Label:
//   - result: "processed", "dropped" (queue full) or "failed"
var InvalidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_invalidations_total",
		Help:      "Total number of cache invalidation jobs, labelled by result.",
	},
	[]string{"result"},
)

// InvalidationQueueDepth tracks pending jobs per dispatcher worker.
var InvalidationQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_invalidation_queue_depth",
		Help:      "Current number of invalidation jobs pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)
