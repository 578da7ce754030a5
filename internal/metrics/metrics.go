// Package metrics defines the Prometheus collectors of the dashboard service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BackendCallDuration tracks calls to the AI/Gmail backend
	BackendCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "backend_call_duration_seconds",
			Help:    "Backend API call duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
		[]string{"endpoint", "status"},
	)

	// HTTPRequestDuration tracks dashboard requests
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// InboxMessagesFetched counts messages appended to held inbox sequences
	InboxMessagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "inbox_messages_fetched_total",
			Help: "Inbox messages appended to a session's held sequence",
		},
		[]string{"mode"}, // mode: reset, more
	)

	// InboxDuplicatesSkipped counts fetched messages dropped because their id was already held
	InboxDuplicatesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "inbox_duplicates_skipped_total",
			Help: "Fetched inbox messages skipped because the id was already held",
		},
	)

	// SessionCacheErrors counts session store failures and malformed entries
	SessionCacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_cache_errors_total",
			Help: "Session store failures by operation",
		},
		[]string{"op"}, // op: get, set, clear, decode
	)
)

// ObserveBackendCall records the latency of one backend call
func ObserveBackendCall(endpoint string, statusCode int, start time.Time) {
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	BackendCallDuration.WithLabelValues(endpoint, status).Observe(time.Since(start).Seconds())
}
