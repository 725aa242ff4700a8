// Package monitoring provides metrics and observability for the RSS feed frontend
package monitoring

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Backend call metrics
	backendCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rss_frontend_backend_calls_total",
			Help: "Total number of calls made to the RSS backend",
		},
		[]string{"action", "status"},
	)

	backendCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rss_frontend_backend_call_duration_seconds",
			Help:    "Duration of calls made to the RSS backend",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"action", "status"},
	)

	backendItemsCount = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rss_frontend_backend_items_count",
			Help:    "Number of items returned by list endpoints of the RSS backend",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"action"},
	)

	// Filter metrics
	filterApplications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rss_frontend_filter_applications_total",
			Help: "Total number of times the displayed subset was re-derived",
		},
		[]string{"time_mode"},
	)

	filterDisplayedRatio = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rss_frontend_filter_displayed_ratio",
			Help:    "Share of the full collection kept by the applied filter",
			Buckets: []float64{0, 0.1, 0.25, 0.5, 0.75, 0.9, 1},
		},
	)

	// Session metrics
	sessionLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rss_frontend_session_lookups_total",
			Help: "Total number of session state lookups",
		},
		[]string{"result"},
	)

	activeSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rss_frontend_active_sessions",
			Help: "Number of sessions currently held in memory",
		},
	)

	// HTTP metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rss_frontend_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rss_frontend_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)
)

// Running totals read by the alert rules
var (
	backendCalls    atomic.Int64
	backendFailures atomic.Int64
)

// RecordBackendCall records metrics for a call to the RSS backend.
// itemsCount is ignored when negative.
func RecordBackendCall(action, status string, duration float64, itemsCount int) {
	backendCallsTotal.WithLabelValues(action, status).Inc()
	backendCallDuration.WithLabelValues(action, status).Observe(duration)
	if itemsCount >= 0 {
		backendItemsCount.WithLabelValues(action).Observe(float64(itemsCount))
	}

	backendCalls.Add(1)
	if status != "success" {
		backendFailures.Add(1)
	}
}

// RecordFilterApplication records one re-derivation of the displayed subset
func RecordFilterApplication(timeMode string, displayed, total int) {
	filterApplications.WithLabelValues(timeMode).Inc()
	if total > 0 {
		filterDisplayedRatio.Observe(float64(displayed) / float64(total))
	}
}

// RecordSessionHit records a session state found in memory
func RecordSessionHit() {
	sessionLookups.WithLabelValues("hit").Inc()
}

// RecordSessionMiss records a lookup that had to start a fresh session
func RecordSessionMiss() {
	sessionLookups.WithLabelValues("miss").Inc()
}

// UpdateActiveSessions updates the active sessions gauge
func UpdateActiveSessions(count int) {
	activeSessions.Set(float64(count))
}

// RecordHTTPRequest records HTTP request metrics
func RecordHTTPRequest(method, endpoint, status string, duration float64) {
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration)
}

// BackendCallTotals returns the number of backend calls and failures seen so far
func BackendCallTotals() (calls, failures int64) {
	return backendCalls.Load(), backendFailures.Load()
}
