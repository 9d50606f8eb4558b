// Package metrics provides Prometheus metrics for the lesson API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager holds the Prometheus instruments the service records into. A nil
// Manager is a valid no-op recorder, so tests can skip metrics wiring.
type Manager struct {
	registry *prometheus.Registry

	// HTTP performance
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Content operations
	entityWrites   *prometheus.CounterVec
	groupFetches   prometheus.Counter
	groupUpdates   prometheus.Counter
	updateFailures prometheus.Counter
}

// NewManager creates a metrics manager with its own registry, so the process
// exposes only what the service registers plus nothing from the default
// gatherer.
func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Manager{
		registry: registry,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lesson_api",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route pattern, and status code.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lesson_api",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		entityWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lesson_api",
			Subsystem: "content",
			Name:      "entity_writes_total",
			Help:      "Entity create, update, and delete operations by entity type.",
		}, []string{"entity_type", "operation"}),
		groupFetches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "lesson_api",
			Subsystem: "groups",
			Name:      "fetches_total",
			Help:      "Aggregated group listing requests served.",
		}),
		groupUpdates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "lesson_api",
			Subsystem: "groups",
			Name:      "updates_total",
			Help:      "Group updates applied.",
		}),
		updateFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "lesson_api",
			Subsystem: "groups",
			Name:      "update_failures_total",
			Help:      "Group updates rejected or rolled back.",
		}),
	}
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served request.
func (m *Manager) RecordHTTPRequest(method, route string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, statusCode(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordEntityWrite records one content mutation.
func (m *Manager) RecordEntityWrite(entityType, operation string) {
	if m == nil {
		return
	}
	m.entityWrites.WithLabelValues(entityType, operation).Inc()
}

// RecordGroupFetch records one aggregated group listing.
func (m *Manager) RecordGroupFetch() {
	if m == nil {
		return
	}
	m.groupFetches.Inc()
}

// RecordGroupUpdate records one applied or failed group update.
func (m *Manager) RecordGroupUpdate(failed bool) {
	if m == nil {
		return
	}
	if failed {
		m.updateFailures.Inc()
		return
	}
	m.groupUpdates.Inc()
}

func statusCode(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
