// Package metrics exposes Prometheus instrumentation for the HTTP surface,
// the storage boundary, and traversal queries.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles every collector behind one Prometheus registry.
type Registry struct {
	registry *prometheus.Registry

	// HTTP
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Storage
	StoreOperationsTotal   *prometheus.CounterVec
	StoreOperationDuration *prometheus.HistogramVec

	// Traversal
	TraversalsTotal      *prometheus.CounterVec
	TraversalDuration    prometheus.Histogram
	TraversalResultNodes prometheus.Histogram

	// Events
	EventsPublishedTotal *prometheus.CounterVec
}

// NewRegistry creates a registry with all collectors registered.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initHTTPMetrics()
	r.initStoreMetrics()
	r.initQueryMetrics()
	return r
}

// Handler returns the /metrics HTTP handler.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
