package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initQueryMetrics() {
	r.TraversalsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "matslogic_traversals_total",
			Help: "Total number of one-hop traversal queries",
		},
		[]string{"status"},
	)

	r.TraversalDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matslogic_traversal_duration_seconds",
			Help:    "One-hop traversal latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.TraversalResultNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matslogic_traversal_result_nodes",
			Help:    "Number of distinct nodes returned per traversal",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)
}
