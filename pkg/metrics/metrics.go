package metrics

import "time"

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordStoreOperation records a storage operation
func (r *Registry) RecordStoreOperation(operation, status string, duration time.Duration) {
	r.StoreOperationsTotal.WithLabelValues(operation, status).Inc()
	r.StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordTraversal records a one-hop traversal query
func (r *Registry) RecordTraversal(status string, duration time.Duration, resultNodes int) {
	r.TraversalsTotal.WithLabelValues(status).Inc()
	r.TraversalDuration.Observe(duration.Seconds())
	if status == "ok" {
		r.TraversalResultNodes.Observe(float64(resultNodes))
	}
}

// RecordEventPublished records one published mutation event
func (r *Registry) RecordEventPublished(entity, action string) {
	r.EventsPublishedTotal.WithLabelValues(entity, action).Inc()
}
