// Package metrics exposes Prometheus counters for a clustering run.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for a run
type Registry struct {
	// Input
	RecordsRead *prometheus.CounterVec

	// Admission
	OffersRejected *prometheus.CounterVec
	TagErrors      prometheus.Counter

	// Emission
	ClustersEmitted prometheus.Counter
	ClustersDropped *prometheus.CounterVec
	ClusterSize     prometheus.Histogram
	ClusterHits     prometheus.Histogram

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	r.initInputMetrics()
	r.initClusterMetrics()
	return r
}

// Gatherer exposes the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.registry }

// Handler returns an HTTP handler serving the registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordRead counts one mapped record read from input.
func (r *Registry) RecordRead(input string) {
	r.RecordsRead.WithLabelValues(input).Inc()
}

// RecordRejected counts an offer the open cluster refused.
func (r *Registry) RecordRejected(reason string) {
	r.OffersRejected.WithLabelValues(reason).Inc()
}

// RecordTagError counts one failed mobile-tag lookup.
func (r *Registry) RecordTagError() {
	r.TagErrors.Inc()
}

// RecordEmitted records a written cluster and its shape.
func (r *Registry) RecordEmitted(hits, size int) {
	r.ClustersEmitted.Inc()
	r.ClusterHits.Observe(float64(hits))
	r.ClusterSize.Observe(float64(size))
}

// RecordDropped counts a closed cluster that produced no output.
func (r *Registry) RecordDropped(reason string) {
	r.ClustersDropped.WithLabelValues(reason).Inc()
}
