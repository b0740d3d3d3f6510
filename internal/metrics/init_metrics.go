package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initInputMetrics() {
	r.RecordsRead = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "meclust_records_read_total",
			Help: "Mapped alignment records read, by input file",
		},
		[]string{"input"},
	)
}

func (r *Registry) initClusterMetrics() {
	r.OffersRejected = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "meclust_offers_rejected_total",
			Help: "Records refused by the open cluster, by reason",
		},
		[]string{"reason"},
	)

	r.TagErrors = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "meclust_tag_errors_total",
			Help: "Mobile-element tag failures at admission or emission",
		},
	)

	r.ClustersEmitted = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "meclust_clusters_emitted_total",
			Help: "Cluster summaries written",
		},
	)

	r.ClustersDropped = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "meclust_clusters_dropped_total",
			Help: "Closed clusters that were not written, by reason",
		},
		[]string{"reason"},
	)

	r.ClusterSize = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "meclust_cluster_size_bases",
			Help:    "Reference span of emitted clusters",
			Buckets: prometheus.ExponentialBuckets(50, 2, 10),
		},
	)

	r.ClusterHits = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "meclust_cluster_hits",
			Help:    "Member reads per emitted cluster",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)
}
