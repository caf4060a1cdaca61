package metrics

import "github.com/prometheus/client_golang/prometheus"

// Feed and ranking Prometheus metrics.
var (
	FeedPagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feedrank",
			Name:      "feed_pages_total",
			Help:      "Total number of feed pages served",
		},
		[]string{"mode", "viewer"}, // mode: section/topic/author; viewer: anonymous/authenticated
	)

	FeedEntriesDelivered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "feedrank",
			Name:      "feed_entries_delivered_total",
			Help:      "Total number of feed entries delivered",
		},
	)

	AffinityRecomputesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feedrank",
			Name:      "affinity_recomputes_total",
			Help:      "Affinity recompute outcomes",
		},
		[]string{"outcome"}, // "ran" / "skipped"
	)

	GraphInsertionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "feedrank",
			Name:      "graph_insertions_total",
			Help:      "Implication insertion outcomes",
		},
		[]string{"outcome"}, // "ok" / "cycle" / "error"
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers the feed and ranking metrics. Must be
// called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(FeedPagesTotal)
	prometheus.MustRegister(FeedEntriesDelivered)
	prometheus.MustRegister(AffinityRecomputesTotal)
	prometheus.MustRegister(GraphInsertionsTotal)
	domainMetricsRegistered = true
}
