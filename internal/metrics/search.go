package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and catalog Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medidex",
			Name:      "search_requests_total",
			Help:      "Total number of catalog searches",
		},
		[]string{"path", "status"}, // path: "search" / "plain"
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medidex",
			Name:      "search_duration_seconds",
			Help:      "Catalog search duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"path"},
	)

	CatalogOpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "medidex",
			Name:      "catalog_op_duration_seconds",
			Help:      "Catalog backend operation duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"backend", "op"},
	)

	CatalogOpErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medidex",
			Name:      "catalog_op_errors_total",
			Help:      "Total catalog backend operation errors",
		},
		[]string{"backend", "op"},
	)

	CatalogSnapshotLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "medidex",
			Name:      "catalog_snapshot_loads_total",
			Help:      "Catalog snapshot cache hits and reloads",
		},
		[]string{"result"}, // "hit" / "reload" / "error"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search and catalog metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(CatalogOpDuration)
	prometheus.MustRegister(CatalogOpErrorsTotal)
	prometheus.MustRegister(CatalogSnapshotLoadsTotal)
	searchMetricsRegistered = true
}
