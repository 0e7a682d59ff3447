package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "riverdub"

// Catalog Prometheus metrics.
var (
	CatalogSearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_searches_total",
			Help:      "Total number of catalog searches",
		},
		[]string{"filtered", "status"}, // filtered: "text" / "filters" / "none"
	)

	CatalogSearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_search_duration_seconds",
			Help:      "Catalog search duration in seconds, storage load included",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	CatalogSearchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_search_results",
			Help:      "Number of records returned per catalog search",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	CatalogRecordsScanned = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_records_scanned_total",
			Help:      "Total records evaluated by the query engine",
		},
	)

	LoginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Admin login attempts",
		},
		[]string{"result"}, // "success" / "invalid" / "rate_limited"
	)

	UploadBytesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upload_bytes_total",
			Help:      "Bytes stored from uploads",
		},
		[]string{"kind"}, // "file" / "preview"
	)

	VideoWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "video_writes_total",
			Help:      "Video create and update operations",
		},
		[]string{"op", "status"},
	)
)

var catalogMetricsRegistered bool

// RegisterCatalogMetrics registers catalog, auth and upload metrics. Must be called once from main.
func RegisterCatalogMetrics() {
	if catalogMetricsRegistered {
		return
	}
	prometheus.MustRegister(
		CatalogSearchesTotal,
		CatalogSearchDuration,
		CatalogSearchResults,
		CatalogRecordsScanned,
		LoginAttemptsTotal,
		UploadBytesTotal,
		VideoWritesTotal,
	)
	catalogMetricsRegistered = true
}
