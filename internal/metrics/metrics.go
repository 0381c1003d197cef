package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the inventory service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Store Metrics
	StoreQueriesTotal  *prometheus.CounterVec
	StoreQueryDuration *prometheus.HistogramVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Ingestion Metrics
	IngestionRunsTotal    *prometheus.CounterVec
	IngestionRunDuration  prometheus.Histogram
	IngestionRecordsTotal *prometheus.CounterVec
	SourceRequestsTotal   *prometheus.CounterVec
	ListingsStored        prometheus.Gauge
}

// NewMetricsRegistry registers every metric on reg. A nil reg creates the
// metrics without registering them.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inventory_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "inventory_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Store Metrics
		StoreQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_store_queries_total",
				Help: "Total listing store operations by type and outcome",
			},
			[]string{"operation", "outcome"},
		),
		StoreQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inventory_store_query_duration_seconds",
				Help:    "Listing store operation time in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"operation"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Ingestion Metrics
		IngestionRunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_ingestion_runs_total",
				Help: "Ingestion runs by final status",
			},
			[]string{"status"},
		),
		IngestionRunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "inventory_ingestion_run_duration_seconds",
				Help:    "Ingestion run execution time in seconds",
				Buckets: []float64{0.5, 1, 5, 10, 30, 60, 120, 300, 600},
			},
		),
		IngestionRecordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_ingestion_records_total",
				Help: "Records seen by ingestion stage (fetched, rejected, normalized, inserted, duplicate)",
			},
			[]string{"stage"},
		),
		SourceRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inventory_source_requests_total",
				Help: "Requests made to the auction source by endpoint and outcome",
			},
			[]string{"endpoint", "outcome"},
		),
		ListingsStored: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "inventory_listings_stored",
				Help: "Listings in the store after the last ingestion run",
			},
		),
	}
}
