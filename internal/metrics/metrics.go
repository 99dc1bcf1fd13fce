// Package metrics provides Prometheus metrics for the price comparison
// backend. Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kart_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kart_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Comparison Metrics
	ComparisonsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kart_comparisons_total",
			Help: "Total number of price comparison cycles run",
		},
	)

	ComparisonDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kart_comparison_duration_seconds",
			Help:    "Time taken to complete one comparison cycle",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	// Adapter Metrics
	AdapterFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kart_adapter_fetch_duration_seconds",
			Help:    "Time taken by one platform adapter to fetch all items",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"platform"},
	)

	AdapterTimeoutsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kart_adapter_timeouts_total",
			Help: "Adapter invocations abandoned at the comparison deadline",
		},
		[]string{"platform"},
	)

	AdapterItemsUnavailable = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kart_adapter_items_unavailable_total",
			Help: "Items a platform reported as unavailable",
		},
		[]string{"platform"},
	)

	// Price History Metrics
	HistoryWritesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kart_history_writes_total",
			Help: "Price history records written",
		},
	)

	HistoryWriteFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kart_history_write_failures_total",
			Help: "Price history writes that failed (best-effort, swallowed)",
		},
	)

	HistoryPrunedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kart_history_pruned_total",
			Help: "Price history records deleted by retention pruning",
		},
	)

	// Gemini Metrics
	GeminiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kart_gemini_requests_total",
			Help: "Gemini API requests by capability",
		},
		[]string{"capability"}, // "extract", "insights", "chat", "substitute"
	)

	GeminiErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kart_gemini_errors_total",
			Help: "Gemini API errors by type",
		},
		[]string{"type"}, // "network", "api", "parse"
	)

	GeminiAPILatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kart_gemini_api_latency_seconds",
			Help:    "Gemini API call latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
	)

	ExtractionCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kart_extraction_cache_hits_total",
			Help: "Item extraction LRU cache hit count",
		},
	)
)
