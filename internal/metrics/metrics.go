// Package metrics provides the Prometheus collectors for the server.
// Scrape them at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mi_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mi_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Scryfall API Metrics
	ScryfallRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mi_scryfall_requests_total",
			Help: "Outbound Scryfall API requests by endpoint and status",
		},
		[]string{"endpoint", "status"},
	)

	// Search Cache Metrics
	SearchCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mi_search_cache_hits_total",
			Help: "Search cache hit count",
		},
	)

	SearchCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mi_search_cache_misses_total",
			Help: "Search cache miss count",
		},
	)

	// Catalog Metrics
	CardCatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mi_card_catalog_size",
			Help: "Number of cards cached in the local catalog",
		},
	)
)
