// Package metrics provides Prometheus metrics for the Pokemon trader backend.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptcg_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ptcg_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Pokemon TCG API Metrics
	CatalogRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptcg_catalog_requests_total",
			Help: "Total number of Pokemon TCG API requests",
		},
		[]string{"endpoint", "status"}, // status: HTTP code or "error"
	)

	CatalogRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ptcg_catalog_request_duration_seconds",
			Help:    "Pokemon TCG API call latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	SetCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ptcg_set_cache_hits_total",
			Help: "Set metadata lookups served from the in-process cache",
		},
	)

	// Ingestion Metrics
	CardsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptcg_cards_ingested_total",
			Help: "Cards seen by ingestion flows",
		},
		[]string{"result"}, // "new", "skipped"
	)

	SetsIngestedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptcg_sets_ingested_total",
			Help: "Sets seen by set-list refreshes",
		},
		[]string{"result"}, // "new", "skipped"
	)

	IngestionFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ptcg_ingestion_failures_total",
			Help: "Failed ingestion flows",
		},
		[]string{"flow"}, // "page", "sweep", "sets", "recent_sets"
	)

	// Card Database Metrics
	CardCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ptcg_card_cache_size",
			Help: "Number of cards in the local catalog cache",
		},
	)

	SetCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ptcg_set_cache_size",
			Help: "Number of sets in the local catalog cache",
		},
	)

	// Search Metrics
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ptcg_search_duration_seconds",
			Help:    "Time taken to scan and filter the card cache",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ptcg_search_results",
			Help:    "Number of cards returned per search",
			Buckets: []float64{0, 1, 5, 20, 100, 500, 2000},
		},
	)
)

// GinMiddleware records request counts and latency by route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
