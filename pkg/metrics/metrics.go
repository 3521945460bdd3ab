// Package metrics exposes Prometheus collectors for the search service.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/soundprediction/verity/pkg/types"
)

// Search outcomes.
const (
	OutcomeSuccess = "success"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Pipeline metrics
	Searches           *prometheus.CounterVec
	SearchDuration     prometheus.Histogram
	SearchResults      prometheus.Histogram
	GenerationFailures *prometheus.CounterVec

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// NewCollector creates a collector with its own registry. Each call returns
// an independent set of metrics, so tests can create as many as they need.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_total",
				Help:      "Total number of natural-language searches by outcome",
			},
			[]string{"outcome"},
		),
		SearchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "End-to-end search duration in seconds",
				Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
			},
		),
		SearchResults: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_results",
				Help:      "Number of scraps returned per successful search",
				Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
			},
		),
		GenerationFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generation_failures_total",
				Help:      "Completion failures by category",
			},
			[]string{"category"},
		),
		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits",
			},
		),
		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.Searches,
		c.SearchDuration,
		c.SearchResults,
		c.GenerationFailures,
		c.CacheHits,
		c.CacheMisses,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// RecordHTTPRequest records one handled request.
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordSearch records a finished search. A nil err counts as success;
// otherwise the outcome is the error kind, and generation failures are
// also counted by category.
func (c *Collector) RecordSearch(err error, results int, duration time.Duration) {
	c.SearchDuration.Observe(duration.Seconds())
	if err == nil {
		c.Searches.WithLabelValues(OutcomeSuccess).Inc()
		c.SearchResults.Observe(float64(results))
		return
	}

	var se *types.SearchError
	kind := types.KindOf(err)
	if kind == "" {
		kind = "internal"
	}
	c.Searches.WithLabelValues(string(kind)).Inc()

	if kind == types.KindGeneration && errors.As(err, &se) {
		c.GenerationFailures.WithLabelValues(string(se.Category)).Inc()
	}
}

// RecordCacheLookup counts a cache hit or miss.
func (c *Collector) RecordCacheLookup(hit bool) {
	if hit {
		c.CacheHits.Inc()
		return
	}
	c.CacheMisses.Inc()
}
