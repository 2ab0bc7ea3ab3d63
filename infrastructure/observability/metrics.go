// Package observability provides the metrics and tracing backends.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"insightseo/application/queries/bus"
)

// Recorder is what the query bus and the HTTP layer report to
type Recorder interface {
	bus.Metrics
	ObserveHTTP(method, route string, status int, duration time.Duration)
}

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Query metrics
	Queries       *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
}

// NewCollector creates a collector with its own registry so several
// instances can coexist in tests.
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	queries := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of dispatched queries by outcome",
		},
		[]string{"query", "outcome"},
	)

	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Query handling duration in seconds",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"query"},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		queries,
		queryDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Collector{
		registry:      registry,
		HTTPRequests:  httpRequests,
		HTTPDuration:  httpDuration,
		Queries:       queries,
		QueryDuration: queryDuration,
	}
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// StartTimer implements bus.Metrics
func (c *Collector) StartTimer(_, label string) bus.Timer {
	return &promTimer{
		observer: c.QueryDuration.WithLabelValues(label),
		start:    time.Now(),
	}
}

// Increment implements bus.Metrics. The bus reports query_count,
// query_success and query_errors; the latter two become outcomes.
func (c *Collector) Increment(metric, label string) {
	switch metric {
	case "query_success":
		c.Queries.WithLabelValues(label, "success").Inc()
	case "query_errors":
		c.Queries.WithLabelValues(label, "error").Inc()
	}
}

// ObserveHTTP records one served request
func (c *Collector) ObserveHTTP(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

type promTimer struct {
	observer prometheus.Observer
	start    time.Time
}

func (t *promTimer) Stop() {
	t.observer.Observe(time.Since(t.start).Seconds())
}

// NopRecorder discards everything
type NopRecorder struct{}

// StartTimer implements bus.Metrics
func (NopRecorder) StartTimer(_, _ string) bus.Timer { return nopTimer{} }

// Increment implements bus.Metrics
func (NopRecorder) Increment(_, _ string) {}

// ObserveHTTP implements Recorder
func (NopRecorder) ObserveHTTP(_, _ string, _ int, _ time.Duration) {}

type nopTimer struct{}

func (nopTimer) Stop() {}

var (
	_ Recorder = (*Collector)(nil)
	_ Recorder = NopRecorder{}
)
