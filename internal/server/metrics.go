package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the relay.
type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
	TokenRequestsTotal   *prometheus.CounterVec
	LyricsLookupsTotal   *prometheus.CounterVec
	RhymeGroups          prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates the collectors and registers them, with the Go and process collectors, on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed.",
			},
		),
		TokenRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rhymx_token_requests_total",
				Help: "Token exchanges by kind (login, refresh) and result (ok, missing, failed).",
			},
			[]string{"kind", "result"},
		),
		LyricsLookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rhymx_lyrics_lookups_total",
				Help: "Lyrics lookups by result (found, not_found, error, missing).",
			},
			[]string{"result"},
		),
		RhymeGroups: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "rhymx_rhyme_groups",
				Help:    "Number of rhyme groups detected per analyzed song.",
				Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
			},
		),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.TokenRequestsTotal,
		m.LyricsLookupsTotal,
		m.RhymeGroups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler returns the scrape endpoint for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request count, latency and the in-flight gauge.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		sw := wrapStatus(w)
		next.ServeHTTP(sw, r)

		m.HTTPRequestsTotal.WithLabelValues(r.Method, r.URL.Path, strconv.Itoa(sw.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
	})
}
