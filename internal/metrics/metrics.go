// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "maple_planner"

// Metrics groups every collector the API records. Each instance owns its own
// registry so tests can build one without touching global state.
type Metrics struct {
	Registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	upstreamCalls *prometheus.CounterVec
	searchResults *prometheus.HistogramVec
	superseded    prometheus.Counter
}

// New creates and registers all collectors, including the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
		}, []string{"method", "route"}),
		upstreamCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "places",
			Name:      "upstream_calls_total",
			Help:      "Calls made to the places API, by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		searchResults: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "results",
			Help:      "Number of places accepted by one aggregated search.",
			Buckets:   []float64{0, 5, 10, 20, 40, 80, 160},
		}, []string{"category"}),
		superseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "search",
			Name:      "superseded_total",
			Help:      "Searches whose results were discarded because a newer search started.",
		}),
	}
	m.Registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.upstreamCalls,
		m.searchResults,
		m.superseded,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveUpstream counts one places API call. outcome is "ok" or "error".
func (m *Metrics) ObserveUpstream(endpoint, outcome string) {
	if m == nil {
		return
	}
	m.upstreamCalls.WithLabelValues(endpoint, outcome).Inc()
}

// ObserveSearch records how many places an aggregated search accepted.
func (m *Metrics) ObserveSearch(category string, n int) {
	if m == nil {
		return
	}
	m.searchResults.WithLabelValues(category).Observe(float64(n))
}

// ObserveSuperseded counts a search whose results were discarded.
func (m *Metrics) ObserveSuperseded() {
	if m == nil {
		return
	}
	m.superseded.Inc()
}

// Instrument is chi-compatible middleware recording request count and latency.
// Requests are labelled by route pattern, not raw path, to keep cardinality bounded.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
