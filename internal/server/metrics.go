package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors exposed on /metrics. Each server
// owns its registry so that tests can build many servers side by side.
type Metrics struct {
	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	forecasts *prometheus.CounterVec
	keywords  prometheus.Histogram
	limited   prometheus.Counter
}

// NewMetrics creates and registers the server collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seoforecast_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "seoforecast_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
		forecasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seoforecast_forecasts_total",
			Help: "Forecast and what-if runs by kind and outcome.",
		}, []string{"kind", "outcome"}),
		keywords: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "seoforecast_forecast_keywords",
			Help:    "Keywords per forecast request.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		limited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seoforecast_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter.",
		}),
	}
	m.registry.MustRegister(
		m.requests, m.duration, m.forecasts, m.keywords, m.limited,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeForecast(kind, outcome string, keywords int) {
	m.forecasts.WithLabelValues(kind, outcome).Inc()
	if outcome == "ok" && kind == "forecast" {
		m.keywords.Observe(float64(keywords))
	}
}

// instrument records request count and latency labelled by the matched
// route pattern rather than the raw path.
func (m *Metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
