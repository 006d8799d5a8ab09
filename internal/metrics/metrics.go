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

// Stock adjustment outcomes
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Metrics holds the catalog collectors. Each instance owns its registry so tests can
// build as many as they need.
type Metrics struct {
	registry *prometheus.Registry

	StockAdjustments *prometheus.CounterVec
	LowStockEvents   prometheus.Counter
	OutboxPublished  prometheus.Counter
	OutboxFailed     prometheus.Counter
	requestCounter   *prometheus.CounterVec
	requestLatency   *prometheus.HistogramVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		StockAdjustments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_stock_adjustments_total",
				Help: "Stock adjustments by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		LowStockEvents: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_low_stock_events_total",
			Help: "Low stock events raised by reductions",
		}),
		OutboxPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_outbox_published_total",
			Help: "Outbox events delivered to the broker",
		}),
		OutboxFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_outbox_failed_total",
			Help: "Outbox delivery attempts that failed",
		}),
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	m.registry.MustRegister(
		m.StockAdjustments,
		m.LowStockEvents,
		m.OutboxPublished,
		m.OutboxFailed,
		m.requestCounter,
		m.requestLatency,
		collectors.NewGoCollector(),
	)

	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request count and latency labelled by the chi route pattern, so
// /api/products/{id} is one series regardless of the id
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requestCounter.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.requestLatency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
