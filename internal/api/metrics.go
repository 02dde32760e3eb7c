package api

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus instruments.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	extractionsTotal *prometheus.CounterVec
	analysisTotal    *prometheus.CounterVec
}

// NewMetrics creates and registers the server metrics on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insightd_http_requests_total",
			Help: "Total HTTP requests by method, endpoint, and status code.",
		}, []string{"method", "endpoint", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "insightd_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds by method and endpoint.",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"method", "endpoint"}),
		extractionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insightd_extractions_total",
			Help: "Document extractions by format, extraction method, and outcome.",
		}, []string{"format", "method", "success"}),
		analysisTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "insightd_analysis_requests_total",
			Help: "Analysis requests by answering provider and outcome.",
		}, []string{"provider", "outcome"}),
	}

	reg.MustRegister(m.requestsTotal, m.requestDuration, m.extractionsTotal, m.analysisTotal)
	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() echo.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c echo.Context) error {
		h.ServeHTTP(c.Response(), c.Request())
		return nil
	}
}

// Middleware records per-request counters and latency. Route templates keep
// label cardinality bounded.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			endpoint := c.Path()
			if endpoint == "" {
				endpoint = "unmatched"
			}
			m.requestsTotal.WithLabelValues(
				c.Request().Method, endpoint, strconv.Itoa(c.Response().Status),
			).Inc()
			m.requestDuration.WithLabelValues(
				c.Request().Method, endpoint,
			).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// ObserveExtraction records one extraction outcome.
func (m *Metrics) ObserveExtraction(format, method string, success bool) {
	m.extractionsTotal.WithLabelValues(format, method, strconv.FormatBool(success)).Inc()
}

// ObserveAnalysis records one analysis request outcome.
func (m *Metrics) ObserveAnalysis(provider, outcome string) {
	m.analysisTotal.WithLabelValues(provider, outcome).Inc()
}
