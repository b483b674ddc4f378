package metrics

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	grpc_prom "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
)

const divisor = 100

// Metrics holds Prometheus metric vectors for the weather app.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP server metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Outbound provider metrics
	ProviderRequestsTotal   *prometheus.CounterVec
	ProviderRequestDuration *prometheus.HistogramVec

	// Domain metrics
	SearchesTotal   *prometheus.CounterVec
	CronRuns        *prometheus.CounterVec
	CronRunDuration *prometheus.HistogramVec
	TechnicalErrors *prometheus.CounterVec
}

// NewMetrics constructs all metrics and registers them in a private registry
// served by Handler.
func NewMetrics(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests received",
			},
			[]string{"method", "endpoint", "status_class"},
		),

		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "http_request_duration_seconds",
				Help:      "Histogram of HTTP request latencies",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		ProviderRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "provider_requests_total",
				Help:      "Requests sent to the weather provider",
			},
			[]string{"endpoint", "status_class"},
		),

		ProviderRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "provider_request_duration_seconds",
				Help:      "Weather provider round trip latencies",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),

		SearchesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "searches_total",
				Help:      "Weather searches by outcome",
			},
			[]string{"status_class"},
		),

		CronRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "cron_runs_total",
				Help:      "Scheduled job executions",
			},
			[]string{"job"},
		),

		CronRunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "cron_run_duration_seconds",
				Help:      "Scheduled job durations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"job"},
		),

		TechnicalErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "technical_errors_total",
				Help:      "Internal failures by kind",
			},
			[]string{"error_type", "severity"},
		),
	}

	// enable grpc handling time histograms
	grpc_prom.EnableHandlingTimeHistogram()

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.ProviderRequestsTotal,
		m.ProviderRequestDuration,
		m.SearchesTotal,
		m.CronRuns,
		m.CronRunDuration,
		m.TechnicalErrors,
		grpc_prom.DefaultServerMetrics,
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(
				collectors.GoRuntimeMetricsRule{Matcher: regexp.MustCompile("/sched/latencies:seconds")},
			),
		),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler exposes the private registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// HTTPMiddleware returns a Gin middleware to instrument HTTP endpoints.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		d := time.Since(start)

		statusClass := getStatusClass(c.Writer.Status())
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		m.HTTPRequestsTotal.With(prometheus.Labels{
			"method":       c.Request.Method,
			"endpoint":     endpoint,
			"status_class": statusClass,
		}).Inc()
		m.HTTPRequestDuration.With(prometheus.Labels{
			"method":   c.Request.Method,
			"endpoint": endpoint,
		}).Observe(d.Seconds())

		// domain metrics
		if c.Query("city") != "" {
			m.SearchesTotal.WithLabelValues(statusClass).Inc()
		}
	}
}

func (m *Metrics) ObserveCronRun(job string, d time.Duration) {
	m.CronRuns.WithLabelValues(job).Inc()
	m.CronRunDuration.WithLabelValues(job).Observe(d.Seconds())
}

func (m *Metrics) IncTechnicalError(kind, severity string) {
	m.TechnicalErrors.WithLabelValues(kind, severity).Inc()
}

// UnaryInterceptor returns a gRPC UnaryServerInterceptor for metrics.
func (m *Metrics) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return grpc_prom.UnaryServerInterceptor
}

// StreamInterceptor returns a gRPC StreamServerInterceptor for metrics.
func (m *Metrics) StreamInterceptor() grpc.StreamServerInterceptor {
	return grpc_prom.StreamServerInterceptor
}

func getStatusClass(code int) string {
	return fmt.Sprintf("%dxx", code/divisor)
}
