// Package metrics provides Prometheus instrumentation for the API server
// and the autonomy worker.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "editorial"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Zone cache metrics
	ZoneCacheHits   *prometheus.CounterVec
	ZoneCacheMisses *prometheus.CounterVec

	// Domain metrics
	ViewsTrackedTotal      prometheus.Counter
	SearchQueriesTotal     *prometheus.CounterVec
	NewsletterSignupsTotal prometheus.Counter

	// Worker metrics
	JobRunsTotal       *prometheus.CounterVec
	JobDurationSeconds *prometheus.HistogramVec
}

// NewMetrics creates and registers all service metrics. A nil registerer
// falls back to the default Prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{}

	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if registry, ok := reg.(*prometheus.Registry); ok {
		m.registry = registry
	}

	factory := promauto.With(reg)

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
		},
		[]string{"method", "path"},
	)

	m.ZoneCacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "zone_cache_hits_total",
			Help:      "Total zone snapshot cache hits",
		},
		[]string{"zone"},
	)

	m.ZoneCacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "zone_cache_misses_total",
			Help:      "Total zone snapshot cache misses",
		},
		[]string{"zone"},
	)

	m.ViewsTrackedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "views_tracked_total",
			Help:      "Total content view events recorded",
		},
	)

	m.SearchQueriesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "search_queries_total",
			Help:      "Total search queries by outcome",
		},
		[]string{"status"},
	)

	m.NewsletterSignupsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "newsletter_signups_total",
			Help:      "Total newsletter subscription requests accepted",
		},
	)

	m.JobRunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "job_runs_total",
			Help:      "Total autonomy job runs by outcome",
		},
		[]string{"job", "status"},
	)

	m.JobDurationSeconds = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "job_duration_seconds",
			Help:      "Duration of autonomy job runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"job"},
	)

	return m
}

// Middleware returns gin middleware recording request counts and latency.
// Paths are recorded by route template to keep label cardinality bounded.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry != nil {
		return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}

// ObserveJob records one autonomy job run.
func (m *Metrics) ObserveJob(job string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.JobRunsTotal.WithLabelValues(job, status).Inc()
	m.JobDurationSeconds.WithLabelValues(job).Observe(duration.Seconds())
}
