// Package monitoring holds the Prometheus metrics of the engine and the
// HTTP adapter.
package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "learnloop"

// Metrics owns a private registry so several engines (and tests) can run in
// one process. All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	EventsAppended *prometheus.CounterVec
	EventsRejected *prometheus.CounterVec

	SnapshotLookups *prometheus.CounterVec
	Conflicts       *prometheus.CounterVec
	FoldDuration    *prometheus.HistogramVec
	FoldFailures    *prometheus.CounterVec
}

// New creates and registers every metric.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		EventsAppended: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_appended_total",
				Help:      "Events accepted into the log, by kind",
			},
			[]string{"kind"},
		),
		EventsRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_rejected_total",
				Help:      "Events rejected by validation, by error class",
			},
			[]string{"reason"},
		),
		SnapshotLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "snapshot_lookups_total",
				Help:      "Derived-state cache lookups, by result",
			},
			[]string{"result"},
		),
		Conflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "concurrent_modifications_total",
				Help:      "Conditional snapshot writes that lost a race, by outcome",
			},
			[]string{"outcome"},
		),
		FoldDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fold_duration_seconds",
				Help:      "Time spent recomputing derived state",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
			[]string{"fold"},
		),
		FoldFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fold_failures_total",
				Help:      "Keys left out of course-wide reads because their fold failed, by error class",
			},
			[]string{"fold", "reason"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestCounter,
		m.RequestDuration,
		m.EventsAppended,
		m.EventsRejected,
		m.SnapshotLookups,
		m.Conflicts,
		m.FoldDuration,
		m.FoldFailures,
	)
	return m
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) EventAppended(kind string) {
	if m == nil {
		return
	}
	m.EventsAppended.WithLabelValues(kind).Inc()
}

func (m *Metrics) EventRejected(reason string) {
	if m == nil {
		return
	}
	m.EventsRejected.WithLabelValues(reason).Inc()
}

// SnapshotLookup records a cache hit or miss.
func (m *Metrics) SnapshotLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.SnapshotLookups.WithLabelValues(result).Inc()
}

// Conflict records a lost conditional write; outcome is "retried" or
// "surfaced".
func (m *Metrics) Conflict(outcome string) {
	if m == nil {
		return
	}
	m.Conflicts.WithLabelValues(outcome).Inc()
}

// ObserveFold records how long a fold named fold took since start.
func (m *Metrics) ObserveFold(fold string, start time.Time) {
	if m == nil {
		return
	}
	m.FoldDuration.WithLabelValues(fold).Observe(time.Since(start).Seconds())
}

// FoldFailed records a key whose fold failed and was skipped.
func (m *Metrics) FoldFailed(fold, reason string) {
	if m == nil {
		return
	}
	m.FoldFailures.WithLabelValues(fold, reason).Inc()
}

// MetricsMiddleware counts and times every request by route template.
func (m *Metrics) MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		m.RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		m.RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

// PrometheusHandler serves the registry in the Prometheus exposition format.
func (m *Metrics) PrometheusHandler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{Registry: m.Registry()})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
