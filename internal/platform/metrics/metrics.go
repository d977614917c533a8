// Package metrics holds the Prometheus collectors for role mutations, guard
// decisions, audit delivery, the counts cache and the HTTP layer.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rolekeeper"

// Metrics exposes Prometheus collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	mutations     *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	decisions     *prometheus.CounterVec
	auditWrites   *prometheus.CounterVec
	auditFailures prometheus.Counter
	bulkItems     *prometheus.CounterVec
	cache         *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	rateLimited   *prometheus.CounterVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// NewMetrics registers the collectors against the provided registerer. When
// the registerer is nil the default Prometheus registerer is used.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		defaultOnce.Do(func() {
			defaultMetrics = buildMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return buildMetrics(registerer)
}

// ProvideMetrics registers against the default registerer, which backs the
// /metrics endpoint.
func ProvideMetrics() *Metrics {
	return NewMetrics(nil)
}

func buildMetrics(registerer prometheus.Registerer) *Metrics {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "role_mutations_total",
			Help:      "Role mutation attempts by operation and outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "role_operation_duration_seconds",
			Help:      "Duration of role operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		decisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_decisions_total",
			Help:      "Invariant guard decisions by kind and reason.",
		}, []string{"kind", "reason"}),
		auditWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_writes_total",
			Help:      "Audit deliveries by status.",
		}, []string{"status"}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "audit_write_failures_total",
			Help:      "Audit entries dropped after retries were exhausted.",
		}),
		bulkItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bulk_items_total",
			Help:      "Bulk assignment items by status.",
		}, []string{"status"}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "counts_cache_requests_total",
			Help:      "Role counts cache lookups by result.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the per-actor rate limiter.",
		}, []string{"route"}),
	}

	registerer.MustRegister(
		m.mutations,
		m.duration,
		m.decisions,
		m.auditWrites,
		m.auditFailures,
		m.bulkItems,
		m.cache,
		m.httpRequests,
		m.httpDuration,
		m.rateLimited,
	)
	return m
}

// Tracker instruments a single role operation.
type Tracker struct {
	metrics   *Metrics
	operation string
	start     time.Time
}

// Track starts timing an operation.
func (m *Metrics) Track(operation string) *Tracker {
	return &Tracker{metrics: m, operation: operation, start: time.Now()}
}

// End records the outcome and duration. The outcome is "error" when err is
// set. err is returned untouched.
func (t *Tracker) End(outcome string, err error) error {
	if t == nil || t.metrics == nil {
		return err
	}
	if err != nil {
		outcome = "error"
	}
	t.metrics.mutations.WithLabelValues(t.operation, outcome).Inc()
	t.metrics.duration.WithLabelValues(t.operation).Observe(time.Since(t.start).Seconds())
	return err
}

// GuardDecision counts one invariant guard verdict.
func (m *Metrics) GuardDecision(kind, reason string) {
	if m == nil {
		return
	}
	if reason == "" {
		reason = "none"
	}
	m.decisions.WithLabelValues(kind, reason).Inc()
}

// AuditWritten counts a delivered audit entry.
func (m *Metrics) AuditWritten() {
	if m == nil {
		return
	}
	m.auditWrites.WithLabelValues("success").Inc()
}

// AuditFailed counts an audit entry that could not be delivered.
func (m *Metrics) AuditFailed() {
	if m == nil {
		return
	}
	m.auditWrites.WithLabelValues("failure").Inc()
	m.auditFailures.Inc()
}

// BulkItem counts one processed bulk target.
func (m *Metrics) BulkItem(succeeded bool) {
	if m == nil {
		return
	}
	status := "succeeded"
	if !succeeded {
		status = "failed"
	}
	m.bulkItems.WithLabelValues(status).Inc()
}

// CacheLookup counts a counts cache lookup: "hit", "miss" or "error".
func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cache.WithLabelValues(result).Inc()
}

// HTTPRequest records one served request. route is the matched chi pattern so
// that path parameters do not explode label cardinality.
func (m *Metrics) HTTPRequest(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RateLimited counts a request turned away by the rate limiter.
func (m *Metrics) RateLimited(route string) {
	if m == nil {
		return
	}
	m.rateLimited.WithLabelValues(route).Inc()
}
