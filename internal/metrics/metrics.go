// Package metrics exposes Prometheus instruments for exports and HTTP traffic.
// Each Metrics value owns its registry, so tests can create as many as they
// like without colliding on the global default registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/fuel-logbook/internal/domain"
)

const namespace = "fuel_logbook"

// Metrics holds the application's collectors.
type Metrics struct {
	registry  *prometheus.Registry
	documents *prometheus.CounterVec
	failures  *prometheus.CounterVec
	requests  *prometheus.HistogramVec
}

// New registers every collector on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_exported_total",
			Help:      "Spreadsheet documents emitted, by kind.",
		}, []string{"kind"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_failures_total",
			Help:      "Exports that ended in an error, by kind and reason.",
		}, []string{"kind", "reason"}),
		requests: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method, route pattern and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.documents,
		m.failures,
		m.requests,
	)
	return m
}

// DocumentExported counts one emitted document.
func (m *Metrics) DocumentExported(kind domain.DocumentKind) {
	m.documents.WithLabelValues(string(kind)).Inc()
}

// ExportFailed counts one failed export.
func (m *Metrics) ExportFailed(kind domain.DocumentKind, reason string) {
	m.failures.WithLabelValues(string(kind), reason).Inc()
}

// ObserveRequest records the latency of one HTTP request. route is the chi
// route pattern, never the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
