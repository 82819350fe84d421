// Package metrics provides Prometheus metrics for the fetch-with-fallback facade.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fallback reasons recorded on substitution.
const (
	ReasonRemoteError = "remote_error"
	ReasonEmptyResult = "empty_result"
	ReasonCircuitOpen = "circuit_open"
)

// Metrics contains all facade metrics.
type Metrics struct {
	FetchesTotal   *prometheus.CounterVec // Fetches by collection and origin
	FallbacksTotal *prometheus.CounterVec // Fallback substitutions by collection and reason
	NotFoundTotal  *prometheus.CounterVec // FetchOne misses in both remote and fallback sets
	RemoteDuration *prometheus.HistogramVec
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	return &Metrics{
		FetchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "helpy_directory_fetches_total",
			Help: "Total facade fetches by collection and resolved origin",
		}, []string{"collection", "origin"}),

		FallbacksTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "helpy_directory_fallbacks_total",
			Help: "Total fallback substitutions by collection and reason",
		}, []string{"collection", "reason"}),

		NotFoundTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "helpy_directory_not_found_total",
			Help: "Total single-record lookups absent from both remote and fallback sets",
		}, []string{"collection"}),

		RemoteDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "helpy_directory_remote_duration_seconds",
			Help:    "Duration of remote store calls by collection",
			Buckets: prometheus.DefBuckets,
		}, []string{"collection"}),
	}
}

// RecordFetch records a completed facade fetch. Safe on a nil receiver so
// tests can run without a registry.
func (m *Metrics) RecordFetch(collection, origin string) {
	if m == nil {
		return
	}
	m.FetchesTotal.WithLabelValues(collection, origin).Inc()
}

// RecordFallback records a fallback substitution with its reason.
func (m *Metrics) RecordFallback(collection, reason string) {
	if m == nil {
		return
	}
	m.FallbacksTotal.WithLabelValues(collection, reason).Inc()
}

// RecordNotFound records a lookup that missed both the remote and fallback sets.
func (m *Metrics) RecordNotFound(collection string) {
	if m == nil {
		return
	}
	m.NotFoundTotal.WithLabelValues(collection).Inc()
}

// ObserveRemoteDuration records the duration of a remote store call.
func (m *Metrics) ObserveRemoteDuration(collection string, seconds float64) {
	if m == nil {
		return
	}
	m.RemoteDuration.WithLabelValues(collection).Observe(seconds)
}
