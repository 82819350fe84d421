// Package metrics defines Prometheus metrics for address resolution.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the geo resolution metrics. All record methods are safe to
// call on a nil receiver so tests can pass a nil Metrics and skip the global
// Prometheus registry.
type Metrics struct {
	ResolutionsTotal *prometheus.CounterVec
	CacheHits        prometheus.Counter
	CacheMisses      prometheus.Counter
	GeocodeCalls     prometheus.Counter
	GeocodeFailures  prometheus.Counter
	GeocodeDuration  prometheus.Histogram
}

// New creates and registers the geo metrics.
func New() *Metrics {
	return &Metrics{
		ResolutionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "helpy_geo_resolutions_total",
			Help: "Address resolutions by coordinate provenance.",
		}, []string{"provenance"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "helpy_geo_cache_hits_total",
			Help: "Geocode results served from the in-process cache.",
		}),
		CacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "helpy_geo_cache_misses_total",
			Help: "Address resolutions that required a geocoder call.",
		}),
		GeocodeCalls: promauto.NewCounter(prometheus.CounterOpts{
			Name: "helpy_geo_geocode_calls_total",
			Help: "Outbound geocoder requests.",
		}),
		GeocodeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "helpy_geo_geocode_failures_total",
			Help: "Geocoder requests that failed or returned no candidates.",
		}),
		GeocodeDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "helpy_geo_geocode_duration_seconds",
			Help:    "Latency of outbound geocoder requests.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// RecordResolution counts one resolution by provenance.
func (m *Metrics) RecordResolution(provenance string) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(provenance).Inc()
}

// RecordCacheHit counts a cache hit.
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

// RecordCacheMiss counts a cache miss.
func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.CacheMisses.Inc()
}

// RecordGeocodeCall counts an outbound geocoder request and its latency.
func (m *Metrics) RecordGeocodeCall(seconds float64) {
	if m == nil {
		return
	}
	m.GeocodeCalls.Inc()
	m.GeocodeDuration.Observe(seconds)
}

// RecordGeocodeFailure counts a failed or empty geocoder answer.
func (m *Metrics) RecordGeocodeFailure() {
	if m == nil {
		return
	}
	m.GeocodeFailures.Inc()
}
