package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds process-wide Prometheus metrics.
type Metrics struct {
	EndpointLatency *prometheus.HistogramVec
	SignIns         prometheus.Counter
	SignUps         prometheus.Counter
	AuthFailures    prometheus.Counter
	ProfilesCreated prometheus.Counter
}

// New creates and registers all process-wide Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "helpy_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		SignIns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "helpy_signins_total",
			Help: "Total number of successful sign-ins",
		}),
		SignUps: promauto.NewCounter(prometheus.CounterOpts{
			Name: "helpy_signups_total",
			Help: "Total number of successful sign-ups",
		}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "helpy_auth_failures_total",
			Help: "Total number of authentication failures",
		}),
		ProfilesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "helpy_profiles_created_total",
			Help: "Total number of default profiles created for new principals",
		}),
	}
}

// ObserveEndpointLatency records the duration of a request to an endpoint.
func (m *Metrics) ObserveEndpointLatency(endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.EndpointLatency.WithLabelValues(endpoint).Observe(seconds)
}

// RecordSignIn counts a successful sign-in.
func (m *Metrics) RecordSignIn() {
	if m == nil {
		return
	}
	m.SignIns.Inc()
}

// RecordSignUp counts a successful sign-up.
func (m *Metrics) RecordSignUp() {
	if m == nil {
		return
	}
	m.SignUps.Inc()
}

// RecordAuthFailure counts a rejected signup, signin, or token check.
func (m *Metrics) RecordAuthFailure() {
	if m == nil {
		return
	}
	m.AuthFailures.Inc()
}

// RecordProfileCreated counts a default profile created on first visit.
func (m *Metrics) RecordProfileCreated() {
	if m == nil {
		return
	}
	m.ProfilesCreated.Inc()
}
