// Package metrics provides Prometheus instrumentation for outbound API calls.
// This is part of the platform layer and contains no business logic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream records calls made to an upstream HTTP API.
type Upstream struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewUpstream creates collectors for the named upstream on a private registry.
func NewUpstream(upstream string) *Upstream {
	u := &Upstream{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "upstream_requests_total",
			Help:        "Requests sent to the upstream API, by endpoint and status code (0 for transport failures).",
			ConstLabels: prometheus.Labels{"upstream": upstream},
		}, []string{"endpoint", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "upstream_request_duration_seconds",
			Help:        "Latency of upstream API requests.",
			ConstLabels: prometheus.Labels{"upstream": upstream},
			Buckets:     prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
	u.registry.MustRegister(u.requests, u.latency)
	return u
}

// ObserveRequest records one completed round trip.
func (u *Upstream) ObserveRequest(endpoint string, statusCode int, elapsed time.Duration) {
	u.requests.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	u.latency.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// Registry exposes the underlying registry, mainly for tests.
func (u *Upstream) Registry() *prometheus.Registry {
	return u.registry
}

// Handler serves the collected metrics in the Prometheus text format.
func (u *Upstream) Handler() http.Handler {
	return promhttp.HandlerFor(u.registry, promhttp.HandlerOpts{})
}
