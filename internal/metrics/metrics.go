// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is a registry plus the application's collectors.
type Metrics struct {
	registry *prometheus.Registry

	RPCRequests    *prometheus.CounterVec
	RPCDuration    *prometheus.HistogramVec
	VotesCast      prometheus.Counter
	WriteConflicts prometheus.Counter
	UpstreamErrors prometheus.Counter
}

// New creates a registry with process and Go runtime collectors registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RPCRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lunchpicker",
			Name:      "rpc_requests_total",
			Help:      "RPC requests by procedure and result code.",
		}, []string{"procedure", "code"}),
		RPCDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "lunchpicker",
			Name:      "rpc_duration_seconds",
			Help:      "RPC handling latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		VotesCast: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lunchpicker",
			Name:      "votes_cast_total",
			Help:      "Votes that changed a group's vote state.",
		}),
		WriteConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lunchpicker",
			Name:      "group_write_conflicts_total",
			Help:      "Group writes retried after a concurrent modification.",
		}),
		UpstreamErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lunchpicker",
			Name:      "venue_search_upstream_errors_total",
			Help:      "Venue searches that failed at the POI source.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RPCRequests,
		m.RPCDuration,
		m.VotesCast,
		m.WriteConflicts,
		m.UpstreamErrors,
	)
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
