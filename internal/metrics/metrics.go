package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "codeblock"

// Metrics holds the Prometheus collectors for the session gateway.
type Metrics struct {
	ActiveSessions prometheus.Gauge
	Events         *prometheus.CounterVec
	Joins          *prometheus.CounterVec
	Edits          prometheus.Counter
	Rejected       *prometheus.CounterVec
	Solutions      *prometheus.CounterVec
	Evictions      prometheus.Counter

	gatherer prometheus.Gatherer
}

// New registers the collectors with reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of connected sessions",
		}),
		Events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Inbound real-time events by type",
		}, []string{"type"}),
		Joins: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "joins_total",
			Help:      "Successful room joins by assigned role",
		}, []string{"role"}),
		Edits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "edits_total",
			Help:      "Template edits applied",
		}),
		Rejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rejected_events_total",
			Help:      "Inbound events rejected or ignored, by reason",
		}, []string{"reason"}),
		Solutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solutions_total",
			Help:      "Edits that matched the code block solution",
		}, []string{"room"}),
		Evictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evictions_total",
			Help:      "Sessions sent back to the lobby because their mentor left",
		}),
		gatherer: reg,
	}
}

// Handler exposes the registered metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
