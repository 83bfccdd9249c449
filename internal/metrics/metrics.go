package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the relay's Prometheus instruments.
type Metrics struct {
	Registry *prometheus.Registry

	SessionsActive      prometheus.Gauge
	MessagesRelayed     prometheus.Counter
	EventsDropped       prometheus.Counter
	HistoryAppendErrors prometheus.Counter
}

// New builds a metrics set on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "relay_sessions_active",
			Help: "Number of currently active (logged-in) sessions.",
		}),
		MessagesRelayed: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_messages_relayed_total",
			Help: "Chat messages accepted and broadcast to rooms.",
		}),
		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_events_dropped_total",
			Help: "Outbound events dropped because a session's channel was full.",
		}),
		HistoryAppendErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "relay_history_append_errors_total",
			Help: "Failed appends to a room's durable history log.",
		}),
	}
}
