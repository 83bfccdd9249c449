package core

import (
	"github.com/rs/zerolog"

	"github.com/lezgec/relay/internal/metrics"
)

// Router fans an event out to sessions. Delivery is best-effort per
// recipient: a drop for one session never aborts delivery to the rest and
// never surfaces to the caller.
type Router struct {
	sessions *SessionRegistry
	metrics  *metrics.Metrics
	log      *zerolog.Logger
}

// NewRouter builds a router over the given session registry.
func NewRouter(sessions *SessionRegistry, m *metrics.Metrics, logger *zerolog.Logger) *Router {
	return &Router{sessions: sessions, metrics: m, log: logger}
}

// Broadcast delivers an event to every active session, filtered to sessions
// whose current room matches room (if non-empty) and skipping exclude (if
// non-empty).
func (r *Router) Broadcast(ev *Event, room, exclude string) {
	for _, s := range r.sessions.Snapshot() {
		if exclude != "" && s.Username == exclude {
			continue
		}
		if room != "" && s.Room() != room {
			continue
		}
		if !s.Send(ev) {
			r.metrics.EventsDropped.Inc()
			r.log.Debug().Str("username", s.Username).Str("room", room).Msg("dropped event for slow session")
		}
	}
}
