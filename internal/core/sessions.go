package core

import (
	"sort"
	"sync"
)

// sessionEventBuffer sizes the outbound channel. Must fit a login burst
// (login_ok plus a full history replay) without dropping.
const sessionEventBuffer = 64

// Session is the live state of one authenticated connection. The username is
// immutable for the session lifetime; the current room changes via relay
// operations only.
type Session struct {
	Username string
	Events   chan *Event

	mu   sync.Mutex
	room string
}

// NewSession constructs a session with a buffered outbound channel.
func NewSession(username string) *Session {
	return &Session{
		Username: username,
		Events:   make(chan *Event, sessionEventBuffer),
		room:     DefaultRoom,
	}
}

// Room returns the session's current room.
func (s *Session) Room() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room
}

// SetRoom updates the session's current room.
func (s *Session) SetRoom(room string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.room = room
}

// Send enqueues an event without blocking. Returns false if the event was
// dropped because the consumer is too slow.
func (s *Session) Send(ev *Event) bool {
	select {
	case s.Events <- ev:
		return true
	default:
		return false
	}
}

// SessionRegistry maps connected usernames to their sessions and enforces
// username uniqueness at login time.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionRegistry returns an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]*Session)}
}

// Register atomically checks uniqueness and inserts the session. Returns
// ErrUsernameTaken if the username is already bound to an active session.
func (r *SessionRegistry) Register(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[s.Username]; exists {
		return ErrUsernameTaken
	}
	r.sessions[s.Username] = s
	return nil
}

// Unregister removes the session for a username. No-op if absent.
func (r *SessionRegistry) Unregister(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, username)
}

// IsOnline reports whether a username has an active session.
func (r *SessionRegistry) IsOnline(username string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[username]
	return ok
}

// OnlineUsernames returns the sorted usernames of all active sessions.
func (r *SessionRegistry) OnlineUsernames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.sessions))
	for name := range r.sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of active sessions.
func (r *SessionRegistry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Snapshot returns the active sessions at this instant. Delivery to a session
// that disconnects after the snapshot is a swallowed best-effort failure.
func (r *SessionRegistry) Snapshot() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	return out
}
