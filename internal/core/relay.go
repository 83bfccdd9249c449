package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/lezgec/relay/internal/metrics"
)

// Relay composes the session registry, room registry, history store and
// broadcast router, and implements the operations the connection handler
// dispatches to. All outbound traffic for a session goes through its event
// channel so a single write loop owns the socket.
type Relay struct {
	sessions *SessionRegistry
	rooms    *RoomRegistry
	history  *HistoryStore
	router   *Router
	metrics  *metrics.Metrics
	log      *zerolog.Logger

	mu    sync.Mutex
	order map[string]*sync.Mutex // per-room ordering: history commit order == broadcast order
}

// NewRelay wires the core components around a history store.
func NewRelay(history *HistoryStore, m *metrics.Metrics, logger *zerolog.Logger) *Relay {
	sessions := NewSessionRegistry()
	return &Relay{
		sessions: sessions,
		rooms:    NewRoomRegistry(history),
		history:  history,
		router:   NewRouter(sessions, m, logger),
		metrics:  m,
		log:      logger,
		order:    make(map[string]*sync.Mutex),
	}
}

func (rl *Relay) orderLock(room string) *sync.Mutex {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	lock, ok := rl.order[room]
	if !ok {
		lock = &sync.Mutex{}
		rl.order[room] = lock
	}
	return lock
}

// Login validates the requested username, registers a session and places it
// in the default room. On success the session receives a login_ok event
// followed by the room's history replay, and the rest of the room is notified.
func (rl *Relay) Login(username string) (*Session, *CoreError) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, coreError(ErrCodeBadRequest, "username must not be empty")
	}

	sess := NewSession(username)
	if err := rl.sessions.Register(sess); err != nil {
		return nil, coreError(ErrCodeUsernameTaken, fmt.Sprintf("username %q is already in use", username))
	}

	rl.rooms.Ensure(DefaultRoom)
	rl.rooms.AddMember(DefaultRoom, username)

	sess.Send(&Event{
		Kind:  EventLoginOK,
		User:  username,
		Room:  DefaultRoom,
		Users: rl.sessions.OnlineUsernames(),
	})
	rl.replayHistory(sess, DefaultRoom)

	rl.router.Broadcast(&Event{
		Kind:  EventUserJoined,
		User:  username,
		Room:  DefaultRoom,
		Users: rl.rooms.Members(DefaultRoom),
	}, DefaultRoom, username)

	rl.metrics.SessionsActive.Inc()
	rl.log.Info().Str("username", username).Msg("user logged in")
	return sess, nil
}

// PostMessage appends a chat message to the sender's current room and
// broadcasts it to the room, sender included. Whitespace-only text is
// silently ignored. Append and broadcast happen under a per-room lock so the
// durable commit order equals the broadcast order.
func (rl *Relay) PostMessage(sess *Session, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	room := sess.Room()
	rl.rooms.Ensure(room)
	msg := NewMessage(sess.Username, text, room)

	lock := rl.orderLock(room)
	lock.Lock()
	defer lock.Unlock()

	if err := rl.history.Append(room, msg); err != nil {
		rl.metrics.HistoryAppendErrors.Inc()
		rl.log.Error().Err(err).Str("room", room).Msg("history append failed")
	}
	rl.router.Broadcast(&Event{Kind: EventRoomMessage, Room: room, Message: msg}, room, "")
	rl.metrics.MessagesRelayed.Inc()
}

// ListRooms replies with every known room: active registry entries plus
// rooms whose history log exists on disk.
func (rl *Relay) ListRooms(sess *Session) {
	sess.Send(&Event{Kind: EventRooms, Rooms: rl.KnownRooms()})
}

// RoomWho replies with the member listing of the sender's current room.
func (rl *Relay) RoomWho(sess *Session) {
	room := sess.Room()
	sess.Send(&Event{Kind: EventRoomUsers, Room: room, Users: rl.rooms.Members(room)})
}

// JoinRoom moves the session into the target room. An empty target yields an
// error reply and the session stays where it is. The session receives a
// confirmation and the target room's history replay; the old room sees a
// user_left_room event and the new room a user_joined_room event.
func (rl *Relay) JoinRoom(sess *Session, target string) {
	target = strings.TrimSpace(target)
	if target == "" {
		sess.Send(&Event{Kind: EventError, Error: coreError(ErrCodeBadRequest, "room name must not be empty")})
		return
	}

	rl.rooms.Ensure(target)
	old := sess.Room()
	if old != target {
		rl.rooms.RemoveMember(old, sess.Username)
		rl.rooms.AddMember(target, sess.Username)
		sess.SetRoom(target)
	}

	sess.Send(&Event{Kind: EventInfo, Room: target, Info: fmt.Sprintf("joined room %q", target)})
	rl.replayHistory(sess, target)

	rl.router.Broadcast(&Event{
		Kind:  EventUserLeftRoom,
		User:  sess.Username,
		Room:  old,
		Users: rl.rooms.Members(old),
	}, old, "")
	rl.router.Broadcast(&Event{
		Kind:  EventUserJoinedRoom,
		User:  sess.Username,
		Room:  target,
		Users: rl.rooms.Members(target),
	}, target, sess.Username)

	rl.log.Info().Str("username", sess.Username).Str("from", old).Str("to", target).Msg("user switched room")
}

// Unsupported replies with an error for an unknown inbound event type. The
// connection stays open.
func (rl *Relay) Unsupported(sess *Session, kind string) {
	sess.Send(&Event{Kind: EventError, Error: coreError(ErrCodeUnsupportedType, fmt.Sprintf("unsupported type: %s", kind))})
}

// Logout tears a session down: deregisters it, removes its room membership
// and notifies the room it last occupied. Safe to call once per session.
func (rl *Relay) Logout(sess *Session) {
	if sess == nil {
		return
	}

	rl.sessions.Unregister(sess.Username)
	room := sess.Room()
	rl.rooms.RemoveMember(room, sess.Username)

	rl.router.Broadcast(&Event{
		Kind:  EventUserLeft,
		User:  sess.Username,
		Room:  room,
		Users: rl.rooms.Members(room),
	}, room, "")

	rl.metrics.SessionsActive.Dec()
	rl.log.Info().Str("username", sess.Username).Str("room", room).Msg("user logged out")
}

// KnownRooms returns the sorted union of registry rooms and rooms with a
// history log on disk.
func (rl *Relay) KnownRooms() []string {
	seen := make(map[string]struct{})
	for _, name := range rl.rooms.Names() {
		seen[name] = struct{}{}
	}
	for _, name := range rl.history.RoomsOnDisk() {
		seen[name] = struct{}{}
	}

	rooms := make([]string, 0, len(seen))
	for name := range seen {
		rooms = append(rooms, name)
	}
	sort.Strings(rooms)
	return rooms
}

// Stats exposes the numbers the liveness endpoint reports.
func (rl *Relay) Stats() (users int, rooms []string) {
	return rl.sessions.Count(), rl.KnownRooms()
}

func (rl *Relay) replayHistory(sess *Session, room string) {
	msgs := rl.history.Cached(room)
	if len(msgs) == 0 {
		return
	}
	sess.Send(&Event{Kind: EventHistory, Room: room, Messages: msgs})
}
