package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventLoginOK acknowledges a successful login.
	EventLoginOK EventKind = iota
	// EventRoomMessage carries a chat message in a room.
	EventRoomMessage
	// EventHistory delivers recent room messages to a single client.
	EventHistory
	// EventRooms lists all known rooms.
	EventRooms
	// EventRoomUsers lists the members of a room.
	EventRoomUsers
	// EventInfo is a human-readable confirmation (e.g. after a room switch).
	EventInfo
	// EventUserJoined notifies a room that a user came online into it.
	EventUserJoined
	// EventUserLeft notifies a room that a user disconnected.
	EventUserLeft
	// EventUserJoinedRoom notifies a room that a user switched into it.
	EventUserJoinedRoom
	// EventUserLeftRoom notifies a room that a user switched out of it.
	EventUserLeftRoom
	// EventError reports a protocol violation to the offending client.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Room     string
	User     string
	Users    []string  // online users (login_ok) or room members (presence, room_who)
	Rooms    []string  // known rooms
	Info     string    // info text
	Message  Message   // for EventRoomMessage
	Messages []Message // for EventHistory
	Error    *CoreError
}
