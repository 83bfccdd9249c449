package proto

// Inbound is a client frame. Fields beyond Type are populated depending on
// the declared type; one flat JSON object per WebSocket frame.
type Inbound struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
	Text     string `json:"text,omitempty"`
	Room     string `json:"room,omitempty"`
}

const (
	InboundTypeLogin    = "login"
	InboundTypeMessage  = "message"
	InboundTypeRooms    = "rooms"
	InboundTypeRoomWho  = "room_who"
	InboundTypeJoinRoom = "join_room"
)

// Outbound frame type discriminators.
const (
	OutboundTypeLoginOK        = "login_ok"
	OutboundTypeError          = "error"
	OutboundTypeInfo           = "info"
	OutboundTypeMessage        = "message"
	OutboundTypeRooms          = "rooms"
	OutboundTypeRoomUsers      = "room_users"
	OutboundTypeUserJoined     = "user_joined"
	OutboundTypeUserLeft       = "user_left"
	OutboundTypeUserJoinedRoom = "user_joined_room"
	OutboundTypeUserLeftRoom   = "user_left_room"
)

// LoginOK acknowledges a successful login.
type LoginOK struct {
	Type     string   `json:"type"`
	Username string   `json:"username"`
	Users    []string `json:"users"`
	Room     string   `json:"room"`
}

// ErrorEvent reports a protocol violation to the client.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// InfoEvent is a human-readable confirmation tied to a room.
type InfoEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Room    string `json:"room"`
}

// RoomsEvent lists every known room.
type RoomsEvent struct {
	Type  string   `json:"type"`
	Rooms []string `json:"rooms"`
}

// RoomUsersEvent lists the members of a room.
type RoomUsersEvent struct {
	Type      string   `json:"type"`
	Room      string   `json:"room"`
	RoomUsers []string `json:"room_users"`
}

// PresenceEvent notifies a room about a user joining or leaving; Type
// discriminates between the four presence variants.
type PresenceEvent struct {
	Type      string   `json:"type"`
	Username  string   `json:"username"`
	Room      string   `json:"room"`
	RoomUsers []string `json:"room_users"`
}
