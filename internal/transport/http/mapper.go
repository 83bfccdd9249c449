package http

import (
	"github.com/lezgec/relay/internal/core"
	"github.com/lezgec/relay/internal/proto"
)

// framesFromEvent converts a core event into the wire frames to send. Most
// events map to a single frame; a history replay expands into one message
// frame per record, oldest first.
func framesFromEvent(event *core.Event) []any {
	switch event.Kind {
	case core.EventLoginOK:
		return []any{proto.LoginOK{
			Type:     proto.OutboundTypeLoginOK,
			Username: event.User,
			Users:    event.Users,
			Room:     event.Room,
		}}
	case core.EventRoomMessage:
		return []any{event.Message}
	case core.EventHistory:
		frames := make([]any, 0, len(event.Messages))
		for _, msg := range event.Messages {
			frames = append(frames, msg)
		}
		return frames
	case core.EventRooms:
		return []any{proto.RoomsEvent{
			Type:  proto.OutboundTypeRooms,
			Rooms: event.Rooms,
		}}
	case core.EventRoomUsers:
		return []any{proto.RoomUsersEvent{
			Type:      proto.OutboundTypeRoomUsers,
			Room:      event.Room,
			RoomUsers: event.Users,
		}}
	case core.EventInfo:
		return []any{proto.InfoEvent{
			Type:    proto.OutboundTypeInfo,
			Message: event.Info,
			Room:    event.Room,
		}}
	case core.EventUserJoined:
		return []any{presenceFrame(proto.OutboundTypeUserJoined, event)}
	case core.EventUserLeft:
		return []any{presenceFrame(proto.OutboundTypeUserLeft, event)}
	case core.EventUserJoinedRoom:
		return []any{presenceFrame(proto.OutboundTypeUserJoinedRoom, event)}
	case core.EventUserLeftRoom:
		return []any{presenceFrame(proto.OutboundTypeUserLeftRoom, event)}
	case core.EventError:
		msg := "unknown error"
		if event.Error != nil {
			msg = event.Error.Message
		}
		return []any{proto.ErrorEvent{Type: proto.OutboundTypeError, Message: msg}}
	default:
		return nil
	}
}

func presenceFrame(kind string, event *core.Event) proto.PresenceEvent {
	return proto.PresenceEvent{
		Type:      kind,
		Username:  event.User,
		Room:      event.Room,
		RoomUsers: event.Users,
	}
}
