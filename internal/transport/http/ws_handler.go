package http

import (
	"context"
	"errors"
	"io"
	stdhttp "net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lezgec/relay/internal/config"
	"github.com/lezgec/relay/internal/core"
	"github.com/lezgec/relay/internal/proto"
)

// WSHandler upgrades HTTP connections and drives the per-connection protocol:
// login handshake, message loop, disconnect cleanup.
type WSHandler struct {
	relay *core.Relay
	cfg   config.Config
	log   *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(relay *core.Relay, cfg config.Config, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{relay: relay, cfg: cfg, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	connID := uuid.NewString()

	// The first frame must be a login; anything else terminates the
	// connection after an error reply.
	var first proto.Inbound
	if err := wsjson.Read(ctx, conn, &first); err != nil {
		h.log.Debug().Err(err).Str("conn_id", connID).Msg("connection closed before login")
		return
	}
	if first.Type != proto.InboundTypeLogin {
		_ = wsjson.Write(ctx, conn, proto.ErrorEvent{
			Type:    proto.OutboundTypeError,
			Message: "you must log in first (type=login)",
		})
		conn.Close(websocket.StatusPolicyViolation, core.ErrCodeLoginRequired)
		return
	}

	sess, cerr := h.relay.Login(first.Username)
	if cerr != nil {
		_ = wsjson.Write(ctx, conn, proto.ErrorEvent{
			Type:    proto.OutboundTypeError,
			Message: cerr.Message,
		})
		conn.Close(websocket.StatusPolicyViolation, cerr.Code)
		return
	}
	defer h.relay.Logout(sess)

	h.log.Debug().Str("conn_id", connID).Str("username", sess.Username).Msg("session active")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, sess)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, sess)
	}()

	err = <-errCh
	cancel() // stop the other goroutine
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Debug().Err(err).Str("conn_id", connID).Str("username", sess.Username).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, sess *core.Session) error {
	limiter := newRateLimiter(h.cfg.MessageRateLimit)

	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}

		switch inbound.Type {
		case proto.InboundTypeMessage:
			if !limiter.allow() {
				sess.Send(&core.Event{
					Kind:  core.EventError,
					Error: &core.CoreError{Code: "rate_limited", Message: "message rate limit exceeded"},
				})
				continue
			}
			h.relay.PostMessage(sess, inbound.Text)
		case proto.InboundTypeRooms:
			h.relay.ListRooms(sess)
		case proto.InboundTypeRoomWho:
			h.relay.RoomWho(sess)
		case proto.InboundTypeJoinRoom:
			h.relay.JoinRoom(sess, inbound.Room)
		default:
			h.relay.Unsupported(sess, inbound.Type)
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, sess *core.Session) error {
	for {
		select {
		case event, ok := <-sess.Events:
			if !ok {
				return nil
			}
			for _, frame := range framesFromEvent(event) {
				if err := wsjson.Write(ctx, conn, frame); err != nil {
					return err
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
