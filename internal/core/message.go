package core

import "time"

// Message is the domain model for a chat message. Its JSON shape is both the
// durable history record and the payload relayed to clients.
type Message struct {
	Type string `json:"type"`
	From string `json:"from"`
	Text string `json:"text"`
	TS   int64  `json:"ts"`
	Room string `json:"room"`
}

// NewMessage builds a message record stamped with the current unix time.
func NewMessage(from, text, room string) Message {
	return Message{
		Type: "message",
		From: from,
		Text: text,
		TS:   time.Now().Unix(),
		Room: room,
	}
}
