package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	ProtocolVersion = 1

	InboundTypeHello  = "hello"
	InboundTypeJoin   = "join"
	InboundTypeLeave  = "leave"
	InboundTypeMsg    = "msg"
	InboundTypeRename = "rename"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"
)

// HelloData is sent by the client to introduce itself.
type HelloData struct {
	User     string `json:"user"`
	Protocol int    `json:"protocol,omitempty"`
}

// JoinData requests to join a specific room.
type JoinData struct {
	Room string `json:"room"`
}

// MsgData is a chat message from the client. Text may already be obfuscated
// by the sender; obfuscated tells consumers whether to run the decode step.
type MsgData struct {
	Room       string `json:"room"`
	Text       string `json:"text"`
	Obfuscated bool   `json:"obfuscated,omitempty"`
	Attachment string `json:"attachment,omitempty"`
}

// RenameData updates the client's display name.
type RenameData struct {
	User string `json:"user"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventMessage is a chat message as delivered to clients. TS is the
// server-assigned timestamp in Unix nanoseconds, strictly increasing per
// room so wire timestamps never reorder against the log.
type EventMessage struct {
	ID         int64  `json:"id"`
	Room       string `json:"room"`
	SenderID   string `json:"sender_id"`
	SenderName string `json:"sender_name"`
	Text       string `json:"text"`
	Obfuscated bool   `json:"obfuscated,omitempty"`
	Attachment string `json:"attachment,omitempty"`
	TS         int64  `json:"ts"`
}

// EventHistory delivers the bounded recent log, privately, on join.
type EventHistory struct {
	Room     string         `json:"room"`
	Messages []EventMessage `json:"messages"`
}

// EventStatus is an informational room notice. It is never logged as a message.
type EventStatus struct {
	Room string `json:"room"`
	Text string `json:"text"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
