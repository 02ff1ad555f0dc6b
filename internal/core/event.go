package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventRoomMessage notifies clients about a chat message in a room.
	EventRoomMessage EventKind = iota
	// EventHistory delivers the bounded recent log to a client upon joining
	// a room. Sent privately to the joiner, never broadcast.
	EventHistory
	// EventStatus carries an informational room notice ("X has entered the
	// room."). Status notices are not Messages and are never logged.
	EventStatus
	// EventError notifies the offending client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Room     string
	Text     string // status notice text
	Message  Message
	Messages []Message // for EventHistory
	Error    *CoreError
}
