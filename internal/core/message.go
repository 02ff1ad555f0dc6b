package core

import "time"

// Message is the domain model for a chat message. Once appended to a room
// log it is immutable; only FIFO eviction removes it.
type Message struct {
	ID         int64
	Room       string
	SenderID   string
	SenderName string
	Body       string
	Obfuscated bool
	Attachment string
	CreatedAt  time.Time
}
