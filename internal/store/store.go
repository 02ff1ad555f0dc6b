package store

import (
	"context"
	"time"
)

// Message is a persisted chat message row.
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

// MessageArchive persists room messages across restarts. It is optional:
// the relay runs fully in memory when no archive is configured, and archive
// failures never fail the send path (durability is best-effort).
type MessageArchive interface {
	// SaveMessage appends one message to the archive.
	SaveMessage(ctx context.Context, m Message) error

	// RecentMessages returns up to limit most recent messages for the room
	// in insertion order (oldest first).
	RecentMessages(ctx context.Context, room string, limit int) ([]Message, error)

	// PruneRoom deletes archived messages beyond the newest keep entries,
	// so stored history stays bounded server-side.
	PruneRoom(ctx context.Context, room string, keep int) error

	// Close releases the underlying resources.
	Close() error
}
