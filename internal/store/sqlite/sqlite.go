package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"securechat/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id          INTEGER NOT NULL,
	room        TEXT    NOT NULL,
	sender_id   TEXT    NOT NULL,
	sender_name TEXT    NOT NULL,
	body        TEXT    NOT NULL,
	obfuscated  INTEGER NOT NULL DEFAULT 0,
	attachment  TEXT    NOT NULL DEFAULT '',
	created_at  INTEGER NOT NULL,
	PRIMARY KEY (room, id)
);
`

// SQLiteArchive implements store.MessageArchive on a SQLite database.
type SQLiteArchive struct {
	db *sql.DB
}

// New opens (or creates) the SQLite archive at dbPath and applies the
// schema. Use ":memory:" for an ephemeral archive in tests.
func New(dbPath string) (*SQLiteArchive, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteArchive{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteArchive) Close() error {
	return s.db.Close()
}

// SaveMessage appends one message row. Timestamps are stored as Unix
// nanoseconds to preserve the per-room monotonic ordering exactly.
func (s *SQLiteArchive) SaveMessage(ctx context.Context, m store.Message) error {
	query := `
		INSERT INTO messages (id, room, sender_id, sender_name, body, obfuscated, attachment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		m.ID, m.Room, m.SenderID, m.SenderName, m.Body, m.Obfuscated, m.Attachment, m.CreatedAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// RecentMessages returns up to limit most recent messages for the room in
// insertion order.
func (s *SQLiteArchive) RecentMessages(ctx context.Context, room string, limit int) ([]store.Message, error) {
	query := `
		SELECT id, sender_id, sender_name, body, obfuscated, attachment, created_at
		FROM messages
		WHERE room = ?
		ORDER BY id DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, room, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var out []store.Message
	for rows.Next() {
		var m store.Message
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.SenderID, &m.SenderName, &m.Body, &m.Obfuscated, &m.Attachment, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		m.Room = room
		m.CreatedAt = unixNano(createdAt)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	// Rows came newest-first; reverse into insertion order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// PruneRoom deletes everything but the newest keep rows for the room.
func (s *SQLiteArchive) PruneRoom(ctx context.Context, room string, keep int) error {
	query := `
		DELETE FROM messages
		WHERE room = ?
		  AND id NOT IN (
			SELECT id FROM messages WHERE room = ? ORDER BY id DESC LIMIT ?
		  )
	`
	if _, err := s.db.ExecContext(ctx, query, room, room, keep); err != nil {
		return fmt.Errorf("prune messages: %w", err)
	}
	return nil
}

func unixNano(n int64) time.Time {
	return time.Unix(0, n)
}
