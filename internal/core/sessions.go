package core

import "sync"

// Session is one connected client's identity and current room pointer. A
// session belongs to at most one room at any instant.
type Session struct {
	ID   string
	Name string
	Room string // empty before the first join
}

// SessionManager tracks registered sessions. Each record is mutated only by
// operations naming that session's ID; the lock guards the map itself.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionManager builds an empty registry.
func NewSessionManager() *SessionManager {
	return &SessionManager{sessions: make(map[string]*Session)}
}

// Register records a session on connect. Re-registering an existing ID is a
// no-op so a duplicate handshake cannot reset the room pointer.
func (m *SessionManager) Register(id, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[id]; exists {
		return
	}
	if name == "" {
		name = id
	}
	m.sessions[id] = &Session{ID: id, Name: name}
}

// Get returns a copy of the session record.
func (m *SessionManager) Get(id string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, exists := m.sessions[id]
	if !exists {
		return Session{}, false
	}
	return *s, true
}

// SetRoom atomically updates the session's current room pointer and returns
// the previous value so the caller can clean up the old room's membership.
// An empty room clears the pointer (explicit leave).
func (m *SessionManager) SetRoom(id, room string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, exists := m.sessions[id]
	if !exists {
		return "", ErrUnknownSession
	}
	prev := s.Room
	s.Room = room
	return prev, nil
}

// Rename updates the display name. Messages already logged keep the name
// captured at send time.
func (m *SessionManager) Rename(id, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, exists := m.sessions[id]
	if !exists {
		return ErrUnknownSession
	}
	if name != "" {
		s.Name = name
	}
	return nil
}

// Unregister removes the session on disconnect and returns the room it was
// last in, if any. A second unregister for the same ID reports ok=false so
// disconnect cleanup stays idempotent.
func (m *SessionManager) Unregister(id string) (lastRoom string, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, exists := m.sessions[id]
	if !exists {
		return "", false
	}
	delete(m.sessions, id)
	return s.Room, true
}
