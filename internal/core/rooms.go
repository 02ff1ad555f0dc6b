package core

import "sync"

// DefaultHistoryLimit bounds each room's message log.
const DefaultHistoryLimit = 50

// RoomInfo is a read-only view of a room for the catalog surface.
type RoomInfo struct {
	Name     string
	Members  int
	Messages int
}

// RoomStore owns every room's log and member set. A single lock serializes
// all room mutations; per-room linearizability is the contract, and room
// critical sections are short (append, bounded eviction, set mutation), so
// one lock is sufficient at this scale.
type RoomStore struct {
	mu    sync.RWMutex
	limit int
	rooms map[string]*room
}

// NewRoomStore builds an empty store. limit bounds each room's log; values
// <= 0 fall back to DefaultHistoryLimit.
func NewRoomStore(limit int) *RoomStore {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &RoomStore{
		limit: limit,
		rooms: make(map[string]*room),
	}
}

// Limit returns the per-room log bound.
func (s *RoomStore) Limit() int {
	return s.limit
}

// Ensure lazily creates the named room. Returns true if it was created by
// this call. Rooms are never deleted; an empty room retains its log.
func (s *RoomStore) Ensure(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rooms[name]; exists {
		return false
	}
	s.rooms[name] = newRoom(name, s.limit)
	return true
}

// SeedLog loads archived messages into a room's log, creating the room if
// needed, and resumes ID assignment past the archived maximum.
func (s *RoomStore) SeedLog(name string, msgs []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(name).seed(msgs)
}

// Append assigns the message its room-monotonic ID and server timestamp,
// appends it to the room's log with FIFO eviction, and returns the stored
// message.
func (s *RoomStore) Append(name string, m Message) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.Room = name
	return s.ensureLocked(name).append(m)
}

// Snapshot returns a consistent copy of the room's log in insertion order.
// Unknown rooms yield an empty snapshot.
func (s *RoomStore) Snapshot(name string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, exists := s.rooms[name]
	if !exists {
		return nil
	}
	return r.snapshot()
}

// AddMember inserts a client into the room's member set, creating the room
// if needed. Adding a present member is a no-op. Returns true if added.
func (s *RoomStore) AddMember(name string, c *Client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ensureLocked(name).addMember(c)
}

// RemoveMember deletes a client from the room's member set. Removing an
// absent member (or from an unknown room) is a no-op. Returns true if
// removed.
func (s *RoomStore) RemoveMember(name string, c *Client) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, exists := s.rooms[name]
	if !exists {
		return false
	}
	return r.removeMember(c)
}

// IsMember reports whether the client is in the room's member set.
func (s *RoomStore) IsMember(name string, c *Client) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, exists := s.rooms[name]
	if !exists {
		return false
	}
	_, ok := r.members[c]
	return ok
}

// MemberCount returns the number of connected members in the room.
func (s *RoomStore) MemberCount(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, exists := s.rooms[name]
	if !exists {
		return 0
	}
	return len(r.members)
}

// Broadcast queues the event for every member of the room. skip, when
// non-nil, is excluded (used for notices addressed to "other members").
func (s *RoomStore) Broadcast(name string, event *Event, skip *Client) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if r, exists := s.rooms[name]; exists {
		r.broadcast(event, skip)
	}
}

// Rooms lists every known room for the catalog surface.
func (s *RoomStore) Rooms() []RoomInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RoomInfo, 0, len(s.rooms))
	for _, r := range s.rooms {
		out = append(out, RoomInfo{Name: r.name, Members: len(r.members), Messages: len(r.log)})
	}
	return out
}

func (s *RoomStore) ensureLocked(name string) *room {
	r, exists := s.rooms[name]
	if !exists {
		r = newRoom(name, s.limit)
		s.rooms[name] = r
	}
	return r
}
