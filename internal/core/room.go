package core

import "time"

// room holds one channel's bounded message log and connected members. All
// access goes through RoomStore, which owns the locking discipline.
type room struct {
	name    string
	limit   int
	nextID  int64
	log     []Message
	members map[*Client]struct{}
}

func newRoom(name string, limit int) *room {
	return &room{
		name:    name,
		limit:   limit,
		nextID:  1,
		members: make(map[*Client]struct{}),
	}
}

// append assigns the room-monotonic ID and a server timestamp, stores the
// message, and evicts from the front once the log exceeds the limit. The
// timestamp is clamped to stay strictly after the previous entry so log
// order and timestamp order never diverge.
func (r *room) append(m Message) Message {
	m.ID = r.nextID
	r.nextID++

	m.CreatedAt = time.Now()
	if n := len(r.log); n > 0 && !m.CreatedAt.After(r.log[n-1].CreatedAt) {
		m.CreatedAt = r.log[n-1].CreatedAt.Add(time.Nanosecond)
	}

	r.log = append(r.log, m)
	if len(r.log) > r.limit {
		// Reslicing keeps appends O(1) amortized; append reallocates once
		// capacity runs out, releasing the evicted prefix.
		r.log = r.log[1:]
	}
	return m
}

// seed replaces the log with archived messages and resumes ID assignment
// past the highest archived ID. Only valid on a freshly created room.
func (r *room) seed(msgs []Message) {
	if len(msgs) > r.limit {
		msgs = msgs[len(msgs)-r.limit:]
	}
	r.log = append(r.log[:0:0], msgs...)
	for _, m := range msgs {
		if m.ID >= r.nextID {
			r.nextID = m.ID + 1
		}
	}
}

// snapshot returns a copy of the log in insertion order.
func (r *room) snapshot() []Message {
	out := make([]Message, len(r.log))
	copy(out, r.log)
	return out
}

// addMember inserts a client. Returns true if newly added.
func (r *room) addMember(c *Client) bool {
	if _, exists := r.members[c]; exists {
		return false
	}
	r.members[c] = struct{}{}
	return true
}

// removeMember deletes a client. Returns true if removed.
func (r *room) removeMember(c *Client) bool {
	if _, exists := r.members[c]; !exists {
		return false
	}
	delete(r.members, c)
	return true
}

// broadcast queues an event for every member, skipping skip when non-nil.
// A member whose event buffer is full misses the event rather than blocking
// the room; the slow consumer stays connected.
func (r *room) broadcast(event *Event, skip *Client) {
	for client := range r.members {
		if client == skip {
			continue
		}
		select {
		case client.Events <- event:
		default:
			// Drop if slow consumer.
		}
	}
}
