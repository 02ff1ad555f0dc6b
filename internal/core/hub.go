package core

import (
	"context"

	"github.com/rs/zerolog"

	"securechat/internal/store"
)

// Hub is the broadcast router: a single goroutine consumes registrations,
// disconnects and client commands, mutates the room store and session
// registry, and fans events out to room members. One serialization domain
// keeps every room's log and membership totally ordered.
type Hub struct {
	rooms    *RoomStore
	sessions *SessionManager
	archive  store.MessageArchive // may be nil
	log      zerolog.Logger

	register   chan *Client
	unregister chan *Client
	commands   chan clientCommand
	quit       chan struct{}

	ctx context.Context
}

type clientCommand struct {
	client *Client
	cmd    *Command
}

// NewHub creates the router. rooms may be nil for a store with default
// limits; archive may be nil to run fully in memory; logger may be nil.
func NewHub(rooms *RoomStore, archive store.MessageArchive, logger *zerolog.Logger) *Hub {
	if rooms == nil {
		rooms = NewRoomStore(0)
	}
	lg := zerolog.Nop()
	if logger != nil {
		lg = *logger
	}
	return &Hub{
		rooms:    rooms,
		sessions: NewSessionManager(),
		archive:  archive,
		log:      lg,

		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan clientCommand, 64),
		quit:       make(chan struct{}),

		ctx: context.Background(),
	}
}

// EnsureRooms creates the named rooms up front so the catalog is populated
// before anyone joins, seeding each from the archive when one is
// configured. Call before Run.
func (h *Hub) EnsureRooms(names ...string) {
	for _, name := range names {
		if name != "" {
			h.ensureRoom(name)
		}
	}
}

// Rooms exposes the room store for read-only surfaces (catalog, history).
func (h *Hub) Rooms() *RoomStore {
	return h.rooms
}

// Run processes hub traffic until ctx is cancelled. Call exactly once, in
// its own goroutine.
func (h *Hub) Run(ctx context.Context) {
	h.ctx = ctx
	defer close(h.quit)

	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.handleRegister(c)
		case c := <-h.unregister:
			h.handleDisconnect(c)
		case cc := <-h.commands:
			h.dispatch(cc.client, cc.cmd)
		}
	}
}

// RegisterClient registers the session and starts forwarding its commands
// into the hub. Returns after the hub has recorded the session, so commands
// sent afterwards always see a registered session.
func (h *Hub) RegisterClient(c *Client) {
	select {
	case h.register <- c:
	case <-h.quit:
		return
	}

	go h.forward(c)
}

// UnregisterClient removes the session and its room membership. Safe to
// call more than once per client; cleanup happens exactly once.
func (h *Hub) UnregisterClient(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

func (h *Hub) forward(c *Client) {
	for {
		select {
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.commands <- clientCommand{client: c, cmd: cmd}:
			case <-h.quit:
				return
			}
		case <-h.quit:
			return
		}
	}
}

func (h *Hub) handleRegister(c *Client) {
	h.sessions.Register(c.ID, c.Name)
	h.log.Debug().Str("session_id", c.ID).Msg("session registered")
}

func (h *Hub) handleDisconnect(c *Client) {
	sess, ok := h.sessions.Get(c.ID)
	if !ok {
		// Disconnect reported more than once; nothing left to clean up.
		return
	}
	room, _ := h.sessions.Unregister(c.ID)
	if room != "" && h.rooms.RemoveMember(room, c) {
		h.rooms.Broadcast(room, statusEvent(room, sess.Name+" has left the room."), nil)
	}
	h.log.Debug().Str("session_id", c.ID).Str("room", room).Msg("session unregistered")
}

func (h *Hub) dispatch(c *Client, cmd *Command) {
	switch cmd.Kind {
	case CommandJoinRoom:
		h.handleJoin(c, cmd.Room)
	case CommandLeaveRoom:
		h.handleLeave(c)
	case CommandSendRoomMessage:
		h.handleSend(c, cmd)
	case CommandSetName:
		h.handleSetName(c, cmd.Name)
	default:
		h.deliverError(c, coreError(ErrCodeBadRequest, "unknown command"))
	}
}

// handleJoin moves the session into room as one atomic transition: the
// session is never a member of two rooms, and the old room's members see a
// leave notice before the new room's members see the join notice.
func (h *Hub) handleJoin(c *Client, room string) {
	if room == "" {
		h.deliverError(c, coreError(ErrCodeBadRequest, "room is required"))
		return
	}

	sess, ok := h.sessions.Get(c.ID)
	if !ok {
		h.deliverError(c, coreError(ErrCodeUnknownSession, "session not registered"))
		return
	}

	prev, err := h.sessions.SetRoom(c.ID, room)
	if err != nil {
		h.deliverError(c, coreError(ErrCodeUnknownSession, "session not registered"))
		return
	}

	if prev != "" && prev != room {
		if h.rooms.RemoveMember(prev, c) {
			h.rooms.Broadcast(prev, statusEvent(prev, sess.Name+" has left the room."), nil)
		}
	}

	h.ensureRoom(room)
	joined := h.rooms.AddMember(room, c)

	// History goes to the joiner only; it is never broadcast.
	h.deliver(c, &Event{Kind: EventHistory, Room: room, Messages: h.rooms.Snapshot(room)})

	if joined && prev != room {
		h.rooms.Broadcast(room, statusEvent(room, sess.Name+" has entered the room."), c)
	}

	h.log.Info().Str("session_id", c.ID).Str("room", room).Str("prev", prev).Msg("joined room")
}

func (h *Hub) handleLeave(c *Client) {
	sess, ok := h.sessions.Get(c.ID)
	if !ok {
		h.deliverError(c, coreError(ErrCodeUnknownSession, "session not registered"))
		return
	}

	prev, err := h.sessions.SetRoom(c.ID, "")
	if err != nil || prev == "" {
		// No current room: leave is a no-op.
		return
	}

	if h.rooms.RemoveMember(prev, c) {
		h.rooms.Broadcast(prev, statusEvent(prev, sess.Name+" has left the room."), nil)
	}

	h.log.Info().Str("session_id", c.ID).Str("room", prev).Msg("left room")
}

// handleSend validates membership server-side, appends the message to the
// room's bounded log, archives it, and broadcasts to every current member
// including the sender: the echo makes the log the single source of truth
// for the originator too.
func (h *Hub) handleSend(c *Client, cmd *Command) {
	sess, ok := h.sessions.Get(c.ID)
	if !ok {
		h.deliverError(c, coreError(ErrCodeUnknownSession, "session not registered"))
		return
	}

	if cmd.Body == "" && cmd.Attachment == "" {
		// Nothing to send.
		return
	}

	room := cmd.Room
	if room == "" {
		room = sess.Room
	}
	if room == "" || room != sess.Room || !h.rooms.IsMember(room, c) {
		h.deliverError(c, coreError(ErrCodeNotMember, "not a member of room "+room))
		return
	}

	msg := h.rooms.Append(room, Message{
		SenderID:   c.ID,
		SenderName: sess.Name,
		Body:       cmd.Body,
		Obfuscated: cmd.Obfuscated,
		Attachment: cmd.Attachment,
	})

	h.archiveMessage(msg)

	h.rooms.Broadcast(room, &Event{Kind: EventRoomMessage, Room: room, Message: msg}, nil)
}

func (h *Hub) handleSetName(c *Client, name string) {
	if name == "" {
		h.deliverError(c, coreError(ErrCodeBadRequest, "name is required"))
		return
	}
	if err := h.sessions.Rename(c.ID, name); err != nil {
		h.deliverError(c, coreError(ErrCodeUnknownSession, "session not registered"))
	}
}

// ensureRoom creates the room on first reference, seeding its log from the
// archive when one is configured.
func (h *Hub) ensureRoom(room string) {
	if !h.rooms.Ensure(room) || h.archive == nil {
		return
	}
	archived, err := h.archive.RecentMessages(h.ctx, room, h.rooms.Limit())
	if err != nil {
		h.log.Warn().Err(err).Str("room", room).Msg("failed to load archived history")
		return
	}
	if len(archived) == 0 {
		return
	}
	msgs := make([]Message, 0, len(archived))
	for _, m := range archived {
		msgs = append(msgs, Message{
			ID:         m.ID,
			Room:       m.Room,
			SenderID:   m.SenderID,
			SenderName: m.SenderName,
			Body:       m.Body,
			Obfuscated: m.Obfuscated,
			Attachment: m.Attachment,
			CreatedAt:  m.CreatedAt,
		})
	}
	h.rooms.SeedLog(room, msgs)
}

// archiveMessage persists the message best-effort: failures are logged and
// never fail the send.
func (h *Hub) archiveMessage(m Message) {
	if h.archive == nil {
		return
	}
	err := h.archive.SaveMessage(h.ctx, store.Message{
		ID:         m.ID,
		Room:       m.Room,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Body:       m.Body,
		Obfuscated: m.Obfuscated,
		Attachment: m.Attachment,
		CreatedAt:  m.CreatedAt,
	})
	if err != nil {
		h.log.Warn().Err(err).Str("room", m.Room).Int64("id", m.ID).Msg("failed to archive message")
		return
	}
	if err := h.archive.PruneRoom(h.ctx, m.Room, h.rooms.Limit()); err != nil {
		h.log.Warn().Err(err).Str("room", m.Room).Msg("failed to prune archive")
	}
}

func (h *Hub) deliver(c *Client, ev *Event) {
	select {
	case c.Events <- ev:
	default:
		h.log.Warn().Str("session_id", c.ID).Msg("dropping event for slow client")
	}
}

func (h *Hub) deliverError(c *Client, err *CoreError) {
	h.deliver(c, &Event{Kind: EventError, Error: err})
}

func statusEvent(room, text string) *Event {
	return &Event{Kind: EventStatus, Room: room, Text: text}
}
