package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandSendRoomMessage delivers a chat message to room participants.
	CommandSendRoomMessage CommandKind = iota
	// CommandJoinRoom moves the client into a room, leaving any prior one.
	CommandJoinRoom
	// CommandLeaveRoom removes the client from its current room.
	CommandLeaveRoom
	// CommandSetName updates the client's display name.
	CommandSetName
)

// Command represents an action requested by a client.
type Command struct {
	Kind       CommandKind
	Room       string
	Name       string
	Body       string
	Obfuscated bool
	Attachment string
}
