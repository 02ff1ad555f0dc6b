package core

// DefaultClientBuffer is the event queue depth used when no explicit buffer
// size is configured. Events beyond it are dropped for that client.
const DefaultClientBuffer = 32

// Client is a chat participant as seen by the core layer. Commands flow in,
// events flow out; the transport owns both ends of the connection.
type Client struct {
	ID       string
	Name     string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels. buffer bounds the
// outbound event queue; values <= 0 fall back to DefaultClientBuffer.
func NewClient(id, name string, buffer int) *Client {
	if name == "" {
		name = id
	}
	if buffer <= 0 {
		buffer = DefaultClientBuffer
	}
	return &Client{
		ID:       id,
		Name:     name,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, buffer),
	}
}

// Close closes the command channel, stopping the hub's forwarder for this
// client. Call after UnregisterClient.
func (c *Client) Close() {
	close(c.Commands)
}
