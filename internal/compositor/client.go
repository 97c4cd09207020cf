package compositor

import "github.com/tonybanters/owl/internal/wire"

// Client is one connected Wayland client: its wire connection plus the
// server-side seat device resources bound to it (used to filter event
// broadcast by "does this resource belong to the focused client").
type Client struct {
	Conn *wire.Conn

	Keyboards []wire.ObjectID
	Pointers  []wire.ObjectID

	errored bool
}

func NewClient(conn *wire.Conn) *Client {
	return &Client{Conn: conn}
}

// Errored reports whether PostError has fired on this client; the
// server's read loop disconnects a client in this state as soon as the
// handler that posted the error returns, skipping the rest of the
// messages from that read.
func (c *Client) Errored() bool { return c.errored }

func (c *Client) AddKeyboard(id wire.ObjectID) { c.Keyboards = append(c.Keyboards, id) }
func (c *Client) AddPointer(id wire.ObjectID)  { c.Pointers = append(c.Pointers, id) }

func (c *Client) RemoveKeyboard(id wire.ObjectID) {
	c.Keyboards = removeID(c.Keyboards, id)
}

func (c *Client) RemovePointer(id wire.ObjectID) {
	c.Pointers = removeID(c.Pointers, id)
}

func removeID(ids []wire.ObjectID, target wire.ObjectID) []wire.ObjectID {
	out := ids[:0]
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
