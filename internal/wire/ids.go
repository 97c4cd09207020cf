// Package wire implements the Wayland wire protocol: object IDs, opcodes,
// message framing, and the socket-level transport used to talk to clients.
//
// The encoding matches the protocol's informal wire format: messages are
// 32-bit aligned, little-endian, and addressed by a 32-bit object id.
package wire

import "fmt"

// ObjectID identifies a server-side object within a single client's
// namespace. IDs below 0xff000000 are client-allocated; the range above
// is reserved for server-allocated ids (unused by this compositor, which
// never needs to create ids the client did not request via new_id).
type ObjectID uint32

// DisplayID is always object 1 on every connection.
const DisplayID ObjectID = 1

// Opcode is a request or event number, scoped to one interface.
type Opcode uint16

// NewID is the wire representation of a new_id argument: the client
// allocates the id and the server merely learns it.
type NewID = ObjectID

// Fixed is a 24.8 signed fixed-point number, Wayland's "fixed" wire type.
type Fixed int32

// FixedFromFloat converts a float64 to wire Fixed.
func FixedFromFloat(f float64) Fixed {
	return Fixed(int32(f*256 + 0.5))
}

// Float64 converts a wire Fixed to float64.
func (f Fixed) Float64() float64 {
	return float64(f) / 256.0
}

func (id ObjectID) String() string {
	return fmt.Sprintf("obj#%d", uint32(id))
}
