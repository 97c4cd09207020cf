package wire

import "encoding/binary"

// MessageBuilder accumulates argument bytes for one outgoing event,
// mirroring the request-side builder the client libraries in this corpus
// use (see the gogpu-gogpu wayland package's MessageBuilder), but for
// server -> client events instead of client -> server requests.
type MessageBuilder struct {
	buf []byte
	fds []int
}

func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{buf: make([]byte, 0, 32)}
}

func (b *MessageBuilder) PutInt32(v int32) *MessageBuilder {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(v))
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func (b *MessageBuilder) PutUint32(v uint32) *MessageBuilder {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func (b *MessageBuilder) PutFixed(v Fixed) *MessageBuilder {
	return b.PutInt32(int32(v))
}

func (b *MessageBuilder) PutObject(id ObjectID) *MessageBuilder {
	return b.PutUint32(uint32(id))
}

func (b *MessageBuilder) PutNewID(id ObjectID) *MessageBuilder {
	return b.PutUint32(uint32(id))
}

// PutString appends a length-prefixed, NUL-terminated, 32-bit-padded
// string argument.
func (b *MessageBuilder) PutString(s string) *MessageBuilder {
	n := len(s) + 1 // NUL terminator counts towards the length
	b.PutUint32(uint32(n))
	b.buf = append(b.buf, s...)
	b.buf = append(b.buf, 0)
	for len(b.buf)%4 != 0 {
		b.buf = append(b.buf, 0)
	}
	return b
}

// PutArray appends a length-prefixed, 32-bit-padded array of raw bytes
// (e.g. the pressed-keys array sent on keyboard enter).
func (b *MessageBuilder) PutArray(data []byte) *MessageBuilder {
	b.PutUint32(uint32(len(data)))
	b.buf = append(b.buf, data...)
	for len(b.buf)%4 != 0 {
		b.buf = append(b.buf, 0)
	}
	return b
}

// PutUint32Array encodes uint32s little-endian into an array argument,
// used for the xdg_toplevel.configure states array and the pressed-keys
// array of wl_keyboard.enter.
func (b *MessageBuilder) PutUint32Array(vals []uint32) *MessageBuilder {
	data := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(data[i*4:], v)
	}
	return b.PutArray(data)
}

// PutFD records a file descriptor to be sent out-of-band via SCM_RIGHTS
// alongside this message. Order matters: fds are consumed by the peer in
// the order 'h' arguments appear in the signature.
func (b *MessageBuilder) PutFD(fd int) *MessageBuilder {
	b.fds = append(b.fds, fd)
	return b
}

// BuildMessage finalizes the accumulated arguments into a Message
// addressed to target, for the given opcode.
func (b *MessageBuilder) BuildMessage(target ObjectID, op Opcode) *Message {
	return &Message{Sender: target, Opcode: op, Args: b.buf, FDs: b.fds}
}
