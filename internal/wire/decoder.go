package wire

import (
	"encoding/binary"
	"unsafe"

	"honnef.co/go/safeish"
)

// Decoder walks argument bytes out of a received request. Methods consume
// the buffer left to right, matching the interface's request signature.
type Decoder struct {
	buf []byte
	off int
	fds []int
	fdi int
}

func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// WithFDs attaches the file descriptors received alongside this message
// via SCM_RIGHTS, so that 'h'-typed arguments can be decoded in order.
func (d *Decoder) WithFDs(fds []int) *Decoder {
	d.fds = fds
	return d
}

func (d *Decoder) remaining() int { return len(d.buf) - d.off }

func (d *Decoder) Int32() (int32, error) {
	if d.remaining() < 4 {
		return 0, ErrTruncated
	}
	v := int32(binary.LittleEndian.Uint32(d.buf[d.off:]))
	d.off += 4
	return v, nil
}

func (d *Decoder) Uint32() (uint32, error) {
	if d.remaining() < 4 {
		return 0, ErrTruncated
	}
	v := binary.LittleEndian.Uint32(d.buf[d.off:])
	d.off += 4
	return v, nil
}

func (d *Decoder) Fixed() (Fixed, error) {
	v, err := d.Int32()
	return Fixed(v), err
}

func (d *Decoder) Object() (ObjectID, error) {
	v, err := d.Uint32()
	return ObjectID(v), err
}

func (d *Decoder) NewID() (ObjectID, error) {
	return d.Object()
}

// String decodes a length-prefixed, NUL-terminated, padded string.
//
// The length scan uses safeish.FindNull to walk forward from a pointer
// into the read buffer to the terminating NUL without an intermediate
// allocation, then materializes the Go string once the extent is known.
func (d *Decoder) String() (string, error) {
	n, err := d.Uint32()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	length := int(n)
	if d.remaining() < length {
		return "", ErrBadString
	}
	raw := d.buf[d.off : d.off+length]
	// raw includes the NUL terminator; safeish.FindNull confirms it
	// lands where the length says it should (defense against a
	// malicious client lying about string length).
	nul := safeish.FindNull(safeish.Cast[*byte](unsafe.Pointer(&raw[0])))
	if nul != length-1 {
		return "", ErrBadString
	}
	s := string(raw[:length-1])
	d.off += pad32(length)
	return s, nil
}

// Array decodes a length-prefixed, padded byte array.
func (d *Decoder) Array() ([]byte, error) {
	n, err := d.Uint32()
	if err != nil {
		return nil, err
	}
	length := int(n)
	if length < 0 || d.remaining() < length {
		return nil, ErrBadArray
	}
	out := make([]byte, length)
	copy(out, d.buf[d.off:d.off+length])
	d.off += pad32(length)
	return out, nil
}

// FD consumes the next file descriptor carried out-of-band with this
// message. Requests never embed more fds than 'h' arguments in their
// signature, so running out here indicates a malformed request.
func (d *Decoder) FD() (int, error) {
	if d.fdi >= len(d.fds) {
		return -1, ErrTruncated
	}
	fd := d.fds[d.fdi]
	d.fdi++
	return fd, nil
}

// DecodeMessage parses a full message (header + args) out of buf.
func DecodeMessage(buf []byte) (*Message, error) {
	sender, op, size, err := DecodeHeader(buf)
	if err != nil {
		return nil, err
	}
	if len(buf) < size {
		return nil, ErrTruncated
	}
	return &Message{Sender: sender, Opcode: op, Args: buf[8:size]}, nil
}
