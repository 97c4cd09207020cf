package proto

import "github.com/tonybanters/owl/internal/wire"

// wl_seat
const (
	SeatRequestGetPointer  wire.Opcode = 0
	SeatRequestGetKeyboard wire.Opcode = 1
	SeatRequestGetTouch    wire.Opcode = 2
	SeatRequestRelease     wire.Opcode = 3 // v5+

	SeatEventCapabilities wire.Opcode = 0
	SeatEventName         wire.Opcode = 1 // v2+
)

// wl_seat.capability bitmask (spec §6: POINTER|KEYBOARD).
const (
	SeatCapabilityPointer  uint32 = 1
	SeatCapabilityKeyboard uint32 = 2
	SeatCapabilityTouch    uint32 = 4
)

func SendSeatCapabilities(c *wire.Conn, seat wire.ObjectID, caps uint32) error {
	b := wire.NewMessageBuilder()
	b.PutUint32(caps)
	return c.Send(b.BuildMessage(seat, SeatEventCapabilities))
}

func SendSeatName(c *wire.Conn, seat wire.ObjectID, name string) error {
	b := wire.NewMessageBuilder()
	b.PutString(name)
	return c.Send(b.BuildMessage(seat, SeatEventName))
}

// wl_keyboard
const (
	KeyboardRequestRelease wire.Opcode = 0 // v3+

	KeyboardEventKeymap     wire.Opcode = 0
	KeyboardEventEnter      wire.Opcode = 1
	KeyboardEventLeave      wire.Opcode = 2
	KeyboardEventKey        wire.Opcode = 3
	KeyboardEventModifiers  wire.Opcode = 4
	KeyboardEventRepeatInfo wire.Opcode = 5 // v4+
)

// wl_keyboard.keymap_format
const KeyboardKeymapFormatXKBV1 uint32 = 1

// wl_keyboard.key_state
const (
	KeyStateReleased uint32 = 0
	KeyStatePressed  uint32 = 1
)

func SendKeyboardKeymap(c *wire.Conn, kbd wire.ObjectID, format uint32, fd int, size uint32) error {
	b := wire.NewMessageBuilder()
	b.PutUint32(format).PutFD(fd).PutUint32(size)
	return c.Send(b.BuildMessage(kbd, KeyboardEventKeymap))
}

func SendKeyboardEnter(c *wire.Conn, kbd wire.ObjectID, serial uint32, surface wire.ObjectID, keys []uint32) error {
	b := wire.NewMessageBuilder()
	b.PutUint32(serial).PutObject(surface).PutUint32Array(keys)
	return c.Send(b.BuildMessage(kbd, KeyboardEventEnter))
}

func SendKeyboardLeave(c *wire.Conn, kbd wire.ObjectID, serial uint32, surface wire.ObjectID) error {
	b := wire.NewMessageBuilder()
	b.PutUint32(serial).PutObject(surface)
	return c.Send(b.BuildMessage(kbd, KeyboardEventLeave))
}

func SendKeyboardKey(c *wire.Conn, kbd wire.ObjectID, serial, timeMS, key, state uint32) error {
	b := wire.NewMessageBuilder()
	b.PutUint32(serial).PutUint32(timeMS).PutUint32(key).PutUint32(state)
	return c.Send(b.BuildMessage(kbd, KeyboardEventKey))
}

func SendKeyboardModifiers(c *wire.Conn, kbd wire.ObjectID, serial, modsDepressed, modsLatched, modsLocked, group uint32) error {
	b := wire.NewMessageBuilder()
	b.PutUint32(serial).PutUint32(modsDepressed).PutUint32(modsLatched).PutUint32(modsLocked).PutUint32(group)
	return c.Send(b.BuildMessage(kbd, KeyboardEventModifiers))
}

func SendKeyboardRepeatInfo(c *wire.Conn, kbd wire.ObjectID, rate, delay int32) error {
	b := wire.NewMessageBuilder()
	b.PutInt32(rate).PutInt32(delay)
	return c.Send(b.BuildMessage(kbd, KeyboardEventRepeatInfo))
}

// wl_pointer
const (
	PointerRequestSetCursor wire.Opcode = 0
	PointerRequestRelease   wire.Opcode = 1 // v3+

	PointerEventEnter  wire.Opcode = 0
	PointerEventLeave  wire.Opcode = 1
	PointerEventMotion wire.Opcode = 2
	PointerEventButton wire.Opcode = 3
	PointerEventAxis   wire.Opcode = 4
	PointerEventFrame  wire.Opcode = 5 // v5+
)

const (
	PointerButtonStateReleased uint32 = 0
	PointerButtonStatePressed  uint32 = 1
)

func SendPointerEnter(c *wire.Conn, ptr wire.ObjectID, serial uint32, surface wire.ObjectID, x, y wire.Fixed) error {
	b := wire.NewMessageBuilder()
	b.PutUint32(serial).PutObject(surface).PutFixed(x).PutFixed(y)
	return c.Send(b.BuildMessage(ptr, PointerEventEnter))
}

func SendPointerLeave(c *wire.Conn, ptr wire.ObjectID, serial uint32, surface wire.ObjectID) error {
	b := wire.NewMessageBuilder()
	b.PutUint32(serial).PutObject(surface)
	return c.Send(b.BuildMessage(ptr, PointerEventLeave))
}

func SendPointerMotion(c *wire.Conn, ptr wire.ObjectID, timeMS uint32, x, y wire.Fixed) error {
	b := wire.NewMessageBuilder()
	b.PutUint32(timeMS).PutFixed(x).PutFixed(y)
	return c.Send(b.BuildMessage(ptr, PointerEventMotion))
}

func SendPointerButton(c *wire.Conn, ptr wire.ObjectID, serial, timeMS, button, state uint32) error {
	b := wire.NewMessageBuilder()
	b.PutUint32(serial).PutUint32(timeMS).PutUint32(button).PutUint32(state)
	return c.Send(b.BuildMessage(ptr, PointerEventButton))
}

func SendPointerFrame(c *wire.Conn, ptr wire.ObjectID) error {
	b := wire.NewMessageBuilder()
	return c.Send(b.BuildMessage(ptr, PointerEventFrame))
}

// wl_output
const (
	OutputRequestRelease wire.Opcode = 0 // v3+

	OutputEventGeometry wire.Opcode = 0
	OutputEventMode     wire.Opcode = 1
	OutputEventDone     wire.Opcode = 2 // v2+
	OutputEventScale    wire.Opcode = 3 // v2+
	OutputEventName     wire.Opcode = 4 // v4+
)

const OutputModeCurrent uint32 = 0x1

func SendOutputGeometry(c *wire.Conn, out wire.ObjectID, x, y int32, make_, model string, transform int32) error {
	b := wire.NewMessageBuilder()
	b.PutInt32(x).PutInt32(y).PutInt32(0).PutInt32(0).PutInt32(0).
		PutString(make_).PutString(model).PutInt32(transform)
	return c.Send(b.BuildMessage(out, OutputEventGeometry))
}

func SendOutputMode(c *wire.Conn, out wire.ObjectID, flags uint32, width, height, refresh int32) error {
	b := wire.NewMessageBuilder()
	b.PutUint32(flags).PutInt32(width).PutInt32(height).PutInt32(refresh)
	return c.Send(b.BuildMessage(out, OutputEventMode))
}

func SendOutputDone(c *wire.Conn, out wire.ObjectID) error {
	b := wire.NewMessageBuilder()
	return c.Send(b.BuildMessage(out, OutputEventDone))
}

func SendOutputName(c *wire.Conn, out wire.ObjectID, name string) error {
	b := wire.NewMessageBuilder()
	b.PutString(name)
	return c.Send(b.BuildMessage(out, OutputEventName))
}
