package proto

import "github.com/tonybanters/owl/internal/wire"

// xdg_wm_base, xdg_surface, xdg_toplevel opcodes, grounded on the
// gogpu-gogpu wayland package's client-side xdg_shell constants (the
// wire layout is identical; server vs. client only changes which
// opcodes are requests vs. events).
const (
	XdgWmBaseRequestDestroy          wire.Opcode = 0
	XdgWmBaseRequestCreatePositioner wire.Opcode = 1
	XdgWmBaseRequestGetXdgSurface    wire.Opcode = 2
	XdgWmBaseRequestPong             wire.Opcode = 3

	XdgWmBaseEventPing wire.Opcode = 0
)

func SendXdgWmBasePing(c *wire.Conn, id wire.ObjectID, serial uint32) error {
	b := wire.NewMessageBuilder()
	b.PutUint32(serial)
	return c.Send(b.BuildMessage(id, XdgWmBaseEventPing))
}

const (
	XdgSurfaceRequestDestroy           wire.Opcode = 0
	XdgSurfaceRequestGetToplevel       wire.Opcode = 1
	XdgSurfaceRequestGetPopup          wire.Opcode = 2
	XdgSurfaceRequestSetWindowGeometry wire.Opcode = 3
	XdgSurfaceRequestAckConfigure      wire.Opcode = 4

	XdgSurfaceEventConfigure wire.Opcode = 0
)

func SendXdgSurfaceConfigure(c *wire.Conn, id wire.ObjectID, serial uint32) error {
	b := wire.NewMessageBuilder()
	b.PutUint32(serial)
	return c.Send(b.BuildMessage(id, XdgSurfaceEventConfigure))
}

const (
	XdgToplevelRequestDestroy         wire.Opcode = 0
	XdgToplevelRequestSetParent       wire.Opcode = 1
	XdgToplevelRequestSetTitle        wire.Opcode = 2
	XdgToplevelRequestSetAppID        wire.Opcode = 3
	XdgToplevelRequestShowWindowMenu  wire.Opcode = 4
	XdgToplevelRequestMove            wire.Opcode = 5
	XdgToplevelRequestResize          wire.Opcode = 6
	XdgToplevelRequestSetMaxSize      wire.Opcode = 7
	XdgToplevelRequestSetMinSize      wire.Opcode = 8
	XdgToplevelRequestSetMaximized    wire.Opcode = 9
	XdgToplevelRequestUnsetMaximized  wire.Opcode = 10
	XdgToplevelRequestSetFullscreen   wire.Opcode = 11
	XdgToplevelRequestUnsetFullscreen wire.Opcode = 12
	XdgToplevelRequestSetMinimized    wire.Opcode = 13

	XdgToplevelEventConfigure      wire.Opcode = 0
	XdgToplevelEventClose          wire.Opcode = 1
	XdgToplevelEventConfigureBounds wire.Opcode = 2 // v4+
	XdgToplevelEventWmCapabilities wire.Opcode = 3 // v5+
)

// xdg_toplevel.state values carried in the configure states array.
const (
	XdgToplevelStateMaximized  uint32 = 1
	XdgToplevelStateFullscreen uint32 = 2
	XdgToplevelStateResizing   uint32 = 3
	XdgToplevelStateActivated  uint32 = 4
)

func SendXdgToplevelConfigure(c *wire.Conn, id wire.ObjectID, width, height int32, states []uint32) error {
	b := wire.NewMessageBuilder()
	b.PutInt32(width).PutInt32(height).PutUint32Array(states)
	return c.Send(b.BuildMessage(id, XdgToplevelEventConfigure))
}

func SendXdgToplevelClose(c *wire.Conn, id wire.ObjectID) error {
	b := wire.NewMessageBuilder()
	return c.Send(b.BuildMessage(id, XdgToplevelEventClose))
}

// xdg_positioner (stub: popup positioning is a spec §1 Non-goal).
const (
	XdgPositionerRequestDestroy             wire.Opcode = 0
	XdgPositionerRequestSetSize             wire.Opcode = 1
	XdgPositionerRequestSetAnchorRect       wire.Opcode = 2
	XdgPositionerRequestSetAnchor           wire.Opcode = 3
	XdgPositionerRequestSetGravity          wire.Opcode = 4
	XdgPositionerRequestSetConstraintAdjust wire.Opcode = 5
	XdgPositionerRequestSetOffset           wire.Opcode = 6
)
