// Package proto holds the generated-style opcode tables and wire-level
// event senders for every interface OWL implements. In a full toolchain
// this file would be produced by a protocol-XML code generator (out of
// scope per the system's design: see spec §1); here it is hand-written
// to the same shape that generator would produce, so internal/compositor
// can plug handlers into a stable (interface, opcode) -> behavior table
// instead of hand-rolling wire encoding at every call site.
package proto

import "github.com/tonybanters/owl/internal/wire"

// Interface names and max versions advertised in the registry, per
// spec §6.
const (
	IfaceCompositor       = "wl_compositor"
	IfaceShm              = "wl_shm"
	IfaceSubcompositor    = "wl_subcompositor"
	IfaceDataDeviceManager = "wl_data_device_manager"
	IfaceSeat             = "wl_seat"
	IfaceOutput           = "wl_output"
	IfaceXdgWmBase        = "xdg_wm_base"

	VersionCompositor       = 6
	VersionShm              = 1
	VersionSubcompositor    = 1
	VersionDataDeviceManager = 3
	VersionSeat             = 7
	VersionOutput           = 4
	VersionXdgWmBase        = 3
)

// wl_display
const (
	DisplayRequestSync        wire.Opcode = 0
	DisplayRequestGetRegistry wire.Opcode = 1

	DisplayEventError    wire.Opcode = 0
	DisplayEventDeleteID wire.Opcode = 1
)

// wl_display.error codes.
const (
	DisplayErrorInvalidObject  uint32 = 0
	DisplayErrorInvalidMethod  uint32 = 1
	DisplayErrorNoMemory       uint32 = 2
	DisplayErrorImplementation uint32 = 3
)

// wl_callback
const (
	CallbackEventDone wire.Opcode = 0
)

func SendCallbackDone(c *wire.Conn, id wire.ObjectID, data uint32) error {
	b := wire.NewMessageBuilder()
	b.PutUint32(data)
	return c.Send(b.BuildMessage(id, CallbackEventDone))
}

// wl_registry
const (
	RegistryRequestBind wire.Opcode = 0

	RegistryEventGlobal       wire.Opcode = 0
	RegistryEventGlobalRemove wire.Opcode = 1
)

func SendRegistryGlobal(c *wire.Conn, registry wire.ObjectID, name uint32, iface string, version uint32) error {
	b := wire.NewMessageBuilder()
	b.PutUint32(name).PutString(iface).PutUint32(version)
	return c.Send(b.BuildMessage(registry, RegistryEventGlobal))
}

func SendDisplayError(c *wire.Conn, objectID wire.ObjectID, code uint32, message string) error {
	b := wire.NewMessageBuilder()
	b.PutObject(objectID).PutUint32(code).PutString(message)
	return c.Send(b.BuildMessage(wire.DisplayID, DisplayEventError))
}

func SendDisplayDeleteID(c *wire.Conn, id wire.ObjectID) error {
	b := wire.NewMessageBuilder()
	b.PutUint32(uint32(id))
	return c.Send(b.BuildMessage(wire.DisplayID, DisplayEventDeleteID))
}
