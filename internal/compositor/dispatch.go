package compositor

import (
	"fmt"

	"github.com/tonybanters/owl/internal/proto"
	"github.com/tonybanters/owl/internal/wire"
)

// registryMarker is the Data payload for every client's wl_registry
// resource; it carries nothing, the interface string alone is enough to
// route bind requests.
type registryMarker struct{}

// shmPoolHandle and outputBinding are thin Data payloads tying a wire
// resource back to the server-side struct it represents.
type shmPoolHandle struct{ pool *ShmPool }
type outputBinding struct{ out *Output }

// Dispatch routes one decoded request to its handler, looking the
// target object up by interface and opcode (spec §4.1 "core plugs
// handlers into" the generated stub dispatcher). It returns an error
// only for conditions the caller (the connection's read loop) should
// treat as fatal to the connection; protocol-level violations are
// reported to the client via PostError and return nil.
func Dispatch(st *State, cl *Client, msg *wire.Message) error {
	res := cl.Conn.Objects.Lookup(msg.Sender)
	if res == nil {
		PostError(cl, wire.DisplayID, proto.DisplayErrorInvalidObject, fmt.Sprintf("unknown object %d", msg.Sender))
		return nil
	}
	dec := wire.NewDecoder(msg.Args).WithFDs(msg.FDs)

	switch res.Interface {
	case "wl_display":
		return dispatchDisplay(st, cl, res, msg.Opcode, dec)
	case "wl_registry":
		return dispatchRegistry(st, cl, res, msg.Opcode, dec)
	case proto.IfaceCompositor:
		return dispatchCompositor(st, cl, res, msg.Opcode, dec)
	case "wl_surface":
		return dispatchSurface(st, cl, res, msg.Opcode, dec)
	case "wl_region":
		return dispatchRegion(st, cl, res, msg.Opcode, dec)
	case proto.IfaceShm:
		return dispatchShm(st, cl, res, msg.Opcode, dec)
	case "wl_shm_pool":
		return dispatchShmPool(st, cl, res, msg.Opcode, dec)
	case "wl_buffer":
		return dispatchBuffer(st, cl, res, msg.Opcode, dec)
	case proto.IfaceSeat:
		return dispatchSeat(st, cl, res, msg.Opcode, dec)
	case "wl_keyboard":
		return dispatchKeyboard(st, cl, res, msg.Opcode, dec)
	case "wl_pointer":
		return dispatchPointer(st, cl, res, msg.Opcode, dec)
	case proto.IfaceOutput:
		return nil // release only, nothing to do (spec §4.1 output has no client-driven state)
	case proto.IfaceXdgWmBase:
		return dispatchXdgWmBase(st, cl, res, msg.Opcode, dec)
	case "xdg_surface":
		return dispatchXdgSurface(st, cl, res, msg.Opcode, dec)
	case "xdg_toplevel":
		return dispatchXdgToplevel(st, cl, res, msg.Opcode, dec)
	default:
		PostError(cl, msg.Sender, proto.DisplayErrorInvalidMethod, fmt.Sprintf("no dispatcher for %s", res.Interface))
		return nil
	}
}

func dispatchDisplay(st *State, cl *Client, res *wire.Resource, op wire.Opcode, dec *wire.Decoder) error {
	switch op {
	case proto.DisplayRequestSync:
		id, err := dec.NewID()
		if err != nil {
			return badArgs(cl, res.ID)
		}
		proto.SendCallbackDone(cl.Conn, id, 0)
		proto.SendDisplayDeleteID(cl.Conn, id)
	case proto.DisplayRequestGetRegistry:
		id, err := dec.NewID()
		if err != nil {
			return badArgs(cl, res.ID)
		}
		cl.Conn.Objects.Register(id, "wl_registry", 1, &registryMarker{})
		for _, g := range st.Registry.Globals() {
			proto.SendRegistryGlobal(cl.Conn, id, g.Name, g.Interface, g.Version)
		}
	default:
		return badOpcode(cl, res.ID, op)
	}
	return nil
}

func dispatchRegistry(st *State, cl *Client, res *wire.Resource, op wire.Opcode, dec *wire.Decoder) error {
	if op != proto.RegistryRequestBind {
		return badOpcode(cl, res.ID, op)
	}
	name, err1 := dec.Uint32()
	iface, err2 := dec.String()
	version, err3 := dec.Uint32()
	id, err4 := dec.NewID()
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return badArgs(cl, res.ID)
	}
	g, ok := st.Registry.Find(name)
	if !ok || g.Interface != iface {
		PostError(cl, res.ID, proto.DisplayErrorInvalidObject, fmt.Sprintf("no such global %d (%s)", name, iface))
		return nil
	}
	bound := ResolveVersion(g.Version, version)

	switch iface {
	case proto.IfaceCompositor:
		cl.Conn.Objects.Register(id, proto.IfaceCompositor, bound, nil)
	case proto.IfaceShm:
		cl.Conn.Objects.Register(id, proto.IfaceShm, bound, nil)
		proto.SendShmFormat(cl.Conn, id, proto.ShmFormatARGB8888)
		proto.SendShmFormat(cl.Conn, id, proto.ShmFormatXRGB8888)
	case proto.IfaceSubcompositor:
		cl.Conn.Objects.Register(id, proto.IfaceSubcompositor, bound, nil)
	case proto.IfaceDataDeviceManager:
		cl.Conn.Objects.Register(id, proto.IfaceDataDeviceManager, bound, nil)
	case proto.IfaceSeat:
		cl.Conn.Objects.Register(id, proto.IfaceSeat, bound, nil)
		proto.SendSeatCapabilities(cl.Conn, id, proto.SeatCapabilityPointer|proto.SeatCapabilityKeyboard)
		if bound >= 2 {
			proto.SendSeatName(cl.Conn, id, "seat0")
		}
	case proto.IfaceOutput:
		out := st.Outputs[g.OutputIndex]
		cl.Conn.Objects.Register(id, proto.IfaceOutput, bound, &outputBinding{out: out})
		out.ResourceIDByClient[cl] = id
		sendOutputInfo(cl, id, out, bound)
	case proto.IfaceXdgWmBase:
		cl.Conn.Objects.Register(id, proto.IfaceXdgWmBase, bound, nil)
	default:
		PostError(cl, res.ID, proto.DisplayErrorInvalidObject, "unbindable global "+iface)
	}
	return nil
}

func sendOutputInfo(cl *Client, id wire.ObjectID, out *Output, version uint32) {
	proto.SendOutputGeometry(cl.Conn, id, out.X, out.Y, out.Make, out.Model, 0)
	proto.SendOutputMode(cl.Conn, id, proto.OutputModeCurrent, out.Width, out.Height, out.RefreshMilliHz)
	if version >= 4 {
		proto.SendOutputName(cl.Conn, id, out.Name)
	}
	if version >= 2 {
		proto.SendOutputDone(cl.Conn, id)
	}
}

func dispatchCompositor(st *State, cl *Client, res *wire.Resource, op wire.Opcode, dec *wire.Decoder) error {
	switch op {
	case 0: // create_surface
		id, err := dec.NewID()
		if err != nil {
			return badArgs(cl, res.ID)
		}
		surf := st.NewManagedSurface(cl, id)
		cl.Conn.Objects.Register(id, "wl_surface", 1, surf)
	case 1: // create_region
		id, err := dec.NewID()
		if err != nil {
			return badArgs(cl, res.ID)
		}
		cl.Conn.Objects.Register(id, "wl_region", 1, &struct{}{})
	default:
		return badOpcode(cl, res.ID, op)
	}
	return nil
}

func dispatchRegion(st *State, cl *Client, res *wire.Resource, op wire.Opcode, dec *wire.Decoder) error {
	// Region accumulation is never consulted (full-surface damage, spec
	// §9 Open Questions), so every request besides destroy is a noop.
	if op == proto.RegionRequestDestroy {
		cl.Conn.Objects.Destroy(res.ID)
	}
	return nil
}

func dispatchSurface(st *State, cl *Client, res *wire.Resource, op wire.Opcode, dec *wire.Decoder) error {
	surf, ok := res.Data.(*Surface)
	if !ok {
		return badArgs(cl, res.ID)
	}
	switch op {
	case proto.SurfaceRequestDestroy:
		surf.Destroy()
		st.RemoveSurface(surf)
		cl.Conn.Objects.Destroy(res.ID)
	case proto.SurfaceRequestAttach:
		bufID, e1 := dec.Object()
		x, e2 := dec.Int32()
		y, e3 := dec.Int32()
		if e1 != nil || e2 != nil || e3 != nil {
			return badArgs(cl, res.ID)
		}
		var buf *Buffer
		if bufID != 0 {
			bres := cl.Conn.Objects.Lookup(bufID)
			if bres == nil {
				return badArgs(cl, res.ID)
			}
			buf, _ = bres.Data.(*Buffer)
		}
		surf.Attach(buf, x, y)
	case proto.SurfaceRequestDamage, proto.SurfaceRequestDamageBuffer:
		x, e1 := dec.Int32()
		y, e2 := dec.Int32()
		w, e3 := dec.Int32()
		h, e4 := dec.Int32()
		if e1 != nil || e2 != nil || e3 != nil || e4 != nil {
			return badArgs(cl, res.ID)
		}
		surf.Damage(x, y, w, h)
	case proto.SurfaceRequestFrame:
		id, err := dec.NewID()
		if err != nil {
			return badArgs(cl, res.ID)
		}
		cl.Conn.Objects.Register(id, "wl_callback", 1, nil)
		surf.Frame(id)
	case proto.SurfaceRequestCommit:
		surf.Commit()
	case proto.SurfaceRequestSetOpaqueRegion, proto.SurfaceRequestSetInputRegion:
		if _, err := dec.Object(); err != nil {
			return badArgs(cl, res.ID)
		}
	case proto.SurfaceRequestSetBufferTransform, proto.SurfaceRequestSetBufferScale:
		if _, err := dec.Int32(); err != nil {
			return badArgs(cl, res.ID)
		}
	default:
		return badOpcode(cl, res.ID, op)
	}
	return nil
}

func dispatchShm(st *State, cl *Client, res *wire.Resource, op wire.Opcode, dec *wire.Decoder) error {
	if op != proto.ShmRequestCreatePool {
		return badOpcode(cl, res.ID, op)
	}
	id, e1 := dec.NewID()
	fd, e2 := dec.FD()
	size, e3 := dec.Int32()
	if e1 != nil || e2 != nil || e3 != nil {
		return badArgs(cl, res.ID)
	}
	pool, err := NewShmPool(fd, size)
	if err != nil {
		PostNoMemory(cl)
		return nil
	}
	poolRes := cl.Conn.Objects.Register(id, "wl_shm_pool", 1, &shmPoolHandle{pool: pool})
	poolRes.AddDestructor(pool.unref)
	return nil
}

func dispatchShmPool(st *State, cl *Client, res *wire.Resource, op wire.Opcode, dec *wire.Decoder) error {
	h, ok := res.Data.(*shmPoolHandle)
	if !ok {
		return badArgs(cl, res.ID)
	}
	switch op {
	case proto.ShmPoolRequestCreateBuffer:
		id, e1 := dec.NewID()
		offset, e2 := dec.Int32()
		width, e3 := dec.Int32()
		height, e4 := dec.Int32()
		stride, e5 := dec.Int32()
		format, e6 := dec.Uint32()
		if e1 != nil || e2 != nil || e3 != nil || e4 != nil || e5 != nil || e6 != nil {
			return badArgs(cl, res.ID)
		}
		buf, err := NewBuffer(h.pool, offset, width, height, stride, format)
		if err != nil {
			PostError(cl, res.ID, proto.ShmErrorInvalidStride, err.Error())
			return nil
		}
		buf.ResourceID = id
		bufRes := cl.Conn.Objects.Register(id, "wl_buffer", 1, buf)
		bufRes.AddDestructor(buf.Destroy)
	case proto.ShmPoolRequestDestroy:
		// h.pool.unref runs as this resource's destructor, so both an
		// explicit wl_shm_pool.destroy request and a client disconnect
		// release the pool's fd/mapping exactly once.
		cl.Conn.Objects.Destroy(res.ID)
	case proto.ShmPoolRequestResize:
		size, err := dec.Int32()
		if err != nil {
			return badArgs(cl, res.ID)
		}
		if err := h.pool.Resize(size); err != nil {
			PostError(cl, res.ID, proto.ShmErrorInvalidFD, err.Error())
		}
	default:
		return badOpcode(cl, res.ID, op)
	}
	return nil
}

func dispatchBuffer(st *State, cl *Client, res *wire.Resource, op wire.Opcode, dec *wire.Decoder) error {
	buf, ok := res.Data.(*Buffer)
	if !ok {
		return badArgs(cl, res.ID)
	}
	if op == proto.BufferRequestDestroy {
		// buf.Destroy runs as this resource's destructor (registered at
		// creation), so this also covers a client disconnecting with
		// the buffer still outstanding.
		cl.Conn.Objects.Destroy(res.ID)
		return nil
	}
	return badOpcode(cl, res.ID, op)
}

func dispatchSeat(st *State, cl *Client, res *wire.Resource, op wire.Opcode, dec *wire.Decoder) error {
	switch op {
	case proto.SeatRequestGetKeyboard:
		id, err := dec.NewID()
		if err != nil {
			return badArgs(cl, res.ID)
		}
		cl.Conn.Objects.Register(id, "wl_keyboard", 1, nil)
		cl.AddKeyboard(id)
	case proto.SeatRequestGetPointer:
		id, err := dec.NewID()
		if err != nil {
			return badArgs(cl, res.ID)
		}
		cl.Conn.Objects.Register(id, "wl_pointer", 1, nil)
		cl.AddPointer(id)
	case proto.SeatRequestGetTouch:
		if _, err := dec.NewID(); err != nil {
			return badArgs(cl, res.ID)
		}
		// touch is unsupported (spec §6 capabilities omit TOUCH); the
		// new_id is read but no wl_touch resource is registered, so later
		// requests on that id are rejected as unknown objects.
	case proto.SeatRequestRelease:
	default:
		return badOpcode(cl, res.ID, op)
	}
	return nil
}

func dispatchKeyboard(st *State, cl *Client, res *wire.Resource, op wire.Opcode, dec *wire.Decoder) error {
	if op == proto.KeyboardRequestRelease {
		cl.RemoveKeyboard(res.ID)
		cl.Conn.Objects.Destroy(res.ID)
	}
	return nil
}

func dispatchPointer(st *State, cl *Client, res *wire.Resource, op wire.Opcode, dec *wire.Decoder) error {
	switch op {
	case proto.PointerRequestRelease:
		cl.RemovePointer(res.ID)
		cl.Conn.Objects.Destroy(res.ID)
	case proto.PointerRequestSetCursor:
		// cursor surface tracking is out of scope: the compositor never
		// renders a cursor image (spec Non-goals, output §4.5).
	}
	return nil
}

func dispatchXdgWmBase(st *State, cl *Client, res *wire.Resource, op wire.Opcode, dec *wire.Decoder) error {
	switch op {
	case proto.XdgWmBaseRequestGetXdgSurface:
		id, e1 := dec.NewID()
		surfaceID, e2 := dec.Object()
		if e1 != nil || e2 != nil {
			return badArgs(cl, res.ID)
		}
		sres := cl.Conn.Objects.Lookup(surfaceID)
		if sres == nil {
			return badArgs(cl, res.ID)
		}
		surf, ok := sres.Data.(*Surface)
		if !ok {
			return badArgs(cl, res.ID)
		}
		win := st.NewManagedWindow(cl, surf, id)
		cl.Conn.Objects.Register(id, "xdg_surface", 1, win)
	case proto.XdgWmBaseRequestPong:
		if _, err := dec.Uint32(); err != nil {
			return badArgs(cl, res.ID)
		}
	case proto.XdgWmBaseRequestCreatePositioner:
		id, err := dec.NewID()
		if err != nil {
			return badArgs(cl, res.ID)
		}
		cl.Conn.Objects.Register(id, "xdg_positioner", 1, nil)
	case proto.XdgWmBaseRequestDestroy:
		cl.Conn.Objects.Destroy(res.ID)
	default:
		return badOpcode(cl, res.ID, op)
	}
	return nil
}

func dispatchXdgSurface(st *State, cl *Client, res *wire.Resource, op wire.Opcode, dec *wire.Decoder) error {
	win, ok := res.Data.(*Window)
	if !ok {
		return badArgs(cl, res.ID)
	}
	switch op {
	case proto.XdgSurfaceRequestGetToplevel:
		id, err := dec.NewID()
		if err != nil {
			return badArgs(cl, res.ID)
		}
		win.SetToplevel(id)
		cl.Conn.Objects.Register(id, "xdg_toplevel", 1, win)
	case proto.XdgSurfaceRequestSetWindowGeometry:
		x, e1 := dec.Int32()
		y, e2 := dec.Int32()
		w, e3 := dec.Int32()
		h, e4 := dec.Int32()
		if e1 != nil || e2 != nil || e3 != nil || e4 != nil {
			return badArgs(cl, res.ID)
		}
		win.SetWindowGeometry(x, y, w, h)
	case proto.XdgSurfaceRequestAckConfigure:
		serial, err := dec.Uint32()
		if err != nil {
			return badArgs(cl, res.ID)
		}
		win.AckConfigure(serial)
	case proto.XdgSurfaceRequestGetPopup:
		PostError(cl, res.ID, proto.DisplayErrorInvalidMethod, "popups are unsupported")
	case proto.XdgSurfaceRequestDestroy:
		win.Destroy()
		st.RemoveWindow(win)
		cl.Conn.Objects.Destroy(res.ID)
	default:
		return badOpcode(cl, res.ID, op)
	}
	return nil
}

func dispatchXdgToplevel(st *State, cl *Client, res *wire.Resource, op wire.Opcode, dec *wire.Decoder) error {
	win, ok := res.Data.(*Window)
	if !ok {
		return badArgs(cl, res.ID)
	}
	switch op {
	case proto.XdgToplevelRequestSetTitle:
		s, err := dec.String()
		if err != nil {
			return badArgs(cl, res.ID)
		}
		win.SetTitle(s)
	case proto.XdgToplevelRequestSetAppID:
		s, err := dec.String()
		if err != nil {
			return badArgs(cl, res.ID)
		}
		win.SetAppID(s)
	case proto.XdgToplevelRequestSetFullscreen:
		if _, err := dec.Object(); err != nil { // output hint, may be null (object id 0)
			return badArgs(cl, res.ID)
		}
		win.SetFullscreen()
	case proto.XdgToplevelRequestUnsetFullscreen:
		win.UnsetFullscreen()
	case proto.XdgToplevelRequestMove, proto.XdgToplevelRequestResize, proto.XdgToplevelRequestShowWindowMenu,
		proto.XdgToplevelRequestSetParent, proto.XdgToplevelRequestSetMaxSize, proto.XdgToplevelRequestSetMinSize,
		proto.XdgToplevelRequestSetMaximized, proto.XdgToplevelRequestUnsetMaximized, proto.XdgToplevelRequestSetMinimized:
		// accepted and ignored per spec §4.4.
	case proto.XdgToplevelRequestDestroy:
		cl.Conn.Objects.Destroy(res.ID)
	default:
		return badOpcode(cl, res.ID, op)
	}
	return nil
}

func badArgs(cl *Client, objectID wire.ObjectID) error {
	PostError(cl, objectID, proto.DisplayErrorInvalidMethod, "malformed request arguments")
	return nil
}

func badOpcode(cl *Client, objectID wire.ObjectID, op wire.Opcode) error {
	PostError(cl, objectID, proto.DisplayErrorInvalidMethod, fmt.Sprintf("unknown opcode %d", op))
	return nil
}
