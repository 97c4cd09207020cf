package compositor

import (
	"github.com/tonybanters/owl/internal/proto"
	"github.com/tonybanters/owl/internal/wire"
)

// Window is a top-level shell surface (spec §3 "Window", §4.4). Its
// pointer to Surface is a borrow: Display's surface list owns the
// Surface, Display's window list owns the Window, and the two
// back-references never imply ownership in either direction.
type Window struct {
	Client  *Client
	Surface *Surface

	XdgSurfaceID  wire.ObjectID
	ToplevelID    wire.ObjectID

	X, Y          int32
	Width, Height int32
	Title, AppID  string

	Fullscreen bool
	Focused    bool
	Mapped     bool

	PendingSerial    uint32
	PendingConfigure bool

	serials *wire.SerialCounter
	hooks   *Hooks
}

// NewWindow allocates a Window bound to surf, in size (0,0), unmapped
// (spec §4.4 "get_xdg_surface"). The caller inserts it into the
// display's window list and links surf.Window to it.
func NewWindow(cl *Client, surf *Surface, xdgSurfaceID wire.ObjectID, serials *wire.SerialCounter, hooks *Hooks) *Window {
	w := &Window{
		Client:       cl,
		Surface:      surf,
		XdgSurfaceID: xdgSurfaceID,
		serials:      serials,
		hooks:        hooks,
	}
	surf.Window = w
	return w
}

// SetToplevel wires the xdg_toplevel resource id once get_toplevel is
// requested.
func (w *Window) SetToplevel(id wire.ObjectID) { w.ToplevelID = id }

// SetWindowGeometry adopts (width,height) as the window's size (spec
// §4.4 "set_window_geometry"). x,y are accepted but ignored; the
// compositor places windows itself (spec §4.6/§4.8 move/resize are host
// driven, not client driven).
func (w *Window) SetWindowGeometry(x, y, width, height int32) {
	w.Width, w.Height = width, height
}

// SetTitle and SetAppID implement xdg_toplevel.set_title/set_app_id.
func (w *Window) SetTitle(title string) {
	if title == w.Title {
		return
	}
	w.Title = title
	w.hooks.window(WindowEventTitleChange, w)
}

func (w *Window) SetAppID(appID string) { w.AppID = appID }

// SetFullscreen and UnsetFullscreen implement xdg_toplevel's requests of
// the same name, firing WINDOW_EVENT_FULLSCREEN on the transition into
// fullscreen per spec §4.4.
func (w *Window) SetFullscreen() {
	if w.Fullscreen {
		return
	}
	w.Fullscreen = true
	w.hooks.window(WindowEventFullscreen, w)
}

func (w *Window) UnsetFullscreen() { w.Fullscreen = false }

// AckConfigure implements xdg_surface.ack_configure: it clears
// pending_configure only if serial matches the last one sent (spec
// §4.4).
func (w *Window) AckConfigure(serial uint32) {
	if w.PendingConfigure && serial == w.PendingSerial {
		w.PendingConfigure = false
	}
}

// Map transitions the window to mapped state on its first
// commit-with-buffer (spec §4.3 step 5, §4.4 "mapping"), firing exactly
// one WINDOW_CREATE callback.
func (w *Window) Map() {
	if w.Mapped {
		return
	}
	w.Mapped = true
	w.hooks.window(WindowEventCreate, w)
}

// Close implements the host-driven close mutator: emits
// xdg_toplevel.close, leaving the decision to destroy up to the client.
func (w *Window) Close() {
	if w.ToplevelID == 0 || w.Client == nil {
		return
	}
	proto.SendXdgToplevelClose(w.Client.Conn, w.ToplevelID)
}

// SendConfigure implements the server -> client configure protocol
// (spec §4.4 "configure protocol"):
//  1. update window.width/height
//  2. emit xdg_toplevel.configure(w, h, states[])
//  3. emit xdg_surface.configure(serial) with a fresh serial
func (w *Window) SendConfigure(width, height int32) {
	w.Width, w.Height = width, height

	if w.ToplevelID != 0 && w.Client != nil {
		var states []uint32
		if w.Focused {
			states = append(states, proto.XdgToplevelStateActivated)
		}
		if w.Fullscreen {
			states = append(states, proto.XdgToplevelStateFullscreen)
		}
		proto.SendXdgToplevelConfigure(w.Client.Conn, w.ToplevelID, width, height, states)
	}

	if w.XdgSurfaceID != 0 && w.Client != nil {
		serial := w.serials.Next()
		w.PendingSerial = serial
		w.PendingConfigure = true
		proto.SendXdgSurfaceConfigure(w.Client.Conn, w.XdgSurfaceID, serial)
	}
}

// Destroy tears a window down when its xdg_surface resource is
// destroyed (spec §4.4 "closing"): fires WINDOW_DESTROY if it was
// mapped, then clears the borrow back to its surface so the surface
// doesn't outlive it with a dangling pointer.
func (w *Window) Destroy() {
	if w.Mapped {
		w.hooks.window(WindowEventDestroy, w)
	}
	if w.Surface != nil {
		w.Surface.Window = nil
		w.Surface = nil
	}
}

// Focus/Unfocus are driven by the seat focus-change sequence (spec
// §4.7) and by the embedding API's focus mutator (spec §4.8).
func (w *Window) SetFocused(focused bool) {
	if w.Focused == focused {
		return
	}
	w.Focused = focused
	if focused {
		w.hooks.window(WindowEventFocus, w)
	} else {
		w.hooks.window(WindowEventUnfocus, w)
	}
}

// Move and Resize are host-driven placement mutators (spec §4.8): the
// embedding host positions windows; the compositor never does so on its
// own initiative.
func (w *Window) Move(x, y int32) {
	if w.X == x && w.Y == y {
		return
	}
	w.X, w.Y = x, y
	w.hooks.window(WindowEventMove, w)
}

func (w *Window) Resize(width, height int32) {
	w.SendConfigure(width, height)
	w.hooks.window(WindowEventResize, w)
}
