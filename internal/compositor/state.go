package compositor

import (
	"golang.org/x/exp/slices"

	"github.com/tonybanters/owl/internal/wire"
)

// Output is the compositor-facing view of one physical scanout
// destination: the geometry and naming wl_output needs to advertise,
// plus a resource id once a client binds it. The GPU-facing half (GBM
// surface, EGL window surface, scanout buffer objects) lives in
// internal/render and internal/platform and is intentionally not part of
// this package, to keep internal/compositor free of cgo.
type Output struct {
	Name                string
	X, Y                int32
	Width, Height       int32
	RefreshMilliHz      int32
	Make, Model         string
	ResourceIDByClient  map[*Client]wire.ObjectID
}

func NewOutput(name string, x, y, width, height, refreshMilliHz int32) *Output {
	return &Output{
		Name: name, X: x, Y: y, Width: width, Height: height,
		RefreshMilliHz:     refreshMilliHz,
		ResourceIDByClient: make(map[*Client]wire.ObjectID),
	}
}

// State is the server-side singleton tying every other piece together
// (spec §3 "Display"). The public owl.Display wraps a State plus the
// GPU/input platform layers and the Hooks wiring; State itself knows
// nothing about cgo, EGL, or DRM.
type State struct {
	Registry *Registry
	Seat     *Seat
	Serials  *wire.SerialCounter
	Hooks    *Hooks

	Clients  []*Client
	Surfaces []*Surface
	Windows  []*Window
	Outputs  []*Output

	Scheduler FrameScheduler
	Uploader  TextureUploader

	Running bool
}

func NewState(hooks *Hooks) *State {
	serials := &wire.SerialCounter{}
	return &State{
		Registry: NewRegistry(),
		Serials:  serials,
		Seat:     NewSeat(serials, hooks),
		Hooks:    hooks,
		Running:  true,
	}
}

func (s *State) AddClient(cl *Client) { s.Clients = append(s.Clients, cl) }

func (s *State) RemoveClient(cl *Client) {
	if i := slices.Index(s.Clients, cl); i >= 0 {
		s.Clients = slices.Delete(s.Clients, i, i+1)
	}
}

// NewManagedSurface creates a Surface wired to this state's renderer
// hooks and tracks it in the display's surface list (the owning edge
// per spec §9's cycle-breaking rule).
func (s *State) NewManagedSurface(cl *Client, id wire.ObjectID) *Surface {
	surf := NewSurface(cl, s.Uploader, s.Scheduler)
	surf.ResourceID = id
	s.Surfaces = append(s.Surfaces, surf)
	return surf
}

func (s *State) RemoveSurface(surf *Surface) {
	if i := slices.Index(s.Surfaces, surf); i >= 0 {
		s.Surfaces = slices.Delete(s.Surfaces, i, i+1)
	}
}

// NewManagedWindow creates a Window and tracks it in the display's
// window list, clearing seat focus pointers at destruction time is the
// caller's responsibility via RemoveWindow (spec §9 "clear all borrows
// pointing at the victim first").
func (s *State) NewManagedWindow(cl *Client, surf *Surface, xdgSurfaceID wire.ObjectID) *Window {
	w := NewWindow(cl, surf, xdgSurfaceID, s.Serials, s.Hooks)
	s.Windows = append(s.Windows, w)
	return w
}

func (s *State) RemoveWindow(w *Window) {
	if s.Seat.KeyboardFocus == w {
		s.Seat.SetKeyboardFocus(nil)
	}
	if s.Seat.PointerFocus == w {
		s.Seat.SetPointerFocus(nil, 0, 0)
	}
	if i := slices.Index(s.Windows, w); i >= 0 {
		s.Windows = slices.Delete(s.Windows, i, i+1)
	}
}

// RenderList returns mapped, content-bearing windows in oldest-first
// (bottom-of-stack-first) order for the compositor pass (spec §4.5
// step 4).
func (s *State) RenderList() []*Window {
	var out []*Window
	for _, w := range s.Windows {
		if w.Mapped && w.Surface != nil && w.Surface.HasContent {
			out = append(out, w)
		}
	}
	return out
}
