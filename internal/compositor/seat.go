package compositor

import (
	"github.com/tonybanters/owl/internal/proto"
	"github.com/tonybanters/owl/internal/wire"
)

// InputState is the payload handed to Hooks.OnInput: enough of the seat's
// current state for the embedding host to answer "what just happened"
// without reaching back into compositor internals (spec §4.8 "register
// typed event callbacks").
type InputState struct {
	Key       uint32
	Keysym    uint32
	Modifiers uint32
	Button    uint32
	X, Y      wire.Fixed
}

// Modifier bit constants (spec §6 "Modifier constants").
const (
	ModShift uint32 = 1
	ModCtrl  uint32 = 2
	ModAlt   uint32 = 4
	ModSuper uint32 = 8
)

// Seat owns the single-seat focus and pointer state (spec §3 "Keyboard
// focus pointer / Pointer focus pointer / pointer coordinates" fields
// of Display). Keyboard and pointer focus are tracked by Window rather
// than Surface since enter/leave is a client-resource-addressed
// operation and a Window borrows its one Surface.
type Seat struct {
	KeyboardFocus *Window
	PointerFocus  *Window

	PointerX, PointerY wire.Fixed
	PressedKeys        []uint32
	lastMods           [4]uint32

	serials *wire.SerialCounter
	hooks   *Hooks
}

func NewSeat(serials *wire.SerialCounter, hooks *Hooks) *Seat {
	return &Seat{serials: serials, hooks: hooks}
}

// SetKeyboardFocus implements the focus-change sequence of spec §4.7:
// leave old (fresh serial) -> set focus -> enter new (with pressed-keys
// array) -> modifiers. Noop if new == old.
func (s *Seat) SetKeyboardFocus(w *Window) {
	if s.KeyboardFocus == w {
		return
	}
	old := s.KeyboardFocus
	if old != nil && old.Surface != nil && old.Client != nil {
		serial := s.serials.Next()
		for _, kbd := range old.Client.Keyboards {
			proto.SendKeyboardLeave(old.Client.Conn, kbd, serial, surfaceID(old))
		}
	}

	s.KeyboardFocus = w

	if w != nil && w.Surface != nil && w.Client != nil {
		serial := s.serials.Next()
		for _, kbd := range w.Client.Keyboards {
			proto.SendKeyboardEnter(w.Client.Conn, kbd, serial, surfaceID(w), s.PressedKeys)
		}
		s.broadcastModifiers(w)
	}

	if old != nil {
		old.SetFocused(false)
	}
	if w != nil {
		w.SetFocused(true)
	}
}

// SetPointerFocus mirrors SetKeyboardFocus for wl_pointer: enter carries
// hotspot coordinates instead of a pressed-keys array, and the trailing
// event is frame instead of modifiers (spec §4.7).
func (s *Seat) SetPointerFocus(w *Window, hotspotX, hotspotY wire.Fixed) {
	if s.PointerFocus == w {
		return
	}
	old := s.PointerFocus
	if old != nil && old.Surface != nil && old.Client != nil {
		serial := s.serials.Next()
		for _, ptr := range old.Client.Pointers {
			proto.SendPointerLeave(old.Client.Conn, ptr, serial, surfaceID(old))
		}
	}

	s.PointerFocus = w

	if w != nil && w.Surface != nil && w.Client != nil {
		serial := s.serials.Next()
		for _, ptr := range w.Client.Pointers {
			proto.SendPointerEnter(w.Client.Conn, ptr, serial, surfaceID(w), hotspotX, hotspotY)
			proto.SendPointerFrame(w.Client.Conn, ptr)
		}
	}
}

// DispatchKey forwards a libinput key event to the focused window's
// keyboard resources and fires the matching InputEvent callback. keysym
// and mods are the XKB keysym and the OWL_MOD_* bitmask already
// translated for this key transition (spec §4.7 testable scenario 3:
// "embedding KEY_PRESS callback sees modifiers=OWL_MOD_SUPER,
// keysym=0xff1b").
func (s *Seat) DispatchKey(key uint32, pressed bool, timeMS uint32, keysym, mods uint32) {
	state := proto.KeyStateReleased
	ev := InputEventKeyRelease
	if pressed {
		state = proto.KeyStatePressed
		ev = InputEventKeyPress
		s.PressedKeys = append(s.PressedKeys, key)
	} else {
		s.PressedKeys = removeU32(s.PressedKeys, key)
	}

	if s.KeyboardFocus != nil && s.KeyboardFocus.Client != nil {
		serial := s.serials.Next()
		for _, kbd := range s.KeyboardFocus.Client.Keyboards {
			proto.SendKeyboardKey(s.KeyboardFocus.Client.Conn, kbd, serial, timeMS, key, state)
		}
	}

	s.hooks.input(ev, &InputState{Key: key, Keysym: keysym, Modifiers: mods})
}

// DispatchModifiers forwards an XKB modifier-state change to the
// keyboard focus via wl_keyboard.modifiers. It fires no InputEvent of
// its own; the translated OWL_MOD_* mask reaches the host through the
// accompanying key event's InputState instead (see DispatchKey).
func (s *Seat) DispatchModifiers(depressed, latched, locked, group uint32) {
	s.lastMods = [4]uint32{depressed, latched, locked, group}
	if s.KeyboardFocus != nil {
		s.broadcastModifiers(s.KeyboardFocus)
	}
}

func (s *Seat) broadcastModifiers(w *Window) {
	if w == nil || w.Client == nil {
		return
	}
	serial := s.serials.Next()
	m := s.lastMods
	for _, kbd := range w.Client.Keyboards {
		proto.SendKeyboardModifiers(w.Client.Conn, kbd, serial, m[0], m[1], m[2], m[3])
	}
}

// DispatchMotion forwards a pointer-motion event to the pointer focus
// and fires InputEventPointerMotion.
func (s *Seat) DispatchMotion(x, y wire.Fixed, timeMS uint32) {
	s.PointerX, s.PointerY = x, y
	if s.PointerFocus != nil && s.PointerFocus.Client != nil {
		for _, ptr := range s.PointerFocus.Client.Pointers {
			proto.SendPointerMotion(s.PointerFocus.Client.Conn, ptr, timeMS, x, y)
			proto.SendPointerFrame(s.PointerFocus.Client.Conn, ptr)
		}
	}
	s.hooks.input(InputEventPointerMotion, &InputState{X: x, Y: y})
}

// DispatchButton forwards a pointer button event to the pointer focus
// and fires the matching InputEvent callback.
func (s *Seat) DispatchButton(button uint32, pressed bool, timeMS uint32) {
	state := proto.PointerButtonStateReleased
	ev := InputEventButtonRelease
	if pressed {
		state = proto.PointerButtonStatePressed
		ev = InputEventButtonPress
	}

	if s.PointerFocus != nil && s.PointerFocus.Client != nil {
		serial := s.serials.Next()
		for _, ptr := range s.PointerFocus.Client.Pointers {
			proto.SendPointerButton(s.PointerFocus.Client.Conn, ptr, serial, timeMS, button, state)
			proto.SendPointerFrame(s.PointerFocus.Client.Conn, ptr)
		}
	}

	s.hooks.input(ev, &InputState{Button: button})
}

func surfaceID(w *Window) wire.ObjectID {
	if w.Surface == nil {
		return 0
	}
	return w.Surface.ResourceID
}

func removeU32(keys []uint32, target uint32) []uint32 {
	out := keys[:0]
	for _, k := range keys {
		if k != target {
			out = append(out, k)
		}
	}
	return out
}
