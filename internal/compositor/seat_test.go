package compositor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tonybanters/owl/internal/wire"
)

func newTestSeatWindow(t *testing.T) *Window {
	t.Helper()
	surf := NewSurface(nil, &fakeUploader{}, &fakeScheduler{})
	surf.ResourceID = wire.ObjectID(42)
	cl := &Client{Conn: newTestConn(t)}
	w := NewWindow(cl, surf, wire.ObjectID(1), &wire.SerialCounter{}, &Hooks{})
	return w
}

func TestSeatSetKeyboardFocusIsNoopWhenUnchanged(t *testing.T) {
	serials := &wire.SerialCounter{}
	s := NewSeat(serials, &Hooks{})
	w := newTestSeatWindow(t)

	s.SetKeyboardFocus(w)
	require.True(t, w.Focused)
	used := serials.Next()

	s.SetKeyboardFocus(w)
	require.Equal(t, used+1, serials.Next(), "a repeated SetKeyboardFocus(same window) must not consume a serial")
}

func TestSeatSetKeyboardFocusTransfersFocusFlags(t *testing.T) {
	s := NewSeat(&wire.SerialCounter{}, &Hooks{})
	w1 := newTestSeatWindow(t)
	w2 := newTestSeatWindow(t)

	s.SetKeyboardFocus(w1)
	require.True(t, w1.Focused)
	require.Equal(t, w1, s.KeyboardFocus)

	s.SetKeyboardFocus(w2)
	require.False(t, w1.Focused, "old focus holder must be unfocused")
	require.True(t, w2.Focused)
	require.Equal(t, w2, s.KeyboardFocus)

	s.SetKeyboardFocus(nil)
	require.False(t, w2.Focused)
	require.Nil(t, s.KeyboardFocus)
}

func TestSeatSetPointerFocusIsNoopWhenUnchanged(t *testing.T) {
	s := NewSeat(&wire.SerialCounter{}, &Hooks{})
	w := newTestSeatWindow(t)

	s.SetPointerFocus(w, 0, 0)
	require.Equal(t, w, s.PointerFocus)

	s.SetPointerFocus(w, 0, 0)
	require.Equal(t, w, s.PointerFocus)
}

func TestSeatDispatchKeyTracksPressedKeys(t *testing.T) {
	s := NewSeat(&wire.SerialCounter{}, &Hooks{})

	s.DispatchKey(30, true, 1000, 0, 0)
	require.Contains(t, s.PressedKeys, uint32(30))

	s.DispatchKey(30, false, 1001, 0, 0)
	require.NotContains(t, s.PressedKeys, uint32(30))
}

func TestSeatDispatchKeyFiresInputHook(t *testing.T) {
	var gotEv InputEvent
	var gotKey, gotKeysym, gotMods uint32
	hooks := &Hooks{OnInput: func(ev InputEvent, in *InputState) {
		gotEv, gotKey, gotKeysym, gotMods = ev, in.Key, in.Keysym, in.Modifiers
	}}
	s := NewSeat(&wire.SerialCounter{}, hooks)

	s.DispatchKey(42, true, 0, 0xff1b, ModSuper)
	require.Equal(t, InputEventKeyPress, gotEv)
	require.EqualValues(t, 42, gotKey)
	require.EqualValues(t, 0xff1b, gotKeysym)
	require.EqualValues(t, ModSuper, gotMods)

	s.DispatchKey(42, false, 0, 0, 0)
	require.Equal(t, InputEventKeyRelease, gotEv)
}

func TestSeatDispatchMotionUpdatesCoordinates(t *testing.T) {
	s := NewSeat(&wire.SerialCounter{}, &Hooks{})

	s.DispatchMotion(wire.Fixed(100), wire.Fixed(200), 0)
	require.EqualValues(t, 100, s.PointerX)
	require.EqualValues(t, 200, s.PointerY)
}

func TestRemoveU32DropsOnlyTargetValue(t *testing.T) {
	got := removeU32([]uint32{1, 2, 3, 2}, 2)
	require.Equal(t, []uint32{1, 3}, got)
}
