package compositor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/tonybanters/owl/internal/wire"
)

// newTestConn returns a wire.Conn backed by a connected socketpair, so
// that code paths exercising proto.SendXxx (which write through a real
// fd) don't nil-dereference in tests; the peer end is never read, which
// is fine for the handful of small messages these tests generate.
func newTestConn(t *testing.T) *wire.Conn {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	t.Cleanup(func() { unix.Close(fds[1]) })
	return wire.NewConn(fds[0])
}

func newTestWindow(t *testing.T) (*Window, *wire.SerialCounter, *int) {
	t.Helper()
	serials := &wire.SerialCounter{}
	fired := 0
	hooks := &Hooks{OnWindow: func(ev WindowEvent, w *Window) { fired++ }}
	surf := NewSurface(nil, &fakeUploader{}, &fakeScheduler{})
	w := NewWindow(&Client{Conn: newTestConn(t)}, surf, wire.ObjectID(1), serials, hooks)
	return w, serials, &fired
}

func TestWindowMapFiresCreateExactlyOnce(t *testing.T) {
	w, _, fired := newTestWindow(t)

	w.Map()
	require.True(t, w.Mapped)
	require.Equal(t, 1, *fired)

	w.Map()
	require.Equal(t, 1, *fired, "a second Map() must not re-fire WindowEventCreate")
}

func TestWindowAckConfigureOnlyClearsOnMatchingSerial(t *testing.T) {
	w, _, _ := newTestWindow(t)
	w.PendingConfigure = true
	w.PendingSerial = 5

	w.AckConfigure(4)
	require.True(t, w.PendingConfigure, "a stale serial must not clear pending_configure")

	w.AckConfigure(5)
	require.False(t, w.PendingConfigure)
}

func TestWindowSendConfigureSerialsAreMonotonic(t *testing.T) {
	w, _, _ := newTestWindow(t)

	w.SendConfigure(800, 600)
	first := w.PendingSerial
	require.EqualValues(t, 800, w.Width)
	require.EqualValues(t, 600, w.Height)

	w.SendConfigure(1024, 768)
	second := w.PendingSerial

	require.Greater(t, second, first)
}

func TestWindowSetFocusedIsIdempotentAndFiresOnTransitionOnly(t *testing.T) {
	w, _, fired := newTestWindow(t)

	w.SetFocused(true)
	require.Equal(t, 1, *fired)
	w.SetFocused(true)
	require.Equal(t, 1, *fired, "re-asserting the same focus state must not re-fire")

	w.SetFocused(false)
	require.Equal(t, 2, *fired)
}

func TestWindowDestroyFiresDestroyOnlyWhenMappedAndClearsBackReference(t *testing.T) {
	w, _, fired := newTestWindow(t)
	surf := w.Surface

	w.Destroy()
	require.Equal(t, 0, *fired, "destroying an unmapped window must not fire WindowEventDestroy")
	require.Nil(t, w.Surface)
	require.Nil(t, surf.Window)
}

func TestWindowDestroyFiresDestroyWhenMapped(t *testing.T) {
	w, _, fired := newTestWindow(t)
	w.Map()
	*fired = 0

	w.Destroy()
	require.Equal(t, 1, *fired)
}
