package compositor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tonybanters/owl/internal/wire"
)

func TestNewStateWiresSerialsBetweenStateAndSeat(t *testing.T) {
	st := NewState(&Hooks{})
	require.True(t, st.Running)
	require.NotNil(t, st.Registry)
	require.NotNil(t, st.Seat)
	require.Same(t, st.Serials, st.Seat.serials)
}

func TestStateAddRemoveClient(t *testing.T) {
	st := NewState(&Hooks{})
	cl := &Client{}

	st.AddClient(cl)
	require.Contains(t, st.Clients, cl)

	st.RemoveClient(cl)
	require.NotContains(t, st.Clients, cl)
}

func TestStateNewManagedSurfaceTracksAndAssignsResourceID(t *testing.T) {
	st := NewState(&Hooks{})
	st.Uploader = &fakeUploader{}
	st.Scheduler = &fakeScheduler{}
	cl := &Client{}

	surf := st.NewManagedSurface(cl, wire.ObjectID(5))
	require.Contains(t, st.Surfaces, surf)
	require.EqualValues(t, 5, surf.ResourceID)

	st.RemoveSurface(surf)
	require.NotContains(t, st.Surfaces, surf)
}

func TestStateRemoveWindowClearsSeatFocusFirst(t *testing.T) {
	st := NewState(&Hooks{})
	st.Uploader = &fakeUploader{}
	st.Scheduler = &fakeScheduler{}
	cl := &Client{Conn: newTestConn(t)}

	surf := st.NewManagedSurface(cl, wire.ObjectID(1))
	win := st.NewManagedWindow(cl, surf, wire.ObjectID(2))

	st.Seat.SetKeyboardFocus(win)
	st.Seat.SetPointerFocus(win, 0, 0)
	require.Equal(t, win, st.Seat.KeyboardFocus)
	require.Equal(t, win, st.Seat.PointerFocus)

	st.RemoveWindow(win)

	require.Nil(t, st.Seat.KeyboardFocus, "removing the focused window must clear the dangling seat reference")
	require.Nil(t, st.Seat.PointerFocus)
	require.NotContains(t, st.Windows, win)
}

func TestStateRenderListOnlyIncludesMappedWindowsWithContent(t *testing.T) {
	st := NewState(&Hooks{})
	st.Uploader = &fakeUploader{}
	st.Scheduler = &fakeScheduler{}
	cl := &Client{}

	surfMapped := st.NewManagedSurface(cl, wire.ObjectID(1))
	winMapped := st.NewManagedWindow(cl, surfMapped, wire.ObjectID(2))
	surfMapped.HasContent = true
	winMapped.Mapped = true

	surfUnmapped := st.NewManagedSurface(cl, wire.ObjectID(3))
	st.NewManagedWindow(cl, surfUnmapped, wire.ObjectID(4))

	list := st.RenderList()
	require.Equal(t, []*Window{winMapped}, list)
}
