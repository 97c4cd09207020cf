package compositor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tonybanters/owl/internal/wire"
)

func newTestServer(t *testing.T) (*Server, *State) {
	t.Helper()
	st := NewState(&Hooks{})
	st.Uploader = &fakeUploader{}
	st.Scheduler = &fakeScheduler{}
	loop, err := wire.NewEventLoop()
	require.NoError(t, err)
	srv := NewServer(st, nil, loop, zap.NewNop())
	return srv, st
}

func TestServerDisconnectDestroysClientsWindowsAndSurfaces(t *testing.T) {
	srv, st := newTestServer(t)
	conn := newTestConn(t)
	cl := NewClient(conn)
	st.AddClient(cl)

	surf := st.NewManagedSurface(cl, wire.ObjectID(10))
	win := st.NewManagedWindow(cl, surf, wire.ObjectID(11))
	require.Contains(t, st.Windows, win)
	require.Contains(t, st.Surfaces, surf)

	otherSurf := st.NewManagedSurface(&Client{}, wire.ObjectID(20))

	srv.disconnect(conn, cl)

	require.NotContains(t, st.Clients, cl)
	require.NotContains(t, st.Windows, win)
	require.NotContains(t, st.Surfaces, surf)
	require.Contains(t, st.Surfaces, otherSurf, "a surface belonging to a different client must survive")
}
