package compositor

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/tonybanters/owl/internal/proto"
	"github.com/tonybanters/owl/internal/wire"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cl := NewClient(newTestConn(t))
	cl.Conn.Objects.Register(wire.DisplayID, "wl_display", 1, nil)
	return cl
}

func decoderFor(t *testing.T, build func(*wire.MessageBuilder)) *wire.Decoder {
	t.Helper()
	b := wire.NewMessageBuilder()
	build(b)
	msg := b.BuildMessage(0, 0)
	return wire.NewDecoder(msg.Args)
}

func TestDispatchDisplaySyncSendsCallbackDoneAndDeleteID(t *testing.T) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	require.NoError(t, err)
	t.Cleanup(func() { unix.Close(fds[1]) })
	st := NewState(&Hooks{})
	cl := NewClient(wire.NewConn(fds[0]))
	cl.Conn.Objects.Register(wire.DisplayID, "wl_display", 1, nil)
	res := cl.Conn.Objects.Lookup(wire.DisplayID)

	dec := decoderFor(t, func(b *wire.MessageBuilder) { b.PutObject(100) })
	err = dispatchDisplay(st, cl, res, proto.DisplayRequestSync, dec)

	require.NoError(t, err)
	require.False(t, cl.Errored())

	// Each event is an 8-byte header plus one uint32 argument.
	buf := make([]byte, 12)
	_, err = unix.Read(fds[1], buf)
	require.NoError(t, err)
	sender, op, _, err := wire.DecodeHeader(buf)
	require.NoError(t, err)
	require.Equal(t, wire.ObjectID(100), sender)
	require.Equal(t, proto.CallbackEventDone, op)

	_, err = unix.Read(fds[1], buf)
	require.NoError(t, err)
	sender, op, _, err = wire.DecodeHeader(buf)
	require.NoError(t, err)
	require.Equal(t, wire.DisplayID, sender)
	require.Equal(t, proto.DisplayEventDeleteID, op)
}

func TestDispatchDisplayUnknownOpcodePostsError(t *testing.T) {
	st := NewState(&Hooks{})
	cl := newTestClient(t)
	res := cl.Conn.Objects.Lookup(wire.DisplayID)

	dec := decoderFor(t, func(b *wire.MessageBuilder) {})
	err := dispatchDisplay(st, cl, res, wire.Opcode(99), dec)

	require.NoError(t, err)
	require.True(t, cl.Errored(), "an unknown wl_display opcode must post_error rather than return a Go error")
}

func TestDispatchCompositorCreateSurfaceRegistersSurfaceResource(t *testing.T) {
	st := NewState(&Hooks{})
	st.Uploader = &fakeUploader{}
	st.Scheduler = &fakeScheduler{}
	cl := newTestClient(t)
	res := &wire.Resource{ID: 50, Interface: proto.IfaceCompositor}

	dec := decoderFor(t, func(b *wire.MessageBuilder) { b.PutObject(200) })
	err := dispatchCompositor(st, cl, res, proto.CompositorRequestCreateSurface, dec)
	require.NoError(t, err)

	surfRes := cl.Conn.Objects.Lookup(wire.ObjectID(200))
	require.NotNil(t, surfRes)
	require.Equal(t, "wl_surface", surfRes.Interface)
	_, ok := surfRes.Data.(*Surface)
	require.True(t, ok)
}

func TestDispatchRegionDestroyRemovesResource(t *testing.T) {
	st := NewState(&Hooks{})
	cl := newTestClient(t)
	region := cl.Conn.Objects.Register(wire.ObjectID(300), "wl_region", 1, &struct{}{})

	dec := decoderFor(t, func(b *wire.MessageBuilder) {})
	err := dispatchRegion(st, cl, region, proto.RegionRequestDestroy, dec)
	require.NoError(t, err)

	require.Nil(t, cl.Conn.Objects.Lookup(wire.ObjectID(300)))
}
