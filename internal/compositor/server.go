package compositor

import (
	"go.uber.org/zap"

	"github.com/tonybanters/owl/internal/wire"
)

// Server binds the wire-protocol listener and event loop to a State,
// accepting connections and feeding each one's readable events through
// Dispatch (spec §4.1 "Connection lifecycle").
type Server struct {
	State    *State
	Listener *wire.Listener
	Loop     *wire.EventLoop
	Log      *zap.Logger

	conns map[*wire.Conn]*Client
}

func NewServer(state *State, listener *wire.Listener, loop *wire.EventLoop, log *zap.Logger) *Server {
	return &Server{State: state, Listener: listener, Loop: loop, Log: log, conns: make(map[*wire.Conn]*Client)}
}

// Start registers the listener's fd with the event loop; each
// acceptable connection gets its own fd registration in turn.
func (srv *Server) Start() error {
	srv.Loop.AddFD(srv.Listener.Fd(), func(events uint32) { srv.acceptOne() })
	return nil
}

func (srv *Server) acceptOne() {
	conn, err := srv.Listener.Accept()
	if err != nil {
		srv.Log.Warn("accept failed", zap.Error(err))
		return
	}
	if conn == nil {
		return
	}
	conn.Objects.Register(wire.DisplayID, "wl_display", 1, nil)
	cl := NewClient(conn)
	srv.conns[conn] = cl
	srv.State.AddClient(cl)

	srv.Loop.AddFD(conn.Fd(), func(events uint32) { srv.readOne(conn, cl) })
}

func (srv *Server) readOne(conn *wire.Conn, cl *Client) {
	msgs, err := conn.Recv()
	if err != nil {
		srv.disconnect(conn, cl)
		return
	}
	for _, msg := range msgs {
		if err := Dispatch(srv.State, cl, msg); err != nil {
			srv.Log.Error("dispatch error", zap.Error(err))
			srv.disconnect(conn, cl)
			return
		}
		if cl.Errored() {
			srv.disconnect(conn, cl)
			return
		}
	}
}

func (srv *Server) disconnect(conn *wire.Conn, cl *Client) {
	srv.Loop.RemoveFD(conn.Fd())
	conn.Objects.DestroyAll()
	conn.Close()
	delete(srv.conns, conn)
	srv.State.RemoveClient(cl)

	for _, win := range append([]*Window(nil), srv.State.Windows...) {
		if win.Client == cl {
			win.Destroy()
			srv.State.RemoveWindow(win)
		}
	}
	for _, surf := range append([]*Surface(nil), srv.State.Surfaces...) {
		if surf.Client == cl {
			srv.State.RemoveSurface(surf)
		}
	}
}

func (srv *Server) Close() {
	for conn := range srv.conns {
		conn.Close()
	}
	srv.Listener.Close()
}
