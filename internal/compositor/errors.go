package compositor

import (
	"github.com/tonybanters/owl/internal/proto"
	"github.com/tonybanters/owl/internal/wire"
)

// ErrorKind classifies a failure the way spec §7 does, kept small
// deliberately: callers branch on kind, not on individual error values.
type ErrorKind int

const (
	KindProtocolError ErrorKind = iota
	KindOOMPerResource
	KindTransientHW
)

func (k ErrorKind) String() string {
	switch k {
	case KindProtocolError:
		return "protocol-error"
	case KindOOMPerResource:
		return "oom-per-resource"
	case KindTransientHW:
		return "transient-hw"
	default:
		return "unknown"
	}
}

// PostError sends a protocol error event to the client and marks the
// connection for disconnection. The caller's dispatch loop must stop
// processing further requests from this client once PostError has run;
// Client.Errored reports that state.
func PostError(cl *Client, objectID wire.ObjectID, code uint32, message string) {
	proto.SendDisplayError(cl.Conn, objectID, code, message)
	cl.errored = true
}

// PostNoMemory posts the well-known no_memory error (spec §4.1: "Out-of-
// memory on resource creation posts no_memory to the client and does not
// leak partial state").
func PostNoMemory(cl *Client) {
	PostError(cl, wire.DisplayID, proto.DisplayErrorNoMemory, "out of memory")
}
