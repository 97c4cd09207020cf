package compositor

import (
	"golang.org/x/exp/slices"

	"github.com/tonybanters/owl/internal/proto"
)

// Global describes one advertisable interface: its name (a per-display
// stable id used by wl_registry.global/bind), interface string, and the
// highest version this server supports (spec §4.1 "Globals").
type Global struct {
	Name      uint32
	Interface string
	Version   uint32

	// OutputIndex is set for wl_output globals to remember which Output
	// this global binds to; -1 for every other interface.
	OutputIndex int
}

// Registry tracks the fixed set of non-output globals plus one
// per-connected-output wl_output global, and the monotonically
// increasing name counter used to mint new ones (spec §4.1, §4.5
// "Startup" creates one wl_output per connector).
type Registry struct {
	globals  []Global
	nextName uint32
}

func NewRegistry() *Registry {
	r := &Registry{}
	r.add(proto.IfaceCompositor, proto.VersionCompositor, -1)
	r.add(proto.IfaceShm, proto.VersionShm, -1)
	r.add(proto.IfaceSubcompositor, proto.VersionSubcompositor, -1)
	r.add(proto.IfaceDataDeviceManager, proto.VersionDataDeviceManager, -1)
	r.add(proto.IfaceSeat, proto.VersionSeat, -1)
	r.add(proto.IfaceXdgWmBase, proto.VersionXdgWmBase, -1)
	return r
}

func (r *Registry) add(iface string, version uint32, outputIndex int) Global {
	r.nextName++
	g := Global{Name: r.nextName, Interface: iface, Version: version, OutputIndex: outputIndex}
	r.globals = append(r.globals, g)
	return g
}

// AddOutput registers a new wl_output global for a connector discovered
// at startup or hotplug (spec §4.5), returning the minted global name.
func (r *Registry) AddOutput(outputIndex int) Global {
	return r.add(proto.IfaceOutput, proto.VersionOutput, outputIndex)
}

// RemoveOutput drops the wl_output global for a disconnected output
// (spec §4.5 "destroyed on shutdown or hot-unplug").
func (r *Registry) RemoveOutput(outputIndex int) (name uint32, ok bool) {
	i := slices.IndexFunc(r.globals, func(g Global) bool {
		return g.Interface == proto.IfaceOutput && g.OutputIndex == outputIndex
	})
	if i < 0 {
		return 0, false
	}
	name = r.globals[i].Name
	r.globals = slices.Delete(r.globals, i, i+1)
	return name, true
}

func (r *Registry) Globals() []Global { return r.globals }

// ResolveVersion returns min(requested, server max) for a bind request
// (spec §4.1 "Binding a global creates a new resource bound to that
// client, with a version = min(requested, server max)").
func ResolveVersion(serverMax, requested uint32) uint32 {
	if requested < serverMax {
		return requested
	}
	return serverMax
}

// Find looks up a global by its minted name, for wl_registry.bind.
func (r *Registry) Find(name uint32) (Global, bool) {
	for _, g := range r.globals {
		if g.Name == name {
			return g, true
		}
	}
	return Global{}, false
}
