package wire

// Resource is a server-side object bound into one client's namespace:
// a wl_surface, a wl_buffer, an xdg_toplevel, and so on. The wire layer
// only knows its id, interface name and version; the compositor package
// hangs real state off Data and registers Destructors to run on teardown.
type Resource struct {
	ID        ObjectID
	Interface string
	Version   uint32

	// Data is the server-side struct this resource represents
	// (*compositor.Surface, *compositor.Buffer, ...). Handlers type
	// assert it back out; the wire layer never looks inside.
	Data any

	// Destructors run in registration order when the resource is
	// destroyed, whether by client request, client disconnect, or
	// server-initiated teardown (post_error). Multiple independent
	// destructors let e.g. a buffer both decrement its pool's ref
	// count and drop itself from any list it was spliced into,
	// without those concerns needing to know about each other.
	Destructors []func()
}

// AddDestructor appends a teardown hook, preserving run order.
func (r *Resource) AddDestructor(fn func()) {
	r.Destructors = append(r.Destructors, fn)
}

func (r *Resource) destroy() {
	for _, fn := range r.Destructors {
		fn()
	}
	r.Destructors = nil
	r.Data = nil
}

// ObjectTable is one client connection's id -> Resource namespace.
type ObjectTable struct {
	objects map[ObjectID]*Resource
}

func NewObjectTable() *ObjectTable {
	return &ObjectTable{objects: make(map[ObjectID]*Resource)}
}

// Register inserts a new resource the client just allocated via new_id.
func (t *ObjectTable) Register(id ObjectID, iface string, version uint32, data any) *Resource {
	r := &Resource{ID: id, Interface: iface, Version: version, Data: data}
	t.objects[id] = r
	return r
}

// Lookup finds a resource by id, or nil if it is unknown (already
// destroyed, or never valid — the caller should post_error).
func (t *ObjectTable) Lookup(id ObjectID) *Resource {
	return t.objects[id]
}

// Destroy runs id's destructors and removes it from the table. Safe to
// call on an id that is already gone.
func (t *ObjectTable) Destroy(id ObjectID) {
	r, ok := t.objects[id]
	if !ok {
		return
	}
	delete(t.objects, id)
	r.destroy()
}

// DestroyAll tears down every remaining object in map iteration order,
// which Go leaves unspecified (neither creation order nor its reverse).
// Used on client disconnect. The destructors the compositor package
// registers (pool unref, buffer destroy) do not depend on that order;
// focus pointers are not cleared here but by the compositor's
// Server.disconnect, which removes the client's windows afterwards.
func (t *ObjectTable) DestroyAll() {
	for id := range t.objects {
		t.Destroy(id)
	}
}

// Len reports the number of live objects, mostly useful for tests.
func (t *ObjectTable) Len() int {
	return len(t.objects)
}
