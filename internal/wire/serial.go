package wire

// SerialCounter hands out the monotonically increasing 32-bit serials the
// protocol uses whenever the server sends an event a client must echo
// back (focus enter, configure). Wrapping at 2^32 is acceptable: no
// client session runs long enough to exhaust it, and comparisons in this
// codebase only ever check equality against a stored serial, never
// ordering across the wraparound.
type SerialCounter struct {
	next uint32
}

// Next returns the next serial, starting at 1 so that 0 can mean
// "no serial yet" in callers that zero-initialize their state.
func (c *SerialCounter) Next() uint32 {
	c.next++
	return c.next
}
