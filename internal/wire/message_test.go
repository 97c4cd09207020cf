package wire

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderDecoderRoundTrip(t *testing.T) {
	b := NewMessageBuilder()
	b.PutInt32(-7).PutUint32(42).PutObject(1234).PutString("hello").PutUint32Array([]uint32{1, 2, 3})
	msg := b.BuildMessage(99, 3)

	data, err := EncodeMessage(msg)
	require.NoError(t, err)

	sender, op, size, err := DecodeHeader(data)
	require.NoError(t, err)
	require.Equal(t, ObjectID(99), sender)
	require.Equal(t, Opcode(3), op)
	require.Equal(t, len(data), size)

	decoded, err := DecodeMessage(data)
	require.NoError(t, err)

	d := NewDecoder(decoded.Args)
	i, err := d.Int32()
	require.NoError(t, err)
	require.EqualValues(t, -7, i)

	u, err := d.Uint32()
	require.NoError(t, err)
	require.EqualValues(t, 42, u)

	obj, err := d.Object()
	require.NoError(t, err)
	require.Equal(t, ObjectID(1234), obj)

	s, err := d.String()
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	arr, err := d.Array()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0}, arr)
}

func TestSerialCounterMonotonic(t *testing.T) {
	var c SerialCounter
	a := c.Next()
	b := c.Next()
	require.Less(t, a, b)
}

func TestObjectTableDestroyRunsDestructors(t *testing.T) {
	tbl := NewObjectTable()
	var ran bool
	r := tbl.Register(5, "wl_surface", 1, struct{}{})
	r.AddDestructor(func() { ran = true })

	tbl.Destroy(5)
	require.True(t, ran)
	require.Nil(t, tbl.Lookup(5))
}

func TestFixedConversion(t *testing.T) {
	f := FixedFromFloat(3.5)
	require.InDelta(t, 3.5, f.Float64(), 0.01)
}
