package proto

import "github.com/tonybanters/owl/internal/wire"

// wl_shm
const (
	ShmRequestCreatePool wire.Opcode = 0

	ShmEventFormat wire.Opcode = 0
)

// wl_shm.format values this server advertises (spec §6: ARGB8888, XRGB8888).
const (
	ShmFormatARGB8888 uint32 = 0
	ShmFormatXRGB8888 uint32 = 1
)

// wl_shm.error codes.
const (
	ShmErrorInvalidFormat uint32 = 0
	ShmErrorInvalidStride uint32 = 1
	ShmErrorInvalidFD     uint32 = 2
)

func SendShmFormat(c *wire.Conn, shm wire.ObjectID, format uint32) error {
	b := wire.NewMessageBuilder()
	b.PutUint32(format)
	return c.Send(b.BuildMessage(shm, ShmEventFormat))
}

// wl_shm_pool
const (
	ShmPoolRequestCreateBuffer wire.Opcode = 0
	ShmPoolRequestDestroy      wire.Opcode = 1
	ShmPoolRequestResize       wire.Opcode = 2
)

// wl_buffer
const (
	BufferRequestDestroy wire.Opcode = 0

	BufferEventRelease wire.Opcode = 0
)

func SendBufferRelease(c *wire.Conn, id wire.ObjectID) error {
	b := wire.NewMessageBuilder()
	return c.Send(b.BuildMessage(id, BufferEventRelease))
}
