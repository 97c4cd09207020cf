package compositor

import (
	"fmt"

	"github.com/tonybanters/owl/internal/proto"
	"github.com/tonybanters/owl/internal/wire"
)

// Buffer is a handle to a rectangle of pixel memory inside a ShmPool,
// carved out by wl_shm_pool.create_buffer. Formats are restricted to
// the two this server advertises (spec §6).
type Buffer struct {
	Pool   *ShmPool
	Offset int32
	Width  int32
	Height int32
	Stride int32
	Format uint32

	Busy bool

	// ResourceID is this buffer's wire object id, needed to address the
	// release event back at the owning client.
	ResourceID wire.ObjectID
}

// NewBuffer validates and constructs a Buffer view into pool, per the
// invariants in spec §3/§4.2: offset >= 0, w > 0, h > 0,
// stride >= width*4, offset + stride*height <= pool.size. On success
// the pool's reference count is incremented; the caller is responsible
// for calling pool.ref() exactly once via this constructor (it already
// does so), and for calling Destroy to release it.
func NewBuffer(pool *ShmPool, offset, width, height, stride int32, format uint32) (*Buffer, error) {
	if offset < 0 {
		return nil, fmt.Errorf("shm: negative offset %d", offset)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("shm: non-positive dimensions %dx%d", width, height)
	}
	if stride < width*4 {
		return nil, fmt.Errorf("%w: stride %d < width*4 %d", ErrInvalidStride, stride, width*4)
	}
	if format != proto.ShmFormatARGB8888 && format != proto.ShmFormatXRGB8888 {
		return nil, fmt.Errorf("%w: format %d", ErrInvalidFormat, format)
	}
	end := int64(offset) + int64(stride)*int64(height)
	if end > pool.Size() {
		return nil, fmt.Errorf("shm: buffer [%d,%d) exceeds pool size %d", offset, end, pool.Size())
	}

	pool.ref()
	return &Buffer{Pool: pool, Offset: offset, Width: width, Height: height, Stride: stride, Format: format}, nil
}

// Destroy releases this buffer's hold on its pool. Safe to call once.
func (b *Buffer) Destroy() {
	if b.Pool == nil {
		return
	}
	b.Pool.unref()
	b.Pool = nil
}

// Pixels returns the buffer's backing bytes within its pool's current
// mapping.
func (b *Buffer) Pixels() []byte {
	start := b.Offset
	end := start + b.Stride*b.Height
	return b.Pool.Bytes()[start:end]
}

var (
	ErrInvalidStride = fmt.Errorf("shm: invalid stride")
	ErrInvalidFormat = fmt.Errorf("shm: invalid format")
)
