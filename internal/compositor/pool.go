package compositor

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// ShmPool is a client-donated shared-memory region, read-only mapped,
// from which the client carves Buffers. Its lifetime is reference
// counted: the pool resource itself holds one count, and each Buffer
// created from it holds one more (spec §3, §9 "Ref-counted pool").
// Memory is released exactly once, when the count reaches zero.
type ShmPool struct {
	fd       int
	data     []byte
	size     int64
	refCount int
	released bool
}

// NewShmPool mmaps fd read-only for size bytes. The pool resource's own
// reference is counted from creation (refCount starts at 1).
func NewShmPool(fd int, size int32) (*ShmPool, error) {
	if size <= 0 {
		unix.Close(fd)
		return nil, fmt.Errorf("shm: size must be positive, got %d", size)
	}
	data, err := unix.Mmap(fd, 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("shm: mmap: %w", err)
	}
	return &ShmPool{fd: fd, data: data, size: int64(size), refCount: 1}, nil
}

// Resize grows the pool in place via mremap. Shrinking is refused per
// spec §4.2/§8 (the boundary test: new_size < current_size posts
// INVALID_FD and preserves the old mapping).
func (p *ShmPool) Resize(newSize int32) error {
	if int64(newSize) < p.size {
		return fmt.Errorf("shm: refusing to shrink pool from %d to %d", p.size, newSize)
	}
	if int64(newSize) == p.size {
		return nil
	}
	data, err := unix.Mremap(p.data, int(newSize), unix.MREMAP_MAYMOVE)
	if err != nil {
		return fmt.Errorf("shm: mremap: %w", err)
	}
	p.data = data
	p.size = int64(newSize)
	return nil
}

// ref increments the reference count; called when a buffer is created
// from this pool.
func (p *ShmPool) ref() { p.refCount++ }

// unref decrements the reference count, releasing the mapping and fd
// exactly once when it reaches zero. Called both when the pool resource
// itself is destroyed and when each buffer carved from it is destroyed.
func (p *ShmPool) unref() {
	p.refCount--
	if p.refCount > 0 || p.released {
		return
	}
	p.released = true
	unix.Munmap(p.data)
	unix.Close(p.fd)
	p.data = nil
}

// Bytes returns a read-only view of the pool's current mapping, valid
// until the next Resize.
func (p *ShmPool) Bytes() []byte { return p.data }

func (p *ShmPool) Size() int64 { return p.size }
