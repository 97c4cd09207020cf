package platform

// #cgo pkg-config: gbm
// #include <gbm.h>
import "C"

import (
	"fmt"
	"unsafe"
)

const (
	GBMFormatXRGB8888 = 0x34325258 // fourcc 'XR24'
)

const (
	gbmUseScanout   = 1 << 0
	gbmUseRendering = 1 << 2
)

// Device wraps a gbm_device created over a DRM card fd, the allocator
// that produces buffer objects the GPU can render into and KMS can
// scan out of directly (spec §3 Display field "GBM device").
type Device struct {
	hnd *C.struct_gbm_device
}

func NewDevice(cardFd int) (*Device, error) {
	hnd := C.gbm_create_device(C.int(cardFd))
	if hnd == nil {
		return nil, fmt.Errorf("platform: gbm_create_device failed")
	}
	return &Device{hnd: hnd}, nil
}

// NativeDisplay exposes the gbm_device as the EGL_PLATFORM_GBM_KHR
// native display handle EGL needs.
func (d *Device) NativeDisplay() unsafe.Pointer { return unsafe.Pointer(d.hnd) }

func (d *Device) Destroy() {
	if d.hnd == nil {
		panic("double close of platform.Device")
	}
	C.gbm_device_destroy(d.hnd)
	d.hnd = nil
}

// Surface is a GBM swapchain surface for one output (spec §3 Output
// field "GBM surface (swapchain)"), created with scanout+rendering
// usage per spec §4.5 "Startup".
type Surface struct {
	hnd *C.struct_gbm_surface
}

func (d *Device) NewSurface(width, height int32) (*Surface, error) {
	hnd := C.gbm_surface_create(d.hnd, C.uint32_t(width), C.uint32_t(height),
		C.uint32_t(GBMFormatXRGB8888), C.uint32_t(gbmUseScanout|gbmUseRendering))
	if hnd == nil {
		return nil, fmt.Errorf("platform: gbm_surface_create failed")
	}
	return &Surface{hnd: hnd}, nil
}

func (s *Surface) NativeWindow() unsafe.Pointer { return unsafe.Pointer(s.hnd) }

// BufferObject is one scanout-ready frame produced by the EGL driver
// into this GBM surface (spec §3 Output fields "current and next
// scanout buffer objects").
type BufferObject struct {
	hnd *C.struct_gbm_bo
	surf *C.struct_gbm_surface
}

// LockFrontBuffer claims the buffer object EGL just finished rendering
// into, ready to hand to DRM for scanout.
func (s *Surface) LockFrontBuffer() (*BufferObject, error) {
	bo := C.gbm_surface_lock_front_buffer(s.hnd)
	if bo == nil {
		return nil, fmt.Errorf("platform: gbm_surface_lock_front_buffer failed")
	}
	return &BufferObject{hnd: bo, surf: s.hnd}, nil
}

// Release returns a buffer object to the swapchain once its scanout
// has been superseded by the next page flip.
func (b *BufferObject) Release() {
	C.gbm_surface_release_buffer(b.surf, b.hnd)
}

func (b *BufferObject) Handle() uint32 {
	return uint32(C.gbm_bo_get_handle(b.hnd).u32)
}

func (b *BufferObject) Stride() uint32 {
	return uint32(C.gbm_bo_get_stride(b.hnd))
}

func (b *BufferObject) Width() uint32  { return uint32(C.gbm_bo_get_width(b.hnd)) }
func (b *BufferObject) Height() uint32 { return uint32(C.gbm_bo_get_height(b.hnd)) }

func (s *Surface) Destroy() {
	C.gbm_surface_destroy(s.hnd)
}
