package platform

// #cgo pkg-config: egl glesv2
// #include <EGL/egl.h>
// #include <GLES2/gl2.h>
import "C"

import (
	"fmt"
	"unsafe"
)

// Context wraps one EGL display/config/context triple, created once
// per Display over the GBM device's native display handle (spec §3
// Display fields "EGL display/context/config"). Adapted from the
// gio app/internal/egl Context, trading its multi-platform Driver
// interface for a single GBM-native-display path since this server
// only ever targets DRM/KMS.
type Context struct {
	disp   C.EGLDisplay
	config C.EGLConfig
	ctx    C.EGLContext
}

var configAttribs = []C.EGLint{
	C.EGL_SURFACE_TYPE, C.EGL_WINDOW_BIT,
	C.EGL_RENDERABLE_TYPE, C.EGL_OPENGL_ES2_BIT,
	C.EGL_RED_SIZE, 8,
	C.EGL_GREEN_SIZE, 8,
	C.EGL_BLUE_SIZE, 8,
	C.EGL_ALPHA_SIZE, 0,
	C.EGL_NONE,
}

var contextAttribs = []C.EGLint{
	C.EGL_CONTEXT_CLIENT_VERSION, 2,
	C.EGL_NONE,
}

// NewContext initializes EGL over nativeDisplay (a gbm_device*),
// chooses a config matching configAttribs, and creates a GLES2
// context.
func NewContext(nativeDisplay unsafe.Pointer) (*Context, error) {
	disp := C.eglGetDisplay(C.EGLNativeDisplayType(nativeDisplay))
	if disp == C.EGLDisplay(C.EGL_NO_DISPLAY) {
		return nil, fmt.Errorf("platform: eglGetDisplay failed")
	}
	var major, minor C.EGLint
	if C.eglInitialize(disp, &major, &minor) == C.EGL_FALSE {
		return nil, fmt.Errorf("platform: eglInitialize failed")
	}

	var cfg C.EGLConfig
	var numConfigs C.EGLint
	if C.eglChooseConfig(disp, &configAttribs[0], &cfg, 1, &numConfigs) == C.EGL_FALSE || numConfigs == 0 {
		return nil, fmt.Errorf("platform: eglChooseConfig failed")
	}

	if C.eglBindAPI(C.EGL_OPENGL_ES_API) == C.EGL_FALSE {
		return nil, fmt.Errorf("platform: eglBindAPI failed")
	}
	ctx := C.eglCreateContext(disp, cfg, C.EGLContext(C.EGL_NO_CONTEXT), &contextAttribs[0])
	if ctx == C.EGLContext(C.EGL_NO_CONTEXT) {
		return nil, fmt.Errorf("platform: eglCreateContext failed")
	}
	return &Context{disp: disp, config: cfg, ctx: ctx}, nil
}

// WindowSurface is a per-output EGL surface bound to a GBM surface's
// native window handle (spec §3 Output field "EGL window surface").
type WindowSurface struct {
	disp C.EGLDisplay
	surf C.EGLSurface
}

func (c *Context) NewWindowSurface(nativeWindow unsafe.Pointer) (*WindowSurface, error) {
	surf := C.eglCreateWindowSurface(c.disp, c.config, C.EGLNativeWindowType(nativeWindow), nil)
	if surf == C.EGLSurface(C.EGL_NO_SURFACE) {
		return nil, fmt.Errorf("platform: eglCreateWindowSurface failed")
	}
	return &WindowSurface{disp: c.disp, surf: surf}, nil
}

// MakeCurrent binds this context and target surface to the calling
// thread, required before any GLES2 call touching it.
func (c *Context) MakeCurrent(w *WindowSurface) error {
	if C.eglMakeCurrent(c.disp, w.surf, w.surf, c.ctx) == C.EGL_FALSE {
		return fmt.Errorf("platform: eglMakeCurrent failed")
	}
	return nil
}

// SwapBuffers presents the surface's back buffer; under GBM this
// triggers the lock_front_buffer hand-off the output loop then pages to
// the CRTC via DRM (spec §4.5).
func (w *WindowSurface) SwapBuffers() error {
	if C.eglSwapBuffers(w.disp, w.surf) == C.EGL_FALSE {
		return fmt.Errorf("platform: eglSwapBuffers failed")
	}
	return nil
}

func (w *WindowSurface) Destroy() {
	C.eglDestroySurface(w.disp, w.surf)
}

func (c *Context) Destroy() {
	if c.disp == C.EGLDisplay(C.EGL_NO_DISPLAY) {
		panic("double close of platform.Context")
	}
	C.eglDestroyContext(c.disp, c.ctx)
	C.eglTerminate(c.disp)
	c.disp = C.EGLDisplay(C.EGL_NO_DISPLAY)
}
