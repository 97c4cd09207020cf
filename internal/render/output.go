package render

// #cgo pkg-config: libdrm
// #include <xf86drmMode.h>
import "C"

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tonybanters/owl/internal/compositor"
	"github.com/tonybanters/owl/internal/platform"
)

// addFramebuffer registers a GBM buffer object as a DRM framebuffer,
// the same per-bo caching get_framebuffer_for_bo in the original
// render path performs via gbm_bo_set_user_data (here the cache lives
// in Output.fbIDs instead of bo-attached user data, since Go owns the
// lifetime of that map rather than the C allocator).
func addFramebuffer(card *platform.Card, bo *platform.BufferObject) (uint32, error) {
	var fbID C.uint32_t
	r := C.drmModeAddFB(C.int(card.Fd()), C.uint32_t(bo.Width()), C.uint32_t(bo.Height()),
		24, 32, C.uint32_t(bo.Stride()), C.uint32_t(bo.Handle()), &fbID)
	if r != 0 {
		return 0, fmt.Errorf("platform: drmModeAddFB failed (%d)", r)
	}
	return uint32(fbID), nil
}

// Output binds one compositor.Output's geometry to the GBM/EGL/DRM
// handles that actually drive it, plus the page-flip bookkeeping spec
// §3 assigns to Output: "current and next scanout buffer objects,
// page-flip-pending flag".
type Output struct {
	Core *compositor.Output

	card       *platform.Card
	gbmSurface *platform.Surface
	eglSurface *platform.WindowSurface
	crtcID     uint32
	connectorID uint32
	mode       platform.Mode

	currentBO, nextBO *platform.BufferObject
	fbIDs             map[*platform.BufferObject]uint32
	pageFlipPending   bool
}

// NewOutput wraps one output's platform handles. The owl package's
// startup code does the DRM connector/CRTC discovery, calls this, and
// hands the result to Manager.AddOutput.
func NewOutput(core *compositor.Output, card *platform.Card, crtcID, connectorID uint32, mode platform.Mode,
	gbmSurf *platform.Surface, eglSurf *platform.WindowSurface) *Output {
	return &Output{
		Core: core, card: card, gbmSurface: gbmSurf, eglSurface: eglSurf,
		crtcID: crtcID, connectorID: connectorID, mode: mode,
		fbIDs: make(map[*platform.BufferObject]uint32),
	}
}

// Manager owns every output plus the shared GLES2 pipeline, and
// implements compositor.FrameScheduler: a single ScheduleFrame call
// composites and pages every output whose previous flip has already
// completed, coalescing redundant requests per spec §4.5 "Any window or
// surface change schedules a render on all outputs; back-to-back
// scheduling requests while page_flip_pending are coalesced by the
// early return."
type Manager struct {
	Pipeline *Pipeline
	EGL      *platform.Context
	Outputs  []*Output
	State    *compositor.State
	Log      *zap.Logger
}

func NewManager(pipeline *Pipeline, egl *platform.Context, state *compositor.State, log *zap.Logger) *Manager {
	return &Manager{Pipeline: pipeline, EGL: egl, State: state, Log: log}
}

func (m *Manager) AddOutput(out *Output) { m.Outputs = append(m.Outputs, out) }

// ScheduleFrame satisfies compositor.FrameScheduler.
func (m *Manager) ScheduleFrame() {
	for _, out := range m.Outputs {
		m.renderOne(out)
	}
}

func (m *Manager) renderOne(out *Output) {
	if out.pageFlipPending {
		return
	}

	if err := m.EGL.MakeCurrent(out.eglSurface); err != nil {
		m.Log.Warn("eglMakeCurrent failed", zap.Error(err))
		return
	}

	windows := m.State.RenderList()
	m.Pipeline.Composite(out.Core.Width, out.Core.Height, windows)

	if err := out.eglSurface.SwapBuffers(); err != nil {
		m.Log.Warn("eglSwapBuffers failed", zap.Error(err))
		return
	}

	bo, err := out.gbmSurface.LockFrontBuffer()
	if err != nil {
		m.Log.Warn("lock front buffer failed", zap.Error(err))
		return
	}

	fbID, ok := out.fbIDs[bo]
	if !ok {
		var err error
		fbID, err = addFramebuffer(out.card, bo)
		if err != nil {
			m.Log.Warn("drmModeAddFB failed", zap.Error(err))
			bo.Release()
			return
		}
		out.fbIDs[bo] = fbID
	}

	if out.currentBO == nil {
		if err := out.card.SetCrtc(out.crtcID, out.connectorID, fbID, &out.mode); err != nil {
			m.Log.Warn("SetCrtc failed", zap.Error(err))
			bo.Release()
			return
		}
		out.currentBO = bo
		m.Pipeline.Stats.PageFlipsIssued++
		sendFrameDone(windows)
		return
	}

	if err := out.card.PageFlip(out.crtcID, fbID, 0); err != nil {
		m.Log.Warn("PageFlip failed", zap.Error(err))
		bo.Release()
		return
	}
	out.nextBO = bo
	out.pageFlipPending = true
	m.Pipeline.Stats.PageFlipsIssued++
	sendFrameDone(windows)
}

// sendFrameDone fires wl_callback.done for every composited surface's
// pending frame callback (spec §4.5 steps 7-8: the first frame's
// drmModeSetCrtc and every subsequent drmModePageFlip both immediately
// emit frame-callback done as part of issuing the scanout, rather than
// waiting on the kernel's page-flip-complete event).
func sendFrameDone(windows []*compositor.Window) {
	nowMS := uint32(time.Now().UnixMilli())
	for _, w := range windows {
		w.Surface.SendFrameDone(nowMS)
	}
}

// OnPageFlipComplete is called from the DRM event fd handler once the
// kernel confirms a scheduled flip landed: it only releases the
// superseded buffer object and advances the current/next bookkeeping.
// Frame-done callbacks already fired synchronously from renderOne when
// the flip was issued (spec §4.5 vblank scheduling).
func (m *Manager) OnPageFlipComplete(out *Output) {
	if out.currentBO != nil {
		out.currentBO.Release()
	}
	out.currentBO = out.nextBO
	out.nextBO = nil
	out.pageFlipPending = false
}
