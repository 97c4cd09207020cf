package platform

// #cgo pkg-config: libdrm
// #include <stdlib.h>
// #include <fcntl.h>
// #include <unistd.h>
// #include <xf86drm.h>
// #include <xf86drmMode.h>
import "C"

import (
	"fmt"
	"unsafe"
)

// Connector is one DRM connector this server can drive a physical
// output from, discovered during Card.Connectors (spec §4.5 "Startup
// enumerates DRM connectors").
type Connector struct {
	ID       uint32
	Connected bool
	Modes    []Mode
}

type Mode struct {
	Width, Height int32
	RefreshMilliHz int32
	raw           C.drmModeModeInfo
}

// Card wraps an open DRM device node (e.g. /dev/dri/card0), the
// compositor's single handle to the kernel scanout hardware (spec §3
// Display field "DRM file descriptor").
type Card struct {
	fd   C.int
	path string
}

// OpenCard opens path and claims DRM master (implicit for the first
// opener on most systems without a display manager already running).
func OpenCard(path string) (*Card, error) {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	fd := C.open(cpath, C.O_RDWR|C.O_CLOEXEC, 0)
	if fd < 0 {
		return nil, fmt.Errorf("platform: open %s failed", path)
	}
	return &Card{fd: fd, path: path}, nil
}

func (c *Card) Fd() int { return int(c.fd) }

// CrtcIDs returns every CRTC id this card exposes, in resource order.
// Pairing a connector with a free CRTC properly requires walking each
// connector's possible encoders and each encoder's possible_crtcs mask
// (drmModeGetEncoder); this server instead pairs the Nth connected
// connector with the Nth CRTC, which is correct for the common single-
// or dual-head case this server targets and is documented as a
// simplification rather than a full allocator.
func (c *Card) CrtcIDs() ([]uint32, error) {
	res := C.drmModeGetResources(c.fd)
	if res == nil {
		return nil, fmt.Errorf("platform: drmModeGetResources failed")
	}
	defer C.drmModeFreeResources(res)
	count := int(res.count_crtcs)
	ids := unsafe.Slice(res.crtcs, count)
	out := make([]uint32, count)
	for i, id := range ids {
		out[i] = uint32(id)
	}
	return out, nil
}

// Connectors enumerates every connector and its available modes (spec
// §4.5: "for each CONNECTED connector with modes").
func (c *Card) Connectors() ([]Connector, error) {
	res := C.drmModeGetResources(c.fd)
	if res == nil {
		return nil, fmt.Errorf("platform: drmModeGetResources failed")
	}
	defer C.drmModeFreeResources(res)

	count := int(res.count_connectors)
	ids := unsafe.Slice(res.connectors, count)

	var out []Connector
	for _, id := range ids {
		conn := C.drmModeGetConnector(c.fd, id)
		if conn == nil {
			continue
		}
		cn := Connector{ID: uint32(conn.connector_id), Connected: conn.connection == C.DRM_MODE_CONNECTED}
		if cn.Connected && conn.count_modes > 0 {
			modes := unsafe.Slice(conn.modes, int(conn.count_modes))
			for _, m := range modes {
				cn.Modes = append(cn.Modes, Mode{
					Width: int32(m.hdisplay), Height: int32(m.vdisplay),
					RefreshMilliHz: int32(m.vrefresh) * 1000,
					raw:            m,
				})
			}
		}
		C.drmModeFreeConnector(conn)
		out = append(out, cn)
	}
	return out, nil
}

// SetCrtc performs the initial mode-set for one output (spec §4.5
// "pick a free encoder, a free CRTC").
func (c *Card) SetCrtc(crtcID, connectorID uint32, fbID uint32, mode *Mode) error {
	connID := C.uint32_t(connectorID)
	r := C.drmModeSetCrtc(c.fd, C.uint32_t(crtcID), C.uint32_t(fbID), 0, 0, &connID, 1, &mode.raw)
	if r != 0 {
		return fmt.Errorf("platform: drmModeSetCrtc failed (%d)", r)
	}
	return nil
}

// PageFlip schedules an atomic buffer swap for the next vblank (spec
// §4.5 "page-flip-pending flag"); completion is delivered asynchronously
// via HandleEvents on the card's fd.
func (c *Card) PageFlip(crtcID, fbID uint32, userData uintptr) error {
	r := C.drmModePageFlip(c.fd, C.uint32_t(crtcID), C.uint32_t(fbID), C.DRM_MODE_PAGE_FLIP_EVENT, unsafe.Pointer(userData))
	if r != 0 {
		return fmt.Errorf("platform: drmModePageFlip failed (%d)", r)
	}
	return nil
}

func (c *Card) Close() error {
	if C.close(c.fd) != 0 {
		return fmt.Errorf("platform: close card fd failed")
	}
	return nil
}
