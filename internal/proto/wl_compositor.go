package proto

import "github.com/tonybanters/owl/internal/wire"

// wl_compositor. Opcodes grounded on the gogpu-gogpu wayland package's
// client-side constants for the same interface (the wire protocol is
// symmetric; only which side originates a request differs).
const (
	CompositorRequestCreateSurface wire.Opcode = 0
	CompositorRequestCreateRegion  wire.Opcode = 1
)

// wl_surface
const (
	SurfaceRequestDestroy            wire.Opcode = 0
	SurfaceRequestAttach             wire.Opcode = 1
	SurfaceRequestDamage             wire.Opcode = 2
	SurfaceRequestFrame              wire.Opcode = 3
	SurfaceRequestSetOpaqueRegion    wire.Opcode = 4
	SurfaceRequestSetInputRegion     wire.Opcode = 5
	SurfaceRequestCommit             wire.Opcode = 6
	SurfaceRequestSetBufferTransform wire.Opcode = 7
	SurfaceRequestSetBufferScale     wire.Opcode = 8
	SurfaceRequestDamageBuffer       wire.Opcode = 9
	SurfaceRequestOffset             wire.Opcode = 10

	SurfaceEventEnter wire.Opcode = 0
	SurfaceEventLeave wire.Opcode = 1
)

// wl_region
const (
	RegionRequestDestroy wire.Opcode = 0
	RegionRequestAdd     wire.Opcode = 1
	RegionRequestSubtract wire.Opcode = 2
)

// wl_subcompositor (stub: accepted, subsurfaces are not composited —
// spec §1 Non-goals "Subsurface tree rendering").
const (
	SubcompositorRequestDestroy      wire.Opcode = 0
	SubcompositorRequestGetSubsurface wire.Opcode = 1
)

// wl_subsurface (stub)
const (
	SubsurfaceRequestDestroy   wire.Opcode = 0
	SubsurfaceRequestSetPosition wire.Opcode = 1
	SubsurfaceRequestPlaceAbove wire.Opcode = 2
	SubsurfaceRequestPlaceBelow wire.Opcode = 3
	SubsurfaceRequestSetSync    wire.Opcode = 4
	SubsurfaceRequestSetDesync  wire.Opcode = 5
)

// wl_data_device_manager / wl_data_device (stub only, spec §1 "Drag-and-
// drop data exchange (stub only)").
const (
	DataDeviceManagerRequestCreateDataSource wire.Opcode = 0
	DataDeviceManagerRequestGetDataDevice    wire.Opcode = 1
)
