package owl

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/tonybanters/owl/internal/compositor"
	"github.com/tonybanters/owl/internal/platform"
	"github.com/tonybanters/owl/internal/render"
)

// startupOutputs enumerates DRM connectors and creates one output per
// connected connector with modes (the mode set itself happens on that
// output's first frame), wiring its GBM swapchain + EGL window surface
// (spec §4.5 "Startup"). Each output is named "HDMI-A-<n>", n counting
// the created outputs from 1; the connector's actual type and type id
// are not looked up.
func (d *Display) startupOutputs(cardPath string) error {
	card, err := platform.OpenCard(cardPath)
	if err != nil {
		return errors.Wrap(err, "owl: open DRM card")
	}

	device, err := platform.NewDevice(card.Fd())
	if err != nil {
		return errors.Wrap(err, "owl: gbm device")
	}

	egl, err := platform.NewContext(device.NativeDisplay())
	if err != nil {
		return errors.Wrap(err, "owl: egl context")
	}
	d.manager.EGL = egl

	connectors, err := card.Connectors()
	if err != nil {
		return errors.Wrap(err, "owl: drm connectors")
	}
	crtcIDs, err := card.CrtcIDs()
	if err != nil {
		return errors.Wrap(err, "owl: drm crtcs")
	}

	connIdx := 0
	for _, conn := range connectors {
		if !conn.Connected || len(conn.Modes) == 0 {
			continue
		}
		if connIdx >= len(crtcIDs) {
			d.log.Warn("more connected outputs than available CRTCs, skipping")
			break
		}
		mode := conn.Modes[0]
		crtcID := crtcIDs[connIdx]
		connIdx++

		gbmSurf, err := device.NewSurface(mode.Width, mode.Height)
		if err != nil {
			return errors.Wrap(err, "owl: gbm surface")
		}
		eglSurf, err := egl.NewWindowSurface(gbmSurf.NativeWindow())
		if err != nil {
			return errors.Wrap(err, "owl: egl window surface")
		}

		name := fmt.Sprintf("HDMI-A-%d", connIdx)
		core := compositor.NewOutput(name, 0, 0, mode.Width, mode.Height, mode.RefreshMilliHz)
		d.state.Outputs = append(d.state.Outputs, core)
		d.state.Registry.AddOutput(len(d.state.Outputs) - 1)

		out := render.NewOutput(core, card, crtcID, conn.ID, mode, gbmSurf, eglSurf)
		d.manager.AddOutput(out)

		if d.hooks.OnOutput != nil {
			d.hooks.OnOutput(compositor.OutputEventConnect, name)
		}
	}

	return nil
}
