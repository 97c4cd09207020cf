// Package owl is the embedding API a host program links against to run
// a minimal Wayland compositor: create a Display, register typed event
// callbacks, run its event loop, and drive window placement policy
// (spec §4.8 "Embedding API"). Everything graphics/input/wire related
// lives in internal/ packages; this package is deliberately the only
// public surface, mirroring the C original's single owl.h header.
package owl

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/tonybanters/owl/internal/compositor"
	"github.com/tonybanters/owl/internal/platform"
	"github.com/tonybanters/owl/internal/render"
	"github.com/tonybanters/owl/internal/wire"
)

// Modifier bit constants (spec §6).
const (
	ModShift = compositor.ModShift
	ModCtrl  = compositor.ModCtrl
	ModAlt   = compositor.ModAlt
	ModSuper = compositor.ModSuper
)

// WindowEvent, InputEvent, and OutputEvent re-export internal/compositor's
// event enums under the public API's names (spec §4.8 callback tables
// "indexed by event enum").
type (
	WindowEvent = compositor.WindowEvent
	InputEvent  = compositor.InputEvent
	OutputEvent = compositor.OutputEvent
)

const (
	WindowEventCreate       = compositor.WindowEventCreate
	WindowEventDestroy      = compositor.WindowEventDestroy
	WindowEventMap          = compositor.WindowEventMap
	WindowEventUnmap        = compositor.WindowEventUnmap
	WindowEventFocus        = compositor.WindowEventFocus
	WindowEventUnfocus      = compositor.WindowEventUnfocus
	WindowEventMove         = compositor.WindowEventMove
	WindowEventResize       = compositor.WindowEventResize
	WindowEventFullscreen   = compositor.WindowEventFullscreen
	WindowEventTitleChange  = compositor.WindowEventTitleChange
	WindowEventRequestMove  = compositor.WindowEventRequestMove
	WindowEventRequestResize = compositor.WindowEventRequestResize
)

const (
	InputEventKeyPress      = compositor.InputEventKeyPress
	InputEventKeyRelease    = compositor.InputEventKeyRelease
	InputEventButtonPress   = compositor.InputEventButtonPress
	InputEventButtonRelease = compositor.InputEventButtonRelease
	InputEventPointerMotion = compositor.InputEventPointerMotion
)

const (
	OutputEventConnect    = compositor.OutputEventConnect
	OutputEventDisconnect = compositor.OutputEventDisconnect
	OutputEventModeChange = compositor.OutputEventModeChange
)

// ErrorKind classifies a Display-level failure (spec §7).
type ErrorKind = compositor.ErrorKind

const (
	KindProtocolError  = compositor.KindProtocolError
	KindOOMPerResource = compositor.KindOOMPerResource
	KindTransientHW    = compositor.KindTransientHW
)

// Window is an opaque handle to a mapped or unmapped toplevel (spec §3
// "Window", §4.8 opaque handles).
type Window struct{ core *compositor.Window }

func (w *Window) X() int32            { return w.core.X }
func (w *Window) Y() int32            { return w.core.Y }
func (w *Window) Width() int32        { return w.core.Width }
func (w *Window) Height() int32       { return w.core.Height }
func (w *Window) Title() string       { return w.core.Title }
func (w *Window) AppID() string       { return w.core.AppID }
func (w *Window) IsFullscreen() bool  { return w.core.Fullscreen }
func (w *Window) IsFocused() bool     { return w.core.Focused }

func (w *Window) Move(x, y int32)            { w.core.Move(x, y) }
func (w *Window) Resize(width, height int32) { w.core.Resize(width, height) }
func (w *Window) Close()                     { w.core.Close() }
func (w *Window) SetFullscreen(fs bool) {
	if fs {
		w.core.SetFullscreen()
	} else {
		w.core.UnsetFullscreen()
	}
}

// Output is an opaque handle to one physical scanout destination (spec
// §3 "Output").
type Output struct{ core *compositor.Output }

func (o *Output) X() int32         { return o.core.X }
func (o *Output) Y() int32         { return o.core.Y }
func (o *Output) Width() int32     { return o.core.Width }
func (o *Output) Height() int32    { return o.core.Height }
func (o *Output) Name() string     { return o.core.Name }

// Input is an opaque handle describing one routed input event (spec §3
// "Input event").
type Input struct{ core *compositor.InputState }

func (in *Input) Keycode() uint32      { return in.core.Key }
func (in *Input) Keysym() uint32       { return in.core.Keysym }
func (in *Input) Modifiers() uint32    { return in.core.Modifiers }
func (in *Input) Button() uint32       { return in.core.Button }
func (in *Input) PointerX() wire.Fixed { return in.core.X }
func (in *Input) PointerY() wire.Fixed { return in.core.Y }

// Options configures Display construction (functional-options, the Go
// idiom standing in for the original's zero-argument owl_display_create
// plus ambient environment reads).
type Options struct {
	card       string
	log        *zap.Logger
	configFile string
	xkbRules   string
}

type Option func(*Options)

// WithCard selects the DRM device node to open (default /dev/dri/card0).
func WithCard(path string) Option { return func(o *Options) { o.card = path } }

// WithLogger injects a zap.Logger; a production JSON logger is
// constructed by default if none is given.
func WithLogger(l *zap.Logger) Option { return func(o *Options) { o.log = l } }

// WithConfigFile points at a TOML config the host wants Display to read
// at startup (seat name, card path, XKB rule set; see Config).
func WithConfigFile(path string) Option { return func(o *Options) { o.configFile = path } }

// WithXKBRules records an XKB rule set name in the Display's Config.
// The keymap NewDisplay compiles does not read it: that keymap is always
// built from the default rule names.
func WithXKBRules(rules string) Option { return func(o *Options) { o.xkbRules = rules } }

// Display is the opaque singleton handle to the running compositor
// (spec §3 "Display"). Created once, destroyed once, per process.
type Display struct {
	state  *compositor.State
	server *compositor.Server
	loop   *wire.EventLoop
	hooks  *compositor.Hooks
	log    *zap.Logger

	manager *render.Manager
	input   *platform.InputContext
	keymap  *platform.Keymap
	keymapFD int
	keymapSize uint32

	windowHandles map[*compositor.Window]*Window
	outputHandles map[*compositor.Output]*Output

	config Config
}

// Config is read from an optional TOML file via WithConfigFile (the
// ambient configuration concern: this server itself takes no CLI flags
// per spec §6, but the embedding host's configuration of it is real
// ambient surface, parsed with the same library the pack's services
// use).
type Config struct {
	SeatName  string `toml:"seat_name"`
	CardPath  string `toml:"card_path"`
	XKBRules  string `toml:"xkb_rules"`
}

// NewDisplay creates the display singleton: opens the DRM card,
// discovers outputs, initializes EGL/GBM/libinput/XKB, and binds the
// Wayland socket (spec §4.5 "Startup"). Teardown happens in strict
// reverse order via Destroy (spec §3 Display lifecycle).
func NewDisplay(opts ...Option) (*Display, error) {
	o := &Options{card: "/dev/dri/card0"}
	for _, fn := range opts {
		fn(o)
	}
	if o.log == nil {
		l, err := zap.NewProduction()
		if err != nil {
			return nil, errors.Wrap(err, "owl: zap.NewProduction")
		}
		o.log = l
	}

	cfg := Config{SeatName: "seat0", CardPath: o.card, XKBRules: o.xkbRules}
	if o.configFile != "" {
		if err := loadConfig(o.configFile, &cfg); err != nil {
			return nil, errors.Wrapf(err, "owl: loading config %s", o.configFile)
		}
	}

	d := &Display{
		windowHandles: make(map[*compositor.Window]*Window),
		outputHandles: make(map[*compositor.Output]*Output),
		log:           o.log,
		config:        cfg,
	}

	d.hooks = &compositor.Hooks{
		OnWindow: d.dispatchWindowEvent,
		OnInput:  d.dispatchInputEvent,
		OnOutput: d.dispatchOutputEvent,
	}
	d.state = compositor.NewState(d.hooks)

	loop, err := wire.NewEventLoop()
	if err != nil {
		return nil, errors.Wrap(err, "owl: event loop")
	}
	d.loop = loop

	runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
	listener, err := wire.Listen(runtimeDir)
	if err != nil {
		return nil, errors.Wrap(err, "owl: socket bind")
	}

	pipeline, err := render.NewPipeline(o.log)
	if err != nil {
		return nil, errors.Wrap(err, "owl: shader pipeline")
	}
	d.state.Uploader = pipeline

	d.manager = render.NewManager(pipeline, nil, d.state, o.log)
	d.state.Scheduler = d.manager

	if err := d.startupOutputs(cfg.CardPath); err != nil {
		o.log.Warn("output discovery failed, running headless", zap.Error(err))
	}

	d.server = compositor.NewServer(d.state, listener, loop, o.log)
	if err := d.server.Start(); err != nil {
		return nil, errors.Wrap(err, "owl: server start")
	}

	in, err := platform.Open(cfg.SeatName)
	if err != nil {
		o.log.Warn("libinput unavailable, running without input routing", zap.Error(err))
	} else {
		d.input = in
		loop.AddFD(in.Fd(), func(events uint32) { d.pollInput() })
	}

	km, err := platform.NewKeymap()
	if err != nil {
		o.log.Warn("xkb keymap unavailable", zap.Error(err))
	} else {
		d.keymap = km
		fd, size, err := km.WriteTmpFile()
		if err != nil {
			o.log.Warn("xkb keymap temp file failed", zap.Error(err))
		} else {
			d.keymapFD, d.keymapSize = fd, size
		}
	}

	return d, nil
}

func loadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return decodeTOML(data, cfg)
}

// GetSocketName returns the auto-named wayland-N socket fragment
// clients should set WAYLAND_DISPLAY to (spec §6 "Socket").
func (d *Display) GetSocketName() string { return d.server.Listener.Name() }

func (d *Display) PointerX() wire.Fixed { return d.state.Seat.PointerX }
func (d *Display) PointerY() wire.Fixed { return d.state.Seat.PointerY }

// Run drives the core event loop until Terminate is called (spec §4.8
// "create/destroy/run/terminate the display").
func (d *Display) Run() { d.loop.Run() }

func (d *Display) Terminate() { d.loop.Terminate() }

// Destroy tears the display down in strict reverse-of-construction
// order (spec §3 "destruction tears down in strict reverse order").
func (d *Display) Destroy() {
	if d.keymap != nil {
		d.keymap.Destroy()
	}
	if d.input != nil {
		d.input.Close()
	}
	d.server.Close()
	d.loop.Close()
}

// Windows returns every currently tracked window (spec §4.8
// "enumerate... windows").
func (d *Display) Windows() []*Window {
	out := make([]*Window, 0, len(d.state.Windows))
	for _, w := range d.state.Windows {
		out = append(out, d.handleFor(w))
	}
	return out
}

func (d *Display) Outputs() []*Output {
	out := make([]*Output, 0, len(d.state.Outputs))
	for _, o := range d.state.Outputs {
		out = append(out, d.outputHandleFor(o))
	}
	return out
}

func (d *Display) handleFor(w *compositor.Window) *Window {
	if h, ok := d.windowHandles[w]; ok {
		return h
	}
	h := &Window{core: w}
	d.windowHandles[w] = h
	return h
}

func (d *Display) outputHandleFor(o *compositor.Output) *Output {
	if h, ok := d.outputHandles[o]; ok {
		return h
	}
	h := &Output{core: o}
	d.outputHandles[o] = h
	return h
}

// SetWindowCallback, SetInputCallback, and SetOutputCallback register a
// user callback against one event kind (spec §4.8 "register typed event
// callbacks with user-data"). Go idiom closes over user data instead of
// taking a void* — passing a data parameter would be redundant, the
// caller's closure already captures it.
func (d *Display) SetWindowCallback(ev WindowEvent, fn func(*Display, *Window)) {
	prev := d.hooks.OnWindow
	d.hooks.OnWindow = func(e compositor.WindowEvent, w *compositor.Window) {
		if prev != nil {
			prev(e, w)
		}
		if e == ev {
			fn(d, d.handleFor(w))
		}
	}
}

func (d *Display) SetInputCallback(ev InputEvent, fn func(*Display, *Input)) {
	prev := d.hooks.OnInput
	d.hooks.OnInput = func(e compositor.InputEvent, in *compositor.InputState) {
		if prev != nil {
			prev(e, in)
		}
		if e == ev {
			fn(d, &Input{core: in})
		}
	}
}

func (d *Display) SetOutputCallback(ev OutputEvent, fn func(*Display, string)) {
	prev := d.hooks.OnOutput
	d.hooks.OnOutput = func(e compositor.OutputEvent, name string) {
		if prev != nil {
			prev(e, name)
		}
		if e == ev {
			fn(d, name)
		}
	}
}

// dispatchWindowEvent/dispatchInputEvent/dispatchOutputEvent are the
// Hooks entry points internal/compositor invokes; they exist so
// SetXxxCallback above can layer onto whatever the display already
// wired, rather than overwrite it.
func (d *Display) dispatchWindowEvent(compositor.WindowEvent, *compositor.Window) {}
func (d *Display) dispatchInputEvent(compositor.InputEvent, *compositor.InputState) {}
func (d *Display) dispatchOutputEvent(compositor.OutputEvent, string) {}

func (d *Display) pollInput() {
	if d.input == nil {
		return
	}
	for _, ev := range d.input.Poll() {
		switch ev.Kind {
		case platform.EventKey:
			var keysym, mods uint32
			if d.keymap != nil {
				sym, dep, lat, lock, grp := d.keymap.UpdateKey(ev.Code, ev.Pressed)
				d.state.Seat.DispatchModifiers(dep, lat, lock, grp)
				keysym = sym
				mods = d.keymap.TranslateMods(dep | lat | lock)
			}
			d.state.Seat.DispatchKey(ev.Code, ev.Pressed, ev.TimeMS, keysym, mods)
		case platform.EventButton:
			d.state.Seat.DispatchButton(ev.Code, ev.Pressed, ev.TimeMS)
		case platform.EventMotion:
			x := d.state.Seat.PointerX + wire.FixedFromFloat(ev.DX)
			y := d.state.Seat.PointerY + wire.FixedFromFloat(ev.DY)
			d.state.Seat.DispatchMotion(x, y, ev.TimeMS)
		}
	}
}

// Error is returned by operations that fail with a classified kind
// (spec §7 error handling design).
type Error struct {
	Kind ErrorKind
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("owl: %s: %s", e.Kind, e.Msg) }
