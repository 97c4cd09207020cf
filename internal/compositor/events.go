package compositor

// WindowEvent mirrors Owl_Window_Event from the original owl.h: the set
// of window lifecycle moments the embedding host can observe.
type WindowEvent int

const (
	WindowEventCreate WindowEvent = iota
	WindowEventDestroy
	WindowEventMap
	WindowEventUnmap
	WindowEventFocus
	WindowEventUnfocus
	WindowEventMove
	WindowEventResize
	WindowEventFullscreen
	WindowEventTitleChange
	WindowEventRequestMove
	WindowEventRequestResize
)

// InputEvent mirrors Owl_Input_Event.
type InputEvent int

const (
	InputEventKeyPress InputEvent = iota
	InputEventKeyRelease
	InputEventButtonPress
	InputEventButtonRelease
	InputEventPointerMotion
)

// OutputEvent mirrors Owl_Output_Event.
type OutputEvent int

const (
	OutputEventConnect OutputEvent = iota
	OutputEventDisconnect
	OutputEventModeChange
)

// Hooks lets the owning Display (internal/compositor's caller, owl.Display)
// observe core lifecycle moments without compositor importing owl and
// creating a cycle. Every field may be nil; nil hooks are simply not
// invoked, which is how this server behaves before owl.Display finishes
// wiring itself up.
type Hooks struct {
	OnWindow func(ev WindowEvent, w *Window)
	OnInput  func(ev InputEvent, in *InputState)
	OnOutput func(ev OutputEvent, outputName string)
}

func (h *Hooks) window(ev WindowEvent, w *Window) {
	if h != nil && h.OnWindow != nil {
		h.OnWindow(ev, w)
	}
}

func (h *Hooks) input(ev InputEvent, in *InputState) {
	if h != nil && h.OnInput != nil {
		h.OnInput(ev, in)
	}
}

func (h *Hooks) output(ev OutputEvent, name string) {
	if h != nil && h.OnOutput != nil {
		h.OnOutput(ev, name)
	}
}
