package platform

// #cgo pkg-config: libinput libudev
// #include <stdlib.h>
// #include <fcntl.h>
// #include <unistd.h>
// #include <libinput.h>
// #include <libudev.h>
//
// static int owl_open_restricted(const char *path, int flags, void *user_data) {
// 	return open(path, flags);
// }
// static void owl_close_restricted(int fd, void *user_data) {
// 	close(fd);
// }
// static const struct libinput_interface owl_interface = {
// 	.open_restricted = owl_open_restricted,
// 	.close_restricted = owl_close_restricted,
// };
import "C"

import (
	"fmt"
	"unsafe"
)

// EventKind classifies the libinput event types OWL consumes, a small
// projection of the much larger libinput_event_type enum (spec §4.7:
// key, button, and pointer motion are all this server routes).
type EventKind int

const (
	EventKey EventKind = iota
	EventButton
	EventMotion
)

// Event is one translated libinput event, decoupled from libinput's C
// union representation so the caller (internal/compositor's Seat) never
// touches cgo types.
type Event struct {
	Kind    EventKind
	Code    uint32
	Pressed bool
	TimeMS  uint32
	DX, DY  float64
}

// InputContext owns the libinput + udev session for one seat (spec §3
// Display field "input context"). Device add/remove events are
// consumed internally; only key/button/motion events are surfaced.
type InputContext struct {
	udev *C.struct_udev
	li   *C.struct_libinput
}

// Open assigns the named seat (conventionally "seat0") via
// libinput_udev_create_context, the standard way a compositor takes
// input device ownership from udev.
func Open(seatName string) (*InputContext, error) {
	udev := C.udev_new()
	if udev == nil {
		return nil, fmt.Errorf("platform: udev_new failed")
	}
	li := C.libinput_udev_create_context(&C.owl_interface, nil, udev)
	if li == nil {
		C.udev_unref(udev)
		return nil, fmt.Errorf("platform: libinput_udev_create_context failed")
	}
	cseat := C.CString(seatName)
	defer C.free(unsafe.Pointer(cseat))
	if C.libinput_udev_assign_seat(li, cseat) != 0 {
		C.libinput_unref(li)
		C.udev_unref(udev)
		return nil, fmt.Errorf("platform: libinput_udev_assign_seat(%s) failed", seatName)
	}
	return &InputContext{udev: udev, li: li}, nil
}

// Fd returns the libinput context's pollable fd, for registration with
// the core event loop (spec §4.7 input is epoll-driven like everything
// else, no dedicated input thread).
func (in *InputContext) Fd() int {
	return int(C.libinput_get_fd(in.li))
}

// Poll drains every currently queued libinput event, translating the
// subset this server cares about and discarding the rest (device
// hotplug, touch, tablet, gesture events are all out of scope per spec
// §1 Non-goals).
func (in *InputContext) Poll() []Event {
	C.libinput_dispatch(in.li)
	var out []Event
	for {
		ev := C.libinput_get_event(in.li)
		if ev == nil {
			break
		}
		switch C.libinput_event_get_type(ev) {
		case C.LIBINPUT_EVENT_KEYBOARD_KEY:
			kev := C.libinput_event_get_keyboard_event(ev)
			out = append(out, Event{
				Kind:    EventKey,
				Code:    uint32(C.libinput_event_keyboard_get_key(kev)),
				Pressed: C.libinput_event_keyboard_get_key_state(kev) == C.LIBINPUT_KEY_STATE_PRESSED,
				TimeMS:  uint32(C.libinput_event_keyboard_get_time(kev)),
			})
		case C.LIBINPUT_EVENT_POINTER_BUTTON:
			pev := C.libinput_event_get_pointer_event(ev)
			out = append(out, Event{
				Kind:    EventButton,
				Code:    uint32(C.libinput_event_pointer_get_button(pev)),
				Pressed: C.libinput_event_pointer_get_button_state(pev) == C.LIBINPUT_BUTTON_STATE_PRESSED,
				TimeMS:  uint32(C.libinput_event_pointer_get_time(pev)),
			})
		case C.LIBINPUT_EVENT_POINTER_MOTION:
			pev := C.libinput_event_get_pointer_event(ev)
			out = append(out, Event{
				Kind:   EventMotion,
				DX:     float64(C.libinput_event_pointer_get_dx(pev)),
				DY:     float64(C.libinput_event_pointer_get_dy(pev)),
				TimeMS: uint32(C.libinput_event_pointer_get_time(pev)),
			})
		}
		C.libinput_event_destroy(ev)
	}
	return out
}

func (in *InputContext) Close() {
	C.libinput_unref(in.li)
	C.udev_unref(in.udev)
}
