// Package platform binds the native Linux graphics/input libraries OWL
// needs directly: libxkbcommon, libinput+libudev, libdrm, gbm, and
// EGL/GLES2. Every type here follows the same cgo idiom (opaque
// handle-wrapping struct, Destroy that panics on double-close, errors
// surfaced via fmt.Errorf) applied to a server/compositor binding
// instead of a client one.
package platform

// #cgo pkg-config: xkbcommon
// #include <stdlib.h>
// #include <xkbcommon/xkbcommon.h>
import "C"

import (
	"fmt"
	"os"
	"syscall"
	"unsafe"
)

// Keymap wraps the compiled default XKB keymap this server advertises
// to every client (spec §4.7 "Keymap transport"): no keymap file is
// read from disk, the "evdev" rule set's default layout is compiled
// the same way a desktop session's fallback keymap would be.
type Keymap struct {
	ctx    *C.struct_xkb_context
	keymap *C.struct_xkb_keymap
	state  *C.struct_xkb_state

	shiftIdx, ctrlIdx, altIdx, superIdx C.xkb_mod_index_t
}

// NewKeymap compiles the default keymap (rules "evdev", no explicit
// model/layout/variant/options — matching xkb_keymap_new_from_names
// with an all-zero rule names struct, the same fallback a desktop
// session uses when $XKB_DEFAULT_LAYOUT is unset).
func NewKeymap() (*Keymap, error) {
	ctx := C.xkb_context_new(C.XKB_CONTEXT_NO_FLAGS)
	if ctx == nil {
		return nil, fmt.Errorf("platform: xkb_context_new failed")
	}
	var names C.struct_xkb_rule_names
	km := C.xkb_keymap_new_from_names(ctx, &names, C.XKB_KEYMAP_COMPILE_NO_FLAGS)
	if km == nil {
		C.xkb_context_unref(ctx)
		return nil, fmt.Errorf("platform: xkb_keymap_new_from_names failed")
	}
	st := C.xkb_state_new(km)
	if st == nil {
		C.xkb_keymap_unref(km)
		C.xkb_context_unref(ctx)
		return nil, fmt.Errorf("platform: xkb_state_new failed")
	}
	return &Keymap{
		ctx: ctx, keymap: km, state: st,
		shiftIdx: modIndex(km, "Shift"),
		ctrlIdx:  modIndex(km, "Control"),
		altIdx:   modIndex(km, "Mod1"),
		superIdx: modIndex(km, "Mod4"),
	}, nil
}

// modIndex resolves a named XKB modifier ("Shift", "Control", "Mod1",
// "Mod4", ...) to this keymap's mod-index, or XKB_MOD_INVALID if the
// keymap doesn't define it.
func modIndex(km *C.struct_xkb_keymap, name string) C.xkb_mod_index_t {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return C.xkb_keymap_mod_get_index(km, cname)
}

// AsString serializes the keymap in the text format clients expect
// over wl_keyboard.keymap (spec §4.7).
func (k *Keymap) AsString() string {
	cstr := C.xkb_keymap_get_as_string(k.keymap, C.XKB_KEYMAP_FORMAT_TEXT_V1)
	defer C.free(unsafe.Pointer(cstr))
	return C.GoString(cstr)
}

// WriteTmpFile writes the keymap string to an anonymous, unlinked temp
// file and returns its fd and size, ready to hand to
// wl_keyboard.keymap(XKB_V1, fd, size) (spec §4.7 "mkstemp/unlinked tmp
// file").
func (k *Keymap) WriteTmpFile() (fd int, size uint32, err error) {
	s := k.AsString()
	f, err := os.CreateTemp("", "owl-keymap-*")
	if err != nil {
		return -1, 0, fmt.Errorf("platform: keymap tmp file: %w", err)
	}
	os.Remove(f.Name())
	if _, err := f.WriteString(s); err != nil {
		f.Close()
		return -1, 0, fmt.Errorf("platform: keymap write: %w", err)
	}
	// Dup the descriptor so the returned fd stays open once f is closed
	// (or collected and finalized).
	dup, err := syscall.Dup(int(f.Fd()))
	f.Close()
	if err != nil {
		return -1, 0, fmt.Errorf("platform: keymap dup: %w", err)
	}
	return dup, uint32(len(s)), nil
}

// UpdateKey feeds one key transition into the XKB state machine and
// returns the keysym it produces plus the current modifier masks (spec
// §4.7 "merging libinput device events with an XKB keymap").
func (k *Keymap) UpdateKey(evdevCode uint32, pressed bool) (keysym uint32, depressed, latched, locked, group uint32) {
	// XKB keycodes are evdev codes offset by 8 (the X11 legacy).
	code := C.xkb_keycode_t(evdevCode + 8)
	sym := C.xkb_state_key_get_one_sym(k.state, code)

	var direction C.enum_xkb_key_direction
	if pressed {
		direction = C.XKB_KEY_DOWN
	} else {
		direction = C.XKB_KEY_UP
	}
	C.xkb_state_update_key(k.state, code, direction)

	depressed = uint32(C.xkb_state_serialize_mods(k.state, C.XKB_STATE_MODS_DEPRESSED))
	latched = uint32(C.xkb_state_serialize_mods(k.state, C.XKB_STATE_MODS_LATCHED))
	locked = uint32(C.xkb_state_serialize_mods(k.state, C.XKB_STATE_MODS_LOCKED))
	group = uint32(C.xkb_state_serialize_layout(k.state, C.XKB_STATE_LAYOUT_EFFECTIVE))
	return uint32(sym), depressed, latched, locked, group
}

// Modifier bit constants the embedding API promises (spec §6 "Modifier
// constants"); fixed regardless of what mod-index layout this keymap
// happens to compile to.
const (
	ModShift uint32 = 1 << 0
	ModCtrl  uint32 = 1 << 1
	ModAlt   uint32 = 1 << 2
	ModSuper uint32 = 1 << 3
)

// TranslateMods converts a raw xkb_state_serialize_mods-style bitmask
// (mod-index based — Shift/Ctrl/Alt/Super are not necessarily bits
// 0/1/2/3 in a real keymap) into the fixed ModShift/ModCtrl/ModAlt/
// ModSuper layout, resolving each named modifier's index via
// xkb_keymap_mod_get_index once at keymap compile time.
func (k *Keymap) TranslateMods(raw uint32) uint32 {
	var out uint32
	if modBitSet(k.shiftIdx, raw) {
		out |= ModShift
	}
	if modBitSet(k.ctrlIdx, raw) {
		out |= ModCtrl
	}
	if modBitSet(k.altIdx, raw) {
		out |= ModAlt
	}
	if modBitSet(k.superIdx, raw) {
		out |= ModSuper
	}
	return out
}

func modBitSet(idx C.xkb_mod_index_t, raw uint32) bool {
	if idx == C.XKB_MOD_INVALID {
		return false
	}
	return raw&(1<<idx) != 0
}

// Destroy releases the XKB context. Safe to call once; a second call
// panics rather than double-freeing the underlying handles.
func (k *Keymap) Destroy() {
	if k.ctx == nil {
		panic("double close of platform.Keymap")
	}
	C.xkb_state_unref(k.state)
	C.xkb_keymap_unref(k.keymap)
	C.xkb_context_unref(k.ctx)
	k.ctx = nil
}
