package wire

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// EventLoop is the single-threaded, fd-readiness dispatcher every other
// subsystem plugs into: the listening socket, each client socket, the
// DRM fd, and the libinput fd all register a handler here. There are no
// worker goroutines; Run never returns control to its caller's other
// goroutines mid-dispatch.
type EventLoop struct {
	epfd     int
	handlers map[int]func(events uint32)
	idle     []func()
	timers   []*timer
	running  bool
}

type timer struct {
	at uint64 // fires once monotonicMS() (ms since startTime) reaches at
	fn func()
}

func NewEventLoop() (*EventLoop, error) {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("wire: epoll_create1: %w", err)
	}
	return &EventLoop{epfd: epfd, handlers: make(map[int]func(events uint32))}, nil
}

// AddFD registers fd for level-triggered readability (and error/hangup),
// invoking handler with the raw epoll event mask when it fires.
func (el *EventLoop) AddFD(fd int, handler func(events uint32)) error {
	ev := unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)}
	if err := unix.EpollCtl(el.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("wire: epoll_ctl add: %w", err)
	}
	el.handlers[fd] = handler
	return nil
}

// RemoveFD unregisters fd. Safe to call during its own handler.
func (el *EventLoop) RemoveFD(fd int) {
	unix.EpollCtl(el.epfd, unix.EPOLL_CTL_DEL, fd, nil)
	delete(el.handlers, fd)
}

// AddIdle queues fn to run once, after the current readiness batch has
// been fully dispatched but before the loop blocks again, so a request
// handler can defer work without re-entering dispatch. The render path
// does not go through it: Surface.Commit calls ScheduleFrame directly.
func (el *EventLoop) AddIdle(fn func()) {
	el.idle = append(el.idle, fn)
}

// Terminate clears the running flag; the loop exits after the current
// iteration completes, matching display_terminate's contract of a clean
// exit rather than an abrupt one.
func (el *EventLoop) Terminate() {
	el.running = false
}

// Run blocks, dispatching readiness events until Terminate is called.
// A page flip or any other in-flight hardware operation is not a
// suspension point: it simply has no fd registered until the DRM fd
// becomes readable with the completion event, so other clients continue
// to be served while it is outstanding.
func (el *EventLoop) Run() {
	el.running = true
	events := make([]unix.EpollEvent, 32)
	for el.running {
		n, err := unix.EpollWait(el.epfd, events, el.nextTimeoutMS())
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return
		}
		for i := 0; i < n; i++ {
			fd := int(events[i].Fd)
			if handler, ok := el.handlers[fd]; ok {
				handler(events[i].Events)
			}
		}
		el.runDueTimers()
		el.drainIdle()
	}
}

func (el *EventLoop) drainIdle() {
	for len(el.idle) > 0 {
		fns := el.idle
		el.idle = nil
		for _, fn := range fns {
			fn()
		}
	}
}

func (el *EventLoop) nextTimeoutMS() int {
	if len(el.timers) == 0 {
		return -1
	}
	now := monotonicMS()
	soonest := el.timers[0].at
	for _, t := range el.timers[1:] {
		if t.at < soonest {
			soonest = t.at
		}
	}
	if soonest <= now {
		return 0
	}
	return int(soonest - now)
}

func (el *EventLoop) runDueTimers() {
	if len(el.timers) == 0 {
		return
	}
	now := monotonicMS()
	var due, remaining []*timer
	for _, t := range el.timers {
		if t.at <= now {
			due = append(due, t)
		} else {
			remaining = append(remaining, t)
		}
	}
	el.timers = remaining
	for _, t := range due {
		t.fn()
	}
}

// AddTimer schedules fn to run once, after d has elapsed.
func (el *EventLoop) AddTimer(d time.Duration, fn func()) {
	el.timers = append(el.timers, &timer{at: monotonicMS() + uint64(d.Milliseconds()), fn: fn})
}

var startTime = time.Now()

func monotonicMS() uint64 {
	return uint64(time.Since(startTime).Milliseconds())
}

func (el *EventLoop) Close() error {
	return unix.Close(el.epfd)
}
