package owl

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// configWatch buffers fsnotify events/errors handed off from its own
// goroutine (fsnotify exposes no pollable Fd(), only channels) until the
// event-loop-owned pipe handler drains them.
type configWatch struct {
	mu     sync.Mutex
	events []fsnotify.Event
	errs   []error
}

func (c *configWatch) pushEvent(ev fsnotify.Event) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

func (c *configWatch) pushError(err error) {
	c.mu.Lock()
	c.errs = append(c.errs, err)
	c.mu.Unlock()
}

func (c *configWatch) drain() (events []fsnotify.Event, errs []error) {
	c.mu.Lock()
	events, c.events = c.events, nil
	errs, c.errs = c.errs, nil
	c.mu.Unlock()
	return events, errs
}

// WatchConfig watches the file at path (typically the TOML file passed
// to WithConfigFile) and logs change notifications, a debug aid for a
// host iterating on seat/card settings without restarting the compositor. It does not
// hot-apply changes: card/output/XKB bindings are fixed at startup
// (spec §4.5 "Startup" is a one-time sequence), so watching exists
// purely to make that limitation visible rather than silent.
//
// fsnotify's own goroutine never touches d.log directly: it only pushes
// into a configWatch and pokes a self-pipe, so the actual logging runs
// on the event loop goroutine that owns every other fd, the same
// single-threaded discipline wire.EventLoop holds the rest of the
// server to.
func (d *Display) WatchConfig(path string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return nil, err
	}

	var pipeFDs [2]int
	if err := unix.Pipe2(pipeFDs[:], unix.O_CLOEXEC|unix.O_NONBLOCK); err != nil {
		w.Close()
		return nil, fmt.Errorf("owl: config watch pipe: %w", err)
	}
	readFD, writeFD := pipeFDs[0], pipeFDs[1]

	cw := &configWatch{}
	go func() {
		wake := []byte{0}
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					unix.Close(writeFD)
					return
				}
				cw.pushEvent(ev)
				unix.Write(writeFD, wake)
			case err, ok := <-w.Errors:
				if !ok {
					unix.Close(writeFD)
					return
				}
				cw.pushError(err)
				unix.Write(writeFD, wake)
			}
		}
	}()

	d.loop.AddFD(readFD, func(events uint32) {
		var drain [64]byte
		for {
			n, err := unix.Read(readFD, drain[:])
			if err != nil || n <= 0 {
				break
			}
		}
		evs, errs := cw.drain()
		for _, ev := range evs {
			d.log.Info("config file changed, restart to apply", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
		}
		for _, err := range errs {
			d.log.Warn("config watch error", zap.Error(err))
		}
	})

	return w, nil
}
