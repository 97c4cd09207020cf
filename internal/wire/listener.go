package wire

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// Listener is the Wayland server's listening Unix socket, auto-named
// wayland-N under $XDG_RUNTIME_DIR per protocol convention.
type Listener struct {
	fd         int
	socketPath string
	socketName string
}

// Listen binds the first free wayland-N socket (N from 0 to 31) under
// runtimeDir. Returns an error if runtimeDir is empty, matching
// the protocol's requirement that XDG_RUNTIME_DIR be set.
func Listen(runtimeDir string) (*Listener, error) {
	if runtimeDir == "" {
		return nil, fmt.Errorf("wire: XDG_RUNTIME_DIR is not set")
	}

	fd, err := unix.Socket(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC|unix.SOCK_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("wire: socket: %w", err)
	}

	var name, path string
	for n := 0; n < 32; n++ {
		candidate := fmt.Sprintf("wayland-%d", n)
		candidatePath := filepath.Join(runtimeDir, candidate)
		if _, err := os.Stat(candidatePath); err == nil {
			continue
		}
		addr := &unix.SockaddrUnix{Name: candidatePath}
		if err := unix.Bind(fd, addr); err != nil {
			continue
		}
		name, path = candidate, candidatePath
		break
	}
	if path == "" {
		unix.Close(fd)
		return nil, fmt.Errorf("wire: no free wayland-N socket name under %s", runtimeDir)
	}

	if err := unix.Listen(fd, 128); err != nil {
		unix.Close(fd)
		os.Remove(path)
		return nil, fmt.Errorf("wire: listen: %w", err)
	}

	// A lock file matching the socket convention prevents a second
	// server picking the same name; best-effort, not load-bearing for
	// correctness within a single process.
	lockPath := path + ".lock"
	lockFd, err := unix.Open(lockPath, unix.O_CREAT|unix.O_RDWR|unix.O_CLOEXEC, 0644)
	if err == nil {
		unix.Close(lockFd)
	}

	return &Listener{fd: fd, socketPath: path, socketName: name}, nil
}

func (l *Listener) Fd() int { return l.fd }

// Name returns the bare socket name (e.g. "wayland-0"), the value
// exposed to the embedding host via Display.GetSocketName.
func (l *Listener) Name() string { return l.socketName }

// Accept accepts one pending client connection. Returns (nil, nil)
// when called without a pending connection (EAGAIN), since the listener
// fd is non-blocking and may be polled spuriously.
func (l *Listener) Accept() (*Conn, error) {
	fd, _, err := unix.Accept4(l.fd, unix.SOCK_CLOEXEC|unix.SOCK_NONBLOCK)
	if err != nil {
		if err == unix.EAGAIN {
			return nil, nil
		}
		return nil, fmt.Errorf("wire: accept: %w", err)
	}
	return NewConn(fd), nil
}

func (l *Listener) Close() error {
	os.Remove(l.socketPath)
	os.Remove(l.socketPath + ".lock")
	return unix.Close(l.fd)
}
