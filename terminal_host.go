//go:build !windows

// terminal_host.go - Raw stdin key source for the keyboard player

package main

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

const (
	keyQueueSize  = 64
	keyPollMillis = 20
)

// TerminalHost switches stdin to raw mode and queues key presses from a
// reader goroutine. Only main.go creates one; tests use their own keySource.
type TerminalHost struct {
	fd    int
	saved *term.State

	keys chan byte
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

func NewTerminalHost() *TerminalHost {
	return &TerminalHost{
		keys: make(chan byte, keyQueueSize),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Start enters raw mode and begins reading. Stop must be called afterwards
// to restore the terminal.
func (th *TerminalHost) Start() error {
	th.fd = int(os.Stdin.Fd())
	saved, err := term.MakeRaw(th.fd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	th.saved = saved
	go th.readLoop()
	return nil
}

// readLoop polls stdin with a timeout so Stop is noticed without needing a
// non-blocking descriptor.
func (th *TerminalHost) readLoop() {
	defer close(th.done)

	fds := []unix.PollFd{{Fd: int32(th.fd), Events: unix.POLLIN}}
	var buf [16]byte
	for {
		select {
		case <-th.quit:
			return
		default:
		}

		ready, err := unix.Poll(fds, keyPollMillis)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return
		}
		if ready == 0 {
			continue
		}

		n, err := unix.Read(th.fd, buf[:])
		if err == unix.EINTR || err == unix.EAGAIN {
			continue
		}
		if err != nil || n == 0 {
			select {
			case th.keys <- keyQuitEOF:
			case <-th.quit:
			}
			return
		}
		for _, k := range buf[:n] {
			select {
			case th.keys <- k:
			default:
				// Player is behind; drop the key.
			}
		}
	}
}

// PollKey returns the next queued key without blocking.
func (th *TerminalHost) PollKey() (byte, bool) {
	select {
	case k := <-th.keys:
		return k, true
	default:
		return 0, false
	}
}

// Stop ends the reader and restores the terminal. It is safe to call more
// than once.
func (th *TerminalHost) Stop() {
	th.once.Do(func() {
		close(th.quit)
		<-th.done
		if th.saved != nil {
			term.Restore(th.fd, th.saved)
		}
	})
}
