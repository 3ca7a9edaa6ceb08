//go:build windows

// terminal_host_windows.go - Console key source for the keyboard player

package main

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

const keyQueueSize = 64

// TerminalHost reads the raw console on a goroutine and queues key presses.
// Console reads block, so Stop cannot interrupt a pending read; the reader
// exits with the process.
type TerminalHost struct {
	fd    int
	saved *term.State

	keys chan byte
	quit chan struct{}
	once sync.Once
}

func NewTerminalHost() *TerminalHost {
	return &TerminalHost{
		keys: make(chan byte, keyQueueSize),
		quit: make(chan struct{}),
	}
}

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

func (th *TerminalHost) readLoop() {
	var buf [16]byte
	for {
		n, err := os.Stdin.Read(buf[:])
		for _, k := range buf[:n] {
			select {
			case th.keys <- k:
			case <-th.quit:
				return
			default:
			}
		}
		if err != nil {
			select {
			case th.keys <- keyQuitEOF:
			case <-th.quit:
			}
			return
		}
	}
}

func (th *TerminalHost) PollKey() (byte, bool) {
	select {
	case k := <-th.keys:
		return k, true
	default:
		return 0, false
	}
}

func (th *TerminalHost) Stop() {
	th.once.Do(func() {
		close(th.quit)
		if th.saved != nil {
			term.Restore(th.fd, th.saved)
		}
	})
}
