// keyboard_player.go - Interactive single-voice keyboard loop

package main

import (
	"fmt"
	"io"

	"github.com/intuitionamiga/IntuitionFM/fmsynth"
)

const (
	keyQuit     = 'q'
	keyDump     = 'z'
	keyCtrlC    = 0x03
	keyQuitEOF  = 0x04 // Ctrl-D, also queued by the terminal host on EOF
	keyEscape   = 0x1b
	defaultKeys = "a-g play O4 notes, z dumps the next block, q quits"
)

// keySource yields key presses without blocking.
type keySource interface {
	PollKey() (byte, bool)
}

// keyboardPlayer renders one sound block by block, retuning it from key
// presses between blocks. Everything runs on the caller's goroutine.
type keyboardPlayer struct {
	synth    *fmsynth.Synth
	sound    *fmsynth.Sound
	sink     AudioSink
	keys     keySource
	out      io.Writer
	eol      string
	frames   int
	channels int

	block     []int16
	dumpArmed bool
	quit      bool
}

func newKeyboardPlayer(s *fmsynth.Synth, snd *fmsynth.Sound, sink AudioSink, keys keySource, out io.Writer, frames, channels int) *keyboardPlayer {
	return &keyboardPlayer{
		synth:    s,
		sound:    snd,
		sink:     sink,
		keys:     keys,
		out:      out,
		eol:      "\n",
		frames:   frames,
		channels: channels,
		block:    make([]int16, frames*channels),
	}
}

// handleKey applies one key press.
func (kp *keyboardPlayer) handleKey(k byte) error {
	switch k {
	case keyQuit, 'Q', keyCtrlC, keyQuitEOF, keyEscape:
		kp.quit = true
		return nil
	case keyDump, 'Z':
		kp.dumpArmed = true
		return nil
	}

	idx, ok := noteForKey(k)
	if !ok {
		return nil
	}
	if err := kp.synth.SetSoundFrequency(kp.sound, noteFrequency(idx)); err != nil {
		return err
	}
	if err := kp.synth.NoteOn(kp.sound); err != nil {
		return err
	}
	fmt.Fprintf(kp.out, "%s%s", noteName(idx), kp.eol)
	return nil
}

// step drains pending keys, then renders and writes one block. It reports
// false once a quit key was seen.
func (kp *keyboardPlayer) step() (bool, error) {
	for {
		k, ok := kp.keys.PollKey()
		if !ok {
			break
		}
		if err := kp.handleKey(k); err != nil {
			return false, err
		}
		if kp.quit {
			return false, nil
		}
	}

	if _, err := kp.synth.Render(kp.sound, kp.block, kp.frames, kp.channels, nil, 0); err != nil {
		return false, err
	}
	if kp.dumpArmed {
		kp.dumpArmed = false
		if err := writeSampleDump(kp.out, kp.block, kp.channels, kp.eol); err != nil {
			return false, err
		}
	}
	if err := kp.sink.Write(kp.block); err != nil {
		return false, fmt.Errorf("audio write: %w", err)
	}
	return true, nil
}

func (kp *keyboardPlayer) run() error {
	fmt.Fprintf(kp.out, "%s%s", defaultKeys, kp.eol)
	for {
		more, err := kp.step()
		if err != nil || !more {
			return err
		}
	}
}
