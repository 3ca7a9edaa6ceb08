// synth_stream.go - Pull-model PCM stream over one sound

package main

import (
	"encoding/binary"
	"io"
	"sync"

	"github.com/intuitionamiga/IntuitionFM/fmsynth"
)

const (
	streamChannels    = 2
	streamChunkFrames = 256
	noNote            = -1
)

// synthStream renders a sound on demand as 16-bit little-endian stereo.
// Audio players read it from their own goroutine; note changes and dump
// requests from the UI goroutine are queued and applied between chunks, so
// the synth is only ever touched inside Read.
type synthStream struct {
	mu    sync.Mutex
	synth *fmsynth.Synth
	sound *fmsynth.Sound
	chunk []int16

	pending   int
	current   int
	dumpArmed bool
	dump      []int16
	scope     []int16
}

func newSynthStream(s *fmsynth.Synth, snd *fmsynth.Sound) *synthStream {
	return &synthStream{
		synth:   s,
		sound:   snd,
		chunk:   make([]int16, streamChunkFrames*streamChannels),
		pending: noNote,
		current: noNote,
		scope:   make([]int16, 0, streamChunkFrames*streamChannels),
	}
}

// playNote queues a note to start on the next chunk.
func (ss *synthStream) playNote(idx int) {
	ss.mu.Lock()
	ss.pending = idx
	ss.mu.Unlock()
}

// armDump asks for the next rendered chunk to be kept for takeDump.
func (ss *synthStream) armDump() {
	ss.mu.Lock()
	ss.dumpArmed = true
	ss.mu.Unlock()
}

func (ss *synthStream) takeDump() ([]int16, bool) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	d := ss.dump
	ss.dump = nil
	return d, d != nil
}

// currentNote returns the most recently started note or noNote.
func (ss *synthStream) currentNote() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.current
}

// scopeSnapshot copies the last rendered chunk into dst. A short final
// chunk yields a short snapshot.
func (ss *synthStream) scopeSnapshot(dst []int16) []int16 {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return append(dst[:0], ss.scope...)
}

func (ss *synthStream) Read(p []byte) (int, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	const frameBytes = 2 * streamChannels
	if len(p) > 0 && len(p) < frameBytes {
		return 0, io.ErrShortBuffer
	}
	frames := len(p) / frameBytes
	written := 0
	for frames > 0 {
		if ss.pending != noNote {
			if err := ss.synth.SetSoundFrequency(ss.sound, noteFrequency(ss.pending)); err != nil {
				return written, err
			}
			if err := ss.synth.NoteOn(ss.sound); err != nil {
				return written, err
			}
			ss.current = ss.pending
			ss.pending = noNote
		}

		n := min(frames, streamChunkFrames)
		if _, err := ss.synth.Render(ss.sound, ss.chunk, n, streamChannels, nil, 0); err != nil {
			return written, err
		}
		block := ss.chunk[:n*streamChannels]
		for i, v := range block {
			binary.LittleEndian.PutUint16(p[written+2*i:], uint16(v))
		}
		ss.scope = append(ss.scope[:0], block...)
		if ss.dumpArmed {
			ss.dumpArmed = false
			ss.dump = append([]int16(nil), block...)
		}
		written += n * frameBytes
		frames -= n
	}
	return written, nil
}
