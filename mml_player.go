// mml_player.go - Two-hand MML playback

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/intuitionamiga/IntuitionFM/fmsynth"
	"github.com/intuitionamiga/IntuitionFM/mml"
)

const (
	// carrierLevel keeps four voices summed below full scale.
	carrierLevel = 0.25

	rightHandVoices = 2
	leftHandVoices  = 1
)

// voiceBuilder creates one operator tree and returns its root.
type voiceBuilder func(s *fmsynth.Synth) (fmsynth.Operator, error)

// mmlHand plays one MML part on a fixed set of voices. The first voice takes
// single notes; chords spread over as many voices as the hand has.
type mmlHand struct {
	name   string
	parser *mml.Parser
	voices []*fmsynth.Sound
	level  float32
	remain int
	done   bool
}

type mmlPlayer struct {
	synth    *fmsynth.Synth
	hands    [2]*mmlHand
	head     *fmsynth.Sound
	sink     AudioSink
	out      io.Writer
	frames   int
	channels int
	block    []int16
}

func newMMLPlayer(s *fmsynth.Synth, score mml.Score, build voiceBuilder, sink AudioSink, out io.Writer, frames, channels int) (*mmlPlayer, error) {
	mp := &mmlPlayer{
		synth:    s,
		sink:     sink,
		out:      out,
		frames:   frames,
		channels: channels,
		block:    make([]int16, frames*channels),
	}
	right := &mmlHand{
		name:   "R",
		parser: mml.NewParser(score.Right, mml.Config{SampleRate: s.SampleRate()}),
		level:  carrierLevel,
	}
	left := &mmlHand{
		name:   "L",
		parser: mml.NewParser(score.Left, mml.Config{SampleRate: s.SampleRate(), Octave: 3, Length: 4}),
		level:  carrierLevel,
	}
	mp.hands = [2]*mmlHand{right, left}

	for _, h := range []struct {
		hand *mmlHand
		n    int
	}{{right, rightHandVoices}, {left, leftHandVoices}} {
		for i := 0; i < h.n; i++ {
			snd, err := mp.newVoice(build)
			if err != nil {
				return nil, fmt.Errorf("%s voice %d: %w", h.hand.name, i, err)
			}
			h.hand.voices = append(h.hand.voices, snd)
		}
	}
	return mp, nil
}

// newVoice builds a silent sound and chains it onto the rendered list.
func (mp *mmlPlayer) newVoice(build voiceBuilder) (*fmsynth.Sound, error) {
	root, err := build(mp.synth)
	if err != nil {
		return nil, err
	}
	snd, err := mp.synth.NewSound()
	if err != nil {
		return nil, err
	}
	if err := mp.synth.SetSoundOperator(snd, root); err != nil {
		return nil, err
	}
	if err := mp.synth.SetSoundVolume(snd, 0); err != nil {
		return nil, err
	}
	if mp.head == nil {
		mp.head = snd
	} else if err := mp.synth.AddSubsound(mp.head, snd); err != nil {
		return nil, err
	}
	return snd, nil
}

// play sounds notes on the hand's voices and silences the rest.
func (mp *mmlPlayer) play(h *mmlHand, notes []int) error {
	for i, snd := range h.voices {
		if i >= len(notes) {
			if err := mp.synth.SetSoundVolume(snd, 0); err != nil {
				return err
			}
			continue
		}
		if err := mp.synth.SetSoundFrequency(snd, noteFrequency(notes[i])); err != nil {
			return err
		}
		if err := mp.synth.SetSoundVolume(snd, h.level); err != nil {
			return err
		}
		if err := mp.synth.NoteOn(snd); err != nil {
			return err
		}
	}
	return nil
}

// advance reads events from the hand's part until one of them takes time.
// Settings such as tempo and octave are tracked by the parser itself.
func (mp *mmlPlayer) advance(h *mmlHand) error {
	for h.remain == 0 && !h.done {
		r, err := h.parser.Next()
		if err != nil {
			return fmt.Errorf("%s: %w", h.name, err)
		}
		switch r.Kind {
		case mml.KindEOF:
			h.done = true
			return mp.play(h, nil)
		case mml.KindNote:
			fmt.Fprintf(mp.out, "%s: %s : %d\n", h.name, noteName(r.Notes[0]), r.Length)
			err = mp.play(h, r.Notes[:1])
		case mml.KindChord:
			names := make([]string, r.NumNotes)
			for i := range names {
				names[i] = noteName(r.Notes[i])
			}
			fmt.Fprintf(mp.out, "%s: [%s] : %d\n", h.name, strings.Join(names, ", "), r.Length)
			err = mp.play(h, r.Notes[:r.NumNotes])
		case mml.KindRest:
			fmt.Fprintf(mp.out, "%s: Rest : %d\n", h.name, r.Length)
			err = mp.play(h, nil)
		case mml.KindVolume:
			h.level = carrierLevel * float32(r.Length) / 100
			continue
		default:
			continue
		}
		if err != nil {
			return err
		}
		h.remain = r.Length
	}
	return nil
}

// fill renders up to one block, switching notes at event boundaries. It
// returns the number of frames rendered; zero means both parts ended.
func (mp *mmlPlayer) fill() (int, error) {
	pos := 0
	for pos < mp.frames {
		n := mp.frames - pos
		active := false
		for _, h := range mp.hands {
			if err := mp.advance(h); err != nil {
				return pos, err
			}
			if h.done {
				continue
			}
			active = true
			if h.remain < n {
				n = h.remain
			}
		}
		if !active {
			break
		}
		if _, err := mp.synth.Render(mp.head, mp.block[pos*mp.channels:], n, mp.channels, nil, 0); err != nil {
			return pos, err
		}
		for _, h := range mp.hands {
			if !h.done {
				h.remain -= n
			}
		}
		pos += n
	}
	return pos, nil
}

func (mp *mmlPlayer) run() error {
	for {
		n, err := mp.fill()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil
		}
		if err := mp.sink.Write(mp.block[:n*mp.channels]); err != nil {
			return fmt.Errorf("audio write: %w", err)
		}
	}
}

// close releases every voice and its operators.
func (mp *mmlPlayer) close() {
	for _, h := range mp.hands {
		for _, snd := range h.voices {
			root := snd.Root()
			mp.synth.DeleteSound(snd)
			if !root.IsZero() {
				deleteOperatorTree(mp.synth, root)
			}
		}
	}
}
