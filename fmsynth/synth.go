// synth.go - FM operator arena and sample-rate context

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionFM
License: GPLv3 or later
*/

// Package fmsynth renders FM synthesis voices built from operator graphs.
//
// Operators live in a fixed arena owned by a Synth and are addressed through
// Operator handles. Each operator is an oscillator with an envelope, a
// frequency ratio, an optional feedback source and links to other operators:
// a modulator chain (summed into its phase) and a parallel chain (summed into
// its output). A Sound binds a root operator to a base frequency.
//
// A Synth is not safe for concurrent use. Render must not run while another
// goroutine reconfigures the graph.
package fmsynth

import (
	"errors"
	"fmt"
)

const (
	DefaultSampleRate   = 48000
	DefaultMaxOperators = 64
	DefaultMaxSounds    = 16
)

const nilOp = int32(-1)

var (
	ErrNoSpace         = errors.New("fmsynth: no free slot")
	ErrStaleOperator   = errors.New("fmsynth: stale operator handle")
	ErrStaleSound      = errors.New("fmsynth: sound deleted or foreign")
	ErrInvalidWaveform = errors.New("fmsynth: invalid waveform")
	ErrInvalidEnvelope = errors.New("fmsynth: invalid envelope")
	ErrAlreadyLinked   = errors.New("fmsynth: operator already linked")
	ErrCycle           = errors.New("fmsynth: link would create a cycle")
	ErrInvalidBuffer   = errors.New("fmsynth: invalid render buffer")
)

// Config configures a Synth.
//
// A zero value for any field selects its default.
type Config struct {
	// SampleRate is the output rate in Hz. Default is 48000.
	SampleRate int

	// MaxOperators bounds the operator arena. Default is 64.
	MaxOperators int

	// MaxSounds bounds the number of live sounds. Default is 16.
	MaxSounds int
}

func (c *Config) applyDefaults() error {
	if c.SampleRate < 0 || c.MaxOperators < 0 || c.MaxSounds < 0 {
		return fmt.Errorf("fmsynth: negative config value (rate=%d ops=%d sounds=%d)",
			c.SampleRate, c.MaxOperators, c.MaxSounds)
	}
	if c.SampleRate == 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.MaxOperators == 0 {
		c.MaxOperators = DefaultMaxOperators
	}
	if c.MaxSounds == 0 {
		c.MaxSounds = DefaultMaxSounds
	}
	return nil
}

// Synth owns the operator arena, the live sounds and the sample rate they
// render at.
type Synth struct {
	sampleRate int
	fs         float64

	ops  []operator
	free []int32

	sounds    []*Sound
	maxSounds int
}

// NewSynth allocates a synth with every operator slot preallocated,
// so that rendering never allocates.
func NewSynth(config Config) (*Synth, error) {
	if err := config.applyDefaults(); err != nil {
		return nil, err
	}

	s := &Synth{
		sampleRate: config.SampleRate,
		fs:         float64(config.SampleRate),
		ops:        make([]operator, config.MaxOperators),
		free:       make([]int32, 0, config.MaxOperators),
		sounds:     make([]*Sound, 0, config.MaxSounds),
		maxSounds:  config.MaxSounds,
	}
	// Pop order hands out slot 0 first.
	for i := config.MaxOperators - 1; i >= 0; i-- {
		s.ops[i].gen = 1
		s.free = append(s.free, int32(i))
	}
	return s, nil
}

func (s *Synth) SampleRate() int { return s.sampleRate }

// NumOperators reports how many operator slots are in use.
func (s *Synth) NumOperators() int {
	return len(s.ops) - len(s.free)
}
