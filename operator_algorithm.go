// operator_algorithm.go - Preset operator graphs for the players

package main

import (
	"fmt"

	"github.com/intuitionamiga/IntuitionFM/fmsynth"
)

const numAlgorithms = 3

// carrierEnvelope is the board test tool's envelope: a 100ms attack to 0.6,
// two decays and a 70ms release.
var carrierEnvelope = fmsynth.EnvelopeLevels{
	Attack:     fmsynth.EnvelopeStage{Level: 0.6, PeriodMs: 100},
	DecayBreak: fmsynth.EnvelopeStage{Level: 0.3, PeriodMs: 300},
	Decay:      fmsynth.EnvelopeStage{Level: 0.1, PeriodMs: 500},
	Sustain:    fmsynth.EnvelopeStage{Level: 0, PeriodMs: 0},
	Release:    fmsynth.EnvelopeStage{Level: 0, PeriodMs: 70},
}

var modulatorEnvelope = fmsynth.EnvelopeLevels{
	Attack:     fmsynth.EnvelopeStage{Level: 1, PeriodMs: 10},
	DecayBreak: fmsynth.EnvelopeStage{Level: 0.6, PeriodMs: 200},
	Decay:      fmsynth.EnvelopeStage{Level: 0.4, PeriodMs: 400},
	Sustain:    fmsynth.EnvelopeStage{Level: 0.4, PeriodMs: 0},
	Release:    fmsynth.EnvelopeStage{Level: 0, PeriodMs: 70},
}

type opSpec struct {
	wave     fmsynth.Waveform
	ratio    float64
	env      fmsynth.EnvelopeLevels
	feedback float32
}

func newConfiguredOperator(s *fmsynth.Synth, spec opSpec) (fmsynth.Operator, error) {
	op, err := s.NewOperator()
	if err != nil {
		return op, err
	}
	if err = s.SelectWaveform(op, spec.wave); err == nil {
		err = s.SetFrequencyRatio(op, spec.ratio)
	}
	if err == nil {
		err = s.SetEnvelope(op, spec.env)
	}
	if err == nil && spec.feedback != 0 {
		err = s.BindFeedback(op, op, spec.feedback)
	}
	if err != nil {
		s.DeleteOperator(op)
		return fmsynth.Operator{}, err
	}
	return op, nil
}

// buildAlgorithm creates one of the preset graphs and returns its root.
//
//	0: sine carrier with self feedback
//	1: modulator -> carrier
//	2: (modulator with feedback + modulator) -> carrier, plus a parallel
//	   carrier one octave down
func buildAlgorithm(s *fmsynth.Synth, mode int) (root fmsynth.Operator, err error) {
	var built []fmsynth.Operator
	add := func(spec opSpec) fmsynth.Operator {
		if err != nil {
			return fmsynth.Operator{}
		}
		var op fmsynth.Operator
		op, err = newConfiguredOperator(s, spec)
		if err == nil {
			built = append(built, op)
		}
		return op
	}
	link := func(fn func(a, b fmsynth.Operator) error, a, b fmsynth.Operator) {
		if err == nil {
			err = fn(a, b)
		}
	}
	defer func() {
		if err != nil {
			for _, op := range built {
				s.DeleteOperator(op)
			}
			root = fmsynth.Operator{}
		}
	}()

	switch mode {
	case 0:
		root = add(opSpec{wave: fmsynth.WaveSine, ratio: 1, env: carrierEnvelope, feedback: 0.6})
	case 1:
		root = add(opSpec{wave: fmsynth.WaveSine, ratio: 1, env: carrierEnvelope})
		mod := add(opSpec{wave: fmsynth.WaveSine, ratio: 2, env: modulatorEnvelope})
		link(s.Cascade, root, mod)
	case 2:
		root = add(opSpec{wave: fmsynth.WaveSine, ratio: 1, env: carrierEnvelope})
		m1 := add(opSpec{wave: fmsynth.WaveSine, ratio: 3, env: modulatorEnvelope, feedback: 0.4})
		m2 := add(opSpec{wave: fmsynth.WaveTriangle, ratio: 1, env: modulatorEnvelope})
		sub := add(opSpec{wave: fmsynth.WaveSine, ratio: 0.5, env: carrierEnvelope})
		link(s.Cascade, root, m1)
		link(s.ParallelCombine, m1, m2)
		link(s.ParallelCombine, root, sub)
	default:
		return fmsynth.Operator{}, fmt.Errorf("unknown algorithm %d (have 0-%d)", mode, numAlgorithms-1)
	}
	return root, err
}

// deleteOperatorTree releases root and everything linked below it.
func deleteOperatorTree(s *fmsynth.Synth, root fmsynth.Operator) error {
	ops, err := s.Tree(root)
	if err != nil {
		return err
	}
	for _, op := range ops {
		if err := s.DeleteOperator(op); err != nil {
			return err
		}
	}
	return nil
}
