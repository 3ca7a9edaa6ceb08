// envelope_test.go - Envelope stage progression tests

package fmsynth

import (
	"errors"
	"math"
	"testing"
)

// fixtureLevels is the envelope used by the board's ALSA test tool.
var fixtureLevels = EnvelopeLevels{
	Attack:     EnvelopeStage{Level: 0.6, PeriodMs: 100},
	DecayBreak: EnvelopeStage{Level: 0.3, PeriodMs: 300},
	Decay:      EnvelopeStage{Level: 0.1, PeriodMs: 500},
	Sustain:    EnvelopeStage{Level: 0, PeriodMs: 0},
	Release:    EnvelopeStage{Level: 0, PeriodMs: 70},
}

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func runEnvelope(e *envelope, n int) []float32 {
	gains := make([]float32, n)
	for i := range gains {
		gains[i] = e.operate()
	}
	return gains
}

func TestEnvelope_FixtureStageBoundaries(t *testing.T) {
	var e envelope
	e.reset(48000)
	e.levels = fixtureLevels
	e.noteOn()

	gains := runEnvelope(&e, 50000)

	tests := []struct {
		name   string
		sample int
		want   float32
	}{
		{"attack start", 0, 0},
		{"attack midpoint", 2400, 0.3},
		{"attack target at 100ms", 4800, 0.6},
		{"decay-break midpoint", 4800 + 7200, 0.45},
		{"decay-break target at 400ms", 19200, 0.3},
		{"decay midpoint", 19200 + 12000, 0.2},
		{"zero period sustain at 900ms", 43200, 0},
		{"sustain holds", 49999, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gains[tt.sample]; !approx(got, tt.want) {
				t.Errorf("gain[%d] = %f, want %f", tt.sample, got, tt.want)
			}
		})
	}

	if e.state != envSustain {
		t.Fatalf("state after 50000 samples = %s, want sustain", e.state)
	}
}

func TestEnvelope_StageEndsDoNotDrift(t *testing.T) {
	var e envelope
	e.reset(48900)
	e.levels = EnvelopeLevels{
		Attack:     EnvelopeStage{Level: 1, PeriodMs: 1},
		DecayBreak: EnvelopeStage{Level: 0.5, PeriodMs: 1},
		Decay:      EnvelopeStage{Level: 0.25, PeriodMs: 1},
		Sustain:    EnvelopeStage{Level: 0.25, PeriodMs: 0},
		Release:    EnvelopeStage{Level: 0, PeriodMs: 1},
	}
	e.noteOn()

	// 48.9 samples per stage: stage ends land on 48, 97 and 146.
	want := map[envState]int{envDecayBreak: 48, envDecay: 97, envSustain: 146}
	entered := map[envState]int{}
	for n := 1; n <= 200 && e.state != envSustain; n++ {
		e.operate()
		if _, ok := entered[e.state]; !ok {
			entered[e.state] = n
		}
	}
	for st, at := range want {
		if entered[st] != at {
			t.Errorf("%s entered after %d samples, want %d", st, entered[st], at)
		}
	}
}

func TestEnvelope_LinearRamp(t *testing.T) {
	var e envelope
	e.reset(48000)
	e.levels = fixtureLevels
	e.noteOn()

	gains := runEnvelope(&e, 4800)
	for i := 1; i < len(gains); i++ {
		if gains[i] <= gains[i-1] {
			t.Fatalf("attack not rising at sample %d: %f -> %f", i, gains[i-1], gains[i])
		}
		want := 0.6 * float32(i) / 4800
		if !approx(gains[i], want) {
			t.Fatalf("gain[%d] = %f, want %f", i, gains[i], want)
		}
	}
}

func TestEnvelope_ReleaseToIdle(t *testing.T) {
	var e envelope
	e.reset(48000)
	e.levels = fixtureLevels
	e.levels.Sustain = EnvelopeStage{Level: 0.5, PeriodMs: 10}
	e.noteOn()
	runEnvelope(&e, 48000)

	if e.state != envSustain || !approx(e.level, 0.5) {
		t.Fatalf("expected sustain at 0.5, got %s at %f", e.state, e.level)
	}

	e.noteOff()
	if e.state != envRelease {
		t.Fatalf("state after note-off = %s, want release", e.state)
	}
	gains := runEnvelope(&e, 3360)
	if !approx(gains[0], 0.5) {
		t.Errorf("release starts at %f, want 0.5", gains[0])
	}
	if !approx(gains[1680], 0.25) {
		t.Errorf("release midpoint = %f, want 0.25", gains[1680])
	}
	if e.state != envIdle {
		t.Fatalf("state after release = %s, want idle", e.state)
	}
	if g := e.operate(); g != 0 {
		t.Fatalf("idle gain = %f, want 0", g)
	}
}

func TestEnvelope_NoteOffIgnoredWhenIdle(t *testing.T) {
	var e envelope
	e.reset(48000)
	e.noteOff()
	if e.state != envIdle {
		t.Fatalf("state = %s, want idle", e.state)
	}
}

func TestEnvelope_IdentityIsFullGain(t *testing.T) {
	var e envelope
	e.reset(48000)
	if g := e.operate(); g != 0 {
		t.Fatalf("inactive identity envelope gain = %f, want 0", g)
	}
	e.noteOn()
	for i, g := range runEnvelope(&e, 16) {
		if g != 1 {
			t.Fatalf("identity gain[%d] = %f, want 1", i, g)
		}
	}
}

func TestEnvelope_RetriggerRestartsAttack(t *testing.T) {
	var e envelope
	e.reset(48000)
	e.levels = fixtureLevels
	e.noteOn()
	runEnvelope(&e, 10000)
	e.noteOn()
	if g := e.operate(); g != 0 {
		t.Fatalf("gain after retrigger = %f, want 0", g)
	}
}

func TestEnvelope_InFlightStageKeepsSnapshot(t *testing.T) {
	s, err := NewSynth(Config{})
	if err != nil {
		t.Fatal(err)
	}
	op, _ := s.NewOperator()
	if err := s.SetEnvelope(op, fixtureLevels); err != nil {
		t.Fatal(err)
	}
	s.noteOnChain(op.index)

	env := &s.ops[op.index].env
	runEnvelope(env, 2400)

	changed := fixtureLevels
	changed.Attack = EnvelopeStage{Level: 1, PeriodMs: 10}
	if err := s.SetEnvelope(op, changed); err != nil {
		t.Fatal(err)
	}
	gains := runEnvelope(env, 2401)
	if !approx(gains[2400], 0.6) {
		t.Errorf("attack reached %f, want the first 0.6 target", gains[2400])
	}
}

func TestSetEnvelope_RejectsNegativePeriod(t *testing.T) {
	s, _ := NewSynth(Config{})
	op, _ := s.NewOperator()

	bad := fixtureLevels
	bad.Decay.PeriodMs = -1
	if err := s.SetEnvelope(op, bad); !errors.Is(err, ErrInvalidEnvelope) {
		t.Fatalf("SetEnvelope(negative period) = %v, want ErrInvalidEnvelope", err)
	}

	odd := fixtureLevels
	odd.Attack.Level = 1.5
	if err := s.SetEnvelope(op, odd); err != nil {
		t.Fatalf("SetEnvelope(level 1.5) = %v, want nil", err)
	}
}
