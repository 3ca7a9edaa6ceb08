// waveform_test.go - Waveform shape and phase wrap tests

package fmsynth

import (
	"math"
	"testing"
)

func TestWaveform_Shapes(t *testing.T) {
	tests := []struct {
		wave  Waveform
		phase float64
		want  float32
	}{
		{WaveNone, 0.25, 0},
		{WaveSine, 0, 0},
		{WaveSine, 0.25, 1},
		{WaveSine, 0.5, 0},
		{WaveSine, 0.75, -1},
		{WaveTriangle, 0, 0},
		{WaveTriangle, 0.125, 0.5},
		{WaveTriangle, 0.25, 1},
		{WaveTriangle, 0.5, 0},
		{WaveTriangle, 0.75, -1},
		{WaveSawtooth, 0, -1},
		{WaveSawtooth, 0.5, 0},
		{WaveSawtooth, 0.75, 0.5},
		{WaveSquare, 0.25, 1},
		{WaveSquare, 0.5, -1},
		{WaveSquare, 0.99, -1},
	}
	for _, tt := range tests {
		t.Run(tt.wave.String(), func(t *testing.T) {
			got := tt.wave.eval(tt.phase)
			if math.Abs(float64(got-tt.want)) > 1e-4 {
				t.Errorf("%s(%.3f) = %f, want %f", tt.wave, tt.phase, got, tt.want)
			}
		})
	}
}

func TestWaveform_SineMatchesMath(t *testing.T) {
	for i := 0; i < 1000; i++ {
		p := float64(i) / 997
		want := math.Sin(2 * math.Pi * p)
		got := float64(WaveSine.eval(p))
		if math.Abs(got-want) > 1e-4 {
			t.Fatalf("sine(%f) = %f, want %f", p, got, want)
		}
	}
}

func TestWaveform_PhaseWrap(t *testing.T) {
	phases := []float64{0, 0.1, 0.25, 0.3333, 0.5, 0.7, 0.875, 0.999}
	for w := WaveNone; w < waveCount; w++ {
		for _, p := range phases {
			a := w.eval(p)
			for _, shift := range []float64{1, 2, -1} {
				b := w.eval(p + shift)
				if math.Abs(float64(a-b)) > 1e-5 {
					t.Errorf("%s: eval(%f) = %f but eval(%f) = %f", w, p, a, p+shift, b)
				}
			}
		}
	}
}

func TestParseWaveform(t *testing.T) {
	for w := WaveNone; w < waveCount; w++ {
		got, err := ParseWaveform(w.String())
		if err != nil || got != w {
			t.Errorf("ParseWaveform(%q) = %v, %v", w.String(), got, err)
		}
	}
	if _, err := ParseWaveform("noise"); err == nil {
		t.Error("ParseWaveform accepted an unknown name")
	}
}
