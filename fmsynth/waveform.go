// waveform.go - Periodic operator functions

package fmsynth

import (
	"fmt"
	"math"
)

// Waveform selects the periodic function an operator evaluates.
type Waveform uint8

const (
	// WaveNone is the default of a new operator; it always outputs 0.
	WaveNone Waveform = iota
	WaveSine
	WaveTriangle
	WaveSawtooth
	WaveSquare

	waveCount
)

func (w Waveform) String() string {
	switch w {
	case WaveNone:
		return "none"
	case WaveSine:
		return "sine"
	case WaveTriangle:
		return "triangle"
	case WaveSawtooth:
		return "sawtooth"
	case WaveSquare:
		return "square"
	}
	return "invalid"
}

// ParseWaveform maps a waveform name back to its kind.
func ParseWaveform(name string) (Waveform, error) {
	for w := WaveNone; w < waveCount; w++ {
		if w.String() == name {
			return w, nil
		}
	}
	return WaveNone, fmt.Errorf("%w %q", ErrInvalidWaveform, name)
}

const (
	sinLUTSize = 8192
	sinLUTMask = sinLUTSize - 1
)

// sinLUT holds one sine cycle plus a guard entry for interpolation.
var sinLUT [sinLUTSize + 1]float32

func init() {
	for i := 0; i <= sinLUTSize; i++ {
		sinLUT[i] = float32(math.Sin(2 * math.Pi * float64(i) / sinLUTSize))
	}
}

// wrapPhase maps a phase in cycles to [0, 1).
func wrapPhase(p float64) float64 {
	return p - math.Floor(p)
}

func tableSine(p float64) float32 {
	idx := p * sinLUTSize
	i := int(idx)
	frac := float32(idx - float64(i))
	i &= sinLUTMask
	return sinLUT[i] + (sinLUT[i+1]-sinLUT[i])*frac
}

func triangle(p float64) float32 {
	switch {
	case p < 0.25:
		return float32(4 * p)
	case p < 0.75:
		return float32(2 - 4*p)
	}
	return float32(4*p - 4)
}

// eval evaluates w at phase p, measured in cycles.
func (w Waveform) eval(p float64) float32 {
	p = wrapPhase(p)
	switch w {
	case WaveSine:
		return tableSine(p)
	case WaveTriangle:
		return triangle(p)
	case WaveSawtooth:
		return float32(2*p - 1)
	case WaveSquare:
		if p < 0.5 {
			return 1
		}
		return -1
	}
	return 0
}
