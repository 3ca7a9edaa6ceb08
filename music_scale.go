// music_scale.go - Equal temperament note table and keyboard note keys

package main

import (
	"math"

	"github.com/intuitionamiga/IntuitionFM/mml"
)

const (
	scaleOctaves  = 9
	noteA4        = 4*12 + 9
	concertPitchA = 440.0
)

// musicalScale maps a note index (octave*12 + semitone) to Hz, C0 upward.
var musicalScale [scaleOctaves * 12]float64

func init() {
	for i := range musicalScale {
		musicalScale[i] = concertPitchA * math.Pow(2, float64(i-noteA4)/12)
	}
}

// noteFrequency returns the frequency of a note index, clamping indexes
// outside the table to its ends.
func noteFrequency(idx int) float64 {
	if idx < 0 {
		idx = 0
	}
	if idx >= len(musicalScale) {
		idx = len(musicalScale) - 1
	}
	return musicalScale[idx]
}

// keyNote maps the natural-note keys a-g to octave 4.
var keyNote = map[byte]int{
	'c': 4*12 + 0,
	'd': 4*12 + 2,
	'e': 4*12 + 4,
	'f': 4*12 + 5,
	'g': 4*12 + 7,
	'a': 4*12 + 9,
	'b': 4*12 + 11,
}

// noteForKey reports the note index of a keyboard key. Upper case letters
// play the same note.
func noteForKey(key byte) (int, bool) {
	if key >= 'A' && key <= 'Z' {
		key += 'a' - 'A'
	}
	idx, ok := keyNote[key]
	return idx, ok
}

func noteName(idx int) string {
	return mml.NoteName(idx)
}
