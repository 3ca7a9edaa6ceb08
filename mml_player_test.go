// mml_player_test.go - Two-hand playback and score loading tests

package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/intuitionamiga/IntuitionFM/fmsynth"
	"github.com/intuitionamiga/IntuitionFM/mml"
)

// At 8 kHz and 120 BPM a quarter note lasts 4000 frames.
const testQuarter = 4000

func sineBuilder(s *fmsynth.Synth) (fmsynth.Operator, error) {
	return buildAlgorithm(s, 0)
}

func playScore(t *testing.T, score mml.Score) (string, *captureSink, error) {
	t.Helper()
	s, err := fmsynth.NewSynth(fmsynth.Config{SampleRate: 8000})
	if err != nil {
		t.Fatal(err)
	}
	sink := &captureSink{ch: 2}
	out := &bytes.Buffer{}
	mp, err := newMMLPlayer(s, score, sineBuilder, sink, out, 480, 2)
	if err != nil {
		t.Fatal(err)
	}
	if n := s.NumOperators(); n != rightHandVoices+leftHandVoices {
		t.Errorf("%d operators for %d voices", n, rightHandVoices+leftHandVoices)
	}
	err = mp.run()
	mp.close()
	if n := s.NumOperators(); n != 0 {
		t.Errorf("%d operators left after close", n)
	}
	return out.String(), sink, err
}

func TestMMLPlayer_EventLog(t *testing.T) {
	out, sink, err := playScore(t, mml.Score{Right: "T120 L4 C D", Left: "T120 L2 C"})
	if err != nil {
		t.Fatal(err)
	}
	want := "R: O4C : 4000\n" +
		"L: O3C : 8000\n" +
		"R: O4D : 4000\n"
	if out != want {
		t.Errorf("event log:\n%s\nwant:\n%s", out, want)
	}
	if sink.frames != 2*testQuarter {
		t.Errorf("rendered %d frames, want %d", sink.frames, 2*testQuarter)
	}
	if sink.peak() == 0 {
		t.Error("score rendered silence")
	}
}

func TestMMLPlayer_LongerHandSetsLength(t *testing.T) {
	_, sink, err := playScore(t, mml.Score{Right: "C1 C", Left: "C"})
	if err != nil {
		t.Fatal(err)
	}
	if sink.frames != 5*testQuarter {
		t.Errorf("rendered %d frames, want %d", sink.frames, 5*testQuarter)
	}
	for i, w := range sink.writes[:len(sink.writes)-1] {
		if len(w) != 480*2 {
			t.Fatalf("block %d has %d samples, only the last may be short", i, len(w))
		}
	}
}

func TestMMLPlayer_ChordsAndRests(t *testing.T) {
	out, _, err := playScore(t, mml.Score{Right: "[CEG] R8 V50 {C D E}4"})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	want := []string{
		"R: [O4C, O4E, O4G] : 4000",
		"R: Rest : 2000",
		"R: O4C : 1333",
		"R: O4D : 1333",
		"R: O4E : 1334",
	}
	if len(lines) != len(want) {
		t.Fatalf("event log %q", out)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestMMLPlayer_SyntaxError(t *testing.T) {
	_, _, err := playScore(t, mml.Score{Right: "C D3", Left: "C"})
	if !errors.Is(err, mml.ErrNote) {
		t.Fatalf("run = %v, want ErrNote", err)
	}
	if !strings.HasPrefix(err.Error(), "R: ") {
		t.Errorf("error %q does not name the hand", err)
	}
}

func TestMMLPlayer_EmptyScore(t *testing.T) {
	out, sink, err := playScore(t, mml.Score{})
	if err != nil || out != "" || len(sink.writes) != 0 {
		t.Fatalf("empty score: out=%q writes=%d err=%v", out, len(sink.writes), err)
	}
}

func TestMMLPlayer_BuiltinScoreParses(t *testing.T) {
	for _, part := range []string{builtinScore.Right, builtinScore.Left} {
		p := mml.NewParser(part, mml.Config{Octave: 3})
		for {
			r, err := p.Next()
			if err != nil {
				t.Fatalf("builtin score: %v", err)
			}
			if r.Kind == mml.KindEOF {
				break
			}
		}
	}
}

func TestLoadScoreFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.txt")
	if err := os.WriteFile(path, []byte("R: C D\nL: C2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	score, err := loadScoreFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out, sink, err := playScore(t, score)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "L: O3C : 8000") || sink.frames != 2*testQuarter {
		t.Errorf("score file played %d frames:\n%s", sink.frames, out)
	}

	if err := os.WriteFile(path, []byte("C D\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadScoreFile(path); err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("bad score error = %v, want the file path", err)
	}
}
