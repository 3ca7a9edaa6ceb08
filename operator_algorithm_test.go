// operator_algorithm_test.go - Preset graph tests

package main

import (
	"errors"
	"testing"

	"github.com/intuitionamiga/IntuitionFM/fmsynth"
)

func TestBuildAlgorithm(t *testing.T) {
	sizes := []int{1, 2, 4}
	for mode, size := range sizes {
		s, err := fmsynth.NewSynth(fmsynth.Config{})
		if err != nil {
			t.Fatal(err)
		}
		root, err := buildAlgorithm(s, mode)
		if err != nil {
			t.Fatalf("mode %d: %v", mode, err)
		}
		tree, err := s.Tree(root)
		if err != nil {
			t.Fatal(err)
		}
		if len(tree) != size {
			t.Errorf("mode %d: %d operators, want %d", mode, len(tree), size)
		}

		snd, _ := s.NewSound()
		s.SetSoundFrequency(snd, 440)
		if err := s.SetSoundOperator(snd, root); err != nil {
			t.Fatal(err)
		}
		out := make([]int16, 4800)
		if _, err := s.Render(snd, out, 4800, 1, nil, 0); err != nil {
			t.Fatal(err)
		}
		silent := true
		for _, v := range out {
			if v != 0 {
				silent = false
				break
			}
		}
		if silent {
			t.Errorf("mode %d rendered silence", mode)
		}

		if err := s.DeleteSound(snd); err != nil {
			t.Fatal(err)
		}
		if err := deleteOperatorTree(s, root); err != nil {
			t.Fatal(err)
		}
		if n := s.NumOperators(); n != 0 {
			t.Errorf("mode %d: %d operators left after teardown", mode, n)
		}
	}
}

func TestBuildAlgorithm_Failures(t *testing.T) {
	s, err := fmsynth.NewSynth(fmsynth.Config{MaxOperators: 3})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := buildAlgorithm(s, numAlgorithms); err == nil {
		t.Error("unknown algorithm accepted")
	}
	if _, err := buildAlgorithm(s, 2); !errors.Is(err, fmsynth.ErrNoSpace) {
		t.Fatalf("four operators in a three slot arena = %v, want ErrNoSpace", err)
	}
	if n := s.NumOperators(); n != 0 {
		t.Errorf("failed build leaked %d operators", n)
	}
	if _, err := buildAlgorithm(s, 1); err != nil {
		t.Errorf("arena unusable after a failed build: %v", err)
	}
}
