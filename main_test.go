// main_test.go - Command line option tests

package main

import (
	"errors"
	"flag"
	"strings"
	"testing"

	"github.com/intuitionamiga/IntuitionFM/fmsynth"
)

func TestParseOptions_Defaults(t *testing.T) {
	opts, err := parseOptions(nil)
	if err != nil {
		t.Fatal(err)
	}
	if opts.algorithm != 0 || opts.block != 480 || opts.sampleRate != 48000 || opts.channels != 2 {
		t.Errorf("defaults = %+v", opts)
	}
	if opts.backend != defaultAudioBackend || opts.volume != 1 {
		t.Errorf("backend %q volume %g", opts.backend, opts.volume)
	}
	if opts.playMML || opts.gui {
		t.Error("player mode selected by default")
	}
}

func TestParseOptions(t *testing.T) {
	tests := []struct {
		args    []string
		wantErr string
		check   func(appOptions) bool
	}{
		{args: []string{"-m", "2", "-block", "256"}, check: func(o appOptions) bool { return o.algorithm == 2 && o.block == 256 }},
		{args: []string{"-score", "song.txt"}, check: func(o appOptions) bool { return o.playMML && o.scorePath == "song.txt" }},
		{args: []string{"-m", "7", "-patch", "voice.lua"}, check: func(o appOptions) bool { return o.patchPath == "voice.lua" }},
		{args: []string{"-o", "out.wav", "-channels", "1"}, check: func(o appOptions) bool { return o.wavPath == "out.wav" && o.channels == 1 }},
		{args: []string{"-m", "3"}, wantErr: "-m must be"},
		{args: []string{"-m", "-1"}, wantErr: "-m must be"},
		{args: []string{"-block", "0"}, wantErr: "-block"},
		{args: []string{"-rate", "-8000"}, wantErr: "-rate"},
		{args: []string{"-channels", "9"}, wantErr: "-channels"},
		{args: []string{"-v", "-1"}, wantErr: "-v"},
		{args: []string{"-gui", "-mml"}, wantErr: "exclusive"},
		{args: []string{"-gui", "-o", "x.wav"}, wantErr: "-o"},
		{args: []string{"-gui", "-channels", "1"}, wantErr: "channels"},
		{args: []string{"stray"}, wantErr: "unexpected argument"},
		{args: []string{"-bogus"}, wantErr: "bogus"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			opts, err := parseOptions(tt.args)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("error = %v, want it to mention %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if !tt.check(opts) {
				t.Errorf("options = %+v", opts)
			}
		})
	}
}

func TestParseOptions_Help(t *testing.T) {
	if _, err := parseOptions([]string{"-h"}); !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("-h = %v, want flag.ErrHelp", err)
	}
}

func TestVoiceBuilder(t *testing.T) {
	s, err := fmsynth.NewSynth(fmsynth.Config{})
	if err != nil {
		t.Fatal(err)
	}
	opts := appOptions{algorithm: 1}
	root, err := opts.voiceBuilder()(s)
	if err != nil {
		t.Fatal(err)
	}
	if tree, _ := s.Tree(root); len(tree) != 2 {
		t.Errorf("algorithm 1 built %d operators", len(tree))
	}

	opts = appOptions{patchPath: "does-not-exist.lua"}
	if _, err := opts.voiceBuilder()(s); err == nil || !strings.Contains(err.Error(), "does-not-exist.lua") {
		t.Errorf("missing patch error = %v", err)
	}
}
