// patch_lua_test.go - Lua patch loader tests

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/intuitionamiga/IntuitionFM/fmsynth"
)

const twoOpPatch = `
local fm = require("fm")
local car = fm.operator()
local mod = fm.operator("triangle")
fm.ratio(mod, 2)
fm.feedback(mod, mod, 0.3)
fm.envelope(car, {sustain = {0.5, 0}})
fm.cascade(car, mod)
local sub = fm.operator("square")
fm.parallel(car, sub)
return car
`

func TestLoadPatch_BuildsGraph(t *testing.T) {
	s, err := fmsynth.NewSynth(fmsynth.Config{})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "voice.lua")
	if err := os.WriteFile(path, []byte(twoOpPatch), 0o644); err != nil {
		t.Fatal(err)
	}
	root, err := loadPatch(s, path)
	if err != nil {
		t.Fatal(err)
	}
	tree, err := s.Tree(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(tree) != 3 {
		t.Fatalf("patch built %d reachable operators, want 3", len(tree))
	}

	snd, _ := s.NewSound()
	if err := s.SetSoundOperator(snd, root); err != nil {
		t.Fatal(err)
	}
	if g, _ := s.EnvelopeGain(root); g != 0.5 {
		t.Errorf("sustain gain = %f, want 0.5", g)
	}
	if st, _ := s.EnvelopeStageName(root); st != "sustain" {
		t.Errorf("stage = %q, want sustain", st)
	}
}

func TestLoadPatch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"syntax", "local = 1", "patch syntax"},
		{"no result", `require("fm").operator()`, "returned nothing"},
		{"wrong result", "return 42", "returned number"},
		{"bad waveform", `return require("fm").operator("noise")`, "noise"},
		{"bad operator arg", `require("fm").ratio(1, 2)`, "userdata expected"},
		{"cycle", `local fm = require("fm")
			local a = fm.operator()
			fm.cascade(a, a)
			return a`, fmsynth.ErrCycle.Error()},
		{"bad envelope", `local fm = require("fm")
			local a = fm.operator()
			fm.envelope(a, {attack = {1, -5}})
			return a`, fmsynth.ErrInvalidEnvelope.Error()},
		{"bad stage", `local fm = require("fm")
			local a = fm.operator()
			fm.envelope(a, {decay = 3})
			return a`, "decay must be {level, ms}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := fmsynth.NewSynth(fmsynth.Config{})
			if err != nil {
				t.Fatal(err)
			}
			_, err = loadPatchString(s, tt.name, tt.source)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want it to mention %q", err, tt.want)
			}
			if n := s.NumOperators(); n != 0 {
				t.Errorf("failed patch left %d operators", n)
			}
		})
	}
}

func TestLoadPatch_MissingFile(t *testing.T) {
	s, _ := fmsynth.NewSynth(fmsynth.Config{})
	path := filepath.Join(t.TempDir(), "missing.lua")
	if _, err := loadPatch(s, path); err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("error = %v, want the script path", err)
	}
}

func TestLoadPatch_Waveforms(t *testing.T) {
	s, _ := fmsynth.NewSynth(fmsynth.Config{})
	src := `local fm = require("fm")
		local names = fm.waveforms()
		local op = fm.operator()
		for _, n in ipairs(names) do fm.waveform(op, n) end
		if #names ~= 5 then error("got " .. #names .. " waveforms") end
		return op`
	if _, err := loadPatchString(s, "waves", src); err != nil {
		t.Fatal(err)
	}
}
