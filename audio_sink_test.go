// audio_sink_test.go - Backend registry, null and WAV sink tests

package main

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/go-audio/wav"
)

func TestOpenAudioSink(t *testing.T) {
	names := audioBackendNames()
	if !slices.Contains(names, "null") || !slices.IsSorted(names) {
		t.Fatalf("backends = %v", names)
	}
	if !slices.Contains(names, defaultAudioBackend) {
		t.Errorf("default backend %q not registered", defaultAudioBackend)
	}

	_, err := openAudioSink("nope", 48000, 2)
	if err == nil || !strings.Contains(err.Error(), "null") {
		t.Fatalf("unknown backend error = %v, want the available list", err)
	}

	sink, err := openAudioSink("null", 48000, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()
	if err := sink.Write(make([]int16, 96)); err != nil {
		t.Fatal(err)
	}
}

func TestNullSink_CountsFrames(t *testing.T) {
	ns := newNullSink(48000, 2, false)
	for i := 0; i < 10; i++ {
		ns.Write(make([]int16, 480*2))
	}
	if ns.frames != 4800 {
		t.Errorf("frames = %d, want 4800", ns.frames)
	}
}

func TestWAVSink_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	ws, err := newWAVSink(path, 22050, 2)
	if err != nil {
		t.Fatal(err)
	}
	blocks := [][]int16{{0, 0, 100, 100, -200, -200}, {32767, 32767, -32768, -32768}}
	var want []int
	for _, b := range blocks {
		if err := ws.Write(b); err != nil {
			t.Fatal(err)
		}
		for _, v := range b {
			want = append(want, int(v))
		}
	}
	if err := ws.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatal("not a valid WAV file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	if dec.SampleRate != 22050 || dec.NumChans != 2 || dec.BitDepth != 16 {
		t.Errorf("header: rate %d chans %d depth %d", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
	if !slices.Equal(buf.Data, want) {
		t.Errorf("samples = %v, want %v", buf.Data, want)
	}
}
