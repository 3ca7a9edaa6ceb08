// audio_sink.go - Blocking PCM sinks and backend selection

package main

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// AudioSink accepts interleaved signed 16-bit frames at the rate and channel
// count it was opened with. Write blocks until the device can take the data.
type AudioSink interface {
	Write(samples []int16) error
	Close() error
}

type audioBackendFactory func(sampleRate, channels int) (AudioSink, error)

var audioBackends = map[string]audioBackendFactory{
	"null": func(sampleRate, channels int) (AudioSink, error) {
		return newNullSink(sampleRate, channels, true), nil
	},
}

// registerAudioBackend is called from init in the build-tagged backends.
func registerAudioBackend(name string, factory audioBackendFactory) {
	audioBackends[name] = factory
}

func audioBackendNames() []string {
	names := make([]string, 0, len(audioBackends))
	for name := range audioBackends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func openAudioSink(backend string, sampleRate, channels int) (AudioSink, error) {
	factory, ok := audioBackends[backend]
	if !ok {
		return nil, fmt.Errorf("unknown audio backend %q (available: %s)",
			backend, strings.Join(audioBackendNames(), ", "))
	}
	return factory(sampleRate, channels)
}

// nullSink discards audio. When paced it sleeps so writes take as long as
// the audio would take to play.
type nullSink struct {
	sampleRate int
	channels   int
	paced      bool

	start  time.Time
	frames int64
}

func newNullSink(sampleRate, channels int, paced bool) *nullSink {
	return &nullSink{sampleRate: sampleRate, channels: channels, paced: paced}
}

func (ns *nullSink) Write(samples []int16) error {
	ns.frames += int64(len(samples) / ns.channels)
	if !ns.paced {
		return nil
	}
	if ns.start.IsZero() {
		ns.start = time.Now()
	}
	due := ns.start.Add(time.Duration(ns.frames) * time.Second / time.Duration(ns.sampleRate))
	if d := time.Until(due); d > 0 {
		time.Sleep(d)
	}
	return nil
}

func (ns *nullSink) Close() error { return nil }
