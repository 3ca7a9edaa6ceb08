//go:build portaudio && !headless

// audio_backend_portaudio.go - PortAudio blocking stream output

package main

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

const portaudioFramesPerBuffer = 256

func init() {
	registerAudioBackend("portaudio", func(sampleRate, channels int) (AudioSink, error) {
		return NewPortAudioSink(sampleRate, channels)
	})
}

// PortAudioSink collects samples into the stream's interleaved buffer and
// writes each full buffer with a blocking stream.Write.
type PortAudioSink struct {
	stream *portaudio.Stream
	buf    []int16
	fill   int
}

func NewPortAudioSink(sampleRate, channels int) (*PortAudioSink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("unable to setup portaudio: %w", err)
	}
	ps := &PortAudioSink{buf: make([]int16, portaudioFramesPerBuffer*channels)}
	stream, err := portaudio.OpenDefaultStream(0, channels, float64(sampleRate), portaudioFramesPerBuffer, &ps.buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("error opening default output via portaudio: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, err
	}
	ps.stream = stream
	return ps, nil
}

func (ps *PortAudioSink) Write(samples []int16) error {
	for len(samples) > 0 {
		n := copy(ps.buf[ps.fill:], samples)
		ps.fill += n
		samples = samples[n:]
		if ps.fill < len(ps.buf) {
			break
		}
		if err := ps.stream.Write(); err != nil {
			return fmt.Errorf("portaudio write: %w", err)
		}
		ps.fill = 0
	}
	return nil
}

func (ps *PortAudioSink) Close() error {
	if ps.stream == nil {
		return nil
	}
	ps.stream.Stop()
	err := ps.stream.Close()
	ps.stream = nil
	if terr := portaudio.Terminate(); err == nil {
		err = terr
	}
	return err
}
