// audio_sink_wav.go - WAV file sink for offline rendering

package main

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const wavPCMFormat = 1

type wavSink struct {
	file *os.File
	enc  *wav.Encoder
	buf  *audio.IntBuffer
}

func newWAVSink(path string, sampleRate, channels int) (*wavSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &wavSink{
		file: f,
		enc:  wav.NewEncoder(f, sampleRate, 16, channels, wavPCMFormat),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
			SourceBitDepth: 16,
		},
	}, nil
}

func (ws *wavSink) Write(samples []int16) error {
	if cap(ws.buf.Data) < len(samples) {
		ws.buf.Data = make([]int, len(samples))
	}
	ws.buf.Data = ws.buf.Data[:len(samples)]
	for i, v := range samples {
		ws.buf.Data[i] = int(v)
	}
	if err := ws.enc.Write(ws.buf); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	return nil
}

// Close finalises the RIFF header sizes and closes the file.
func (ws *wavSink) Close() error {
	err := ws.enc.Close()
	if cerr := ws.file.Close(); err == nil {
		err = cerr
	}
	return err
}
