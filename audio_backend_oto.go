//go:build !headless

// audio_backend_oto.go - OTO v3 audio output implementation

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionFM
License: GPLv3 or later
*/

package main

import (
	"encoding/binary"
	"errors"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const defaultAudioBackend = "oto"

// otoRingMillis sizes the queue between Write and the device.
const otoRingMillis = 80

var errSinkClosed = errors.New("audio sink closed")

func init() {
	registerAudioBackend("oto", func(sampleRate, channels int) (AudioSink, error) {
		return NewOtoSink(sampleRate, channels)
	})
}

// OtoSink feeds an oto player from a ring of samples. Write blocks while the
// ring is full; the device side plays silence when it runs dry.
type OtoSink struct {
	ctx    *oto.Context
	player *oto.Player

	mutex     sync.Mutex
	cond      *sync.Cond
	ring      []int16
	head      int
	count     int
	closed    bool
	underruns int
}

func NewOtoSink(sampleRate, channels int) (*OtoSink, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   20 * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	sink := &OtoSink{
		ctx:  ctx,
		ring: make([]int16, sampleRate*channels*otoRingMillis/1000),
	}
	sink.cond = sync.NewCond(&sink.mutex)
	sink.player = ctx.NewPlayer(sink)
	sink.player.Play()
	return sink, nil
}

func (sink *OtoSink) Write(samples []int16) error {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()

	for len(samples) > 0 {
		for sink.count == len(sink.ring) && !sink.closed {
			sink.cond.Wait()
		}
		if sink.closed {
			return errSinkClosed
		}
		tail := (sink.head + sink.count) % len(sink.ring)
		free := len(sink.ring) - sink.count
		if tail+free > len(sink.ring) {
			free = len(sink.ring) - tail
		}
		n := copy(sink.ring[tail:tail+free], samples)
		sink.count += n
		samples = samples[n:]
	}
	return nil
}

// Read is called by oto on its own goroutine.
func (sink *OtoSink) Read(p []byte) (int, error) {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()

	n := len(p) / 2
	for i := 0; i < n; i++ {
		var v int16
		if sink.count > 0 {
			v = sink.ring[sink.head]
			sink.head = (sink.head + 1) % len(sink.ring)
			sink.count--
		} else {
			sink.underruns++
		}
		binary.LittleEndian.PutUint16(p[2*i:], uint16(v))
	}
	if len(p)%2 != 0 {
		p[len(p)-1] = 0
	}
	sink.cond.Broadcast()
	return len(p), nil
}

// Underruns counts samples the device had to fill with silence.
func (sink *OtoSink) Underruns() int {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	return sink.underruns
}

func (sink *OtoSink) Close() error {
	sink.mutex.Lock()
	sink.closed = true
	sink.cond.Broadcast()
	sink.mutex.Unlock()

	if sink.player != nil {
		err := sink.player.Close()
		sink.player = nil
		return err
	}
	return nil
}
