//go:build alsa && !headless

// audio_backend_alsa.go - ALSA audio output implementation

package main

/*
#cgo LDFLAGS: -lasound
#cgo CFLAGS: -O2
#include <alsa/asoundlib.h>
#include <stdlib.h>

static snd_pcm_t* openPCM(const char* device, int* err) {
    snd_pcm_t* handle;
    *err = snd_pcm_open(&handle, device, SND_PCM_STREAM_PLAYBACK, 0);
    return handle;
}

// One call sets interleaved S16_LE at the requested rate with ALSA's
// resampler allowed and about 50ms of device buffering.
static int setupPCM(snd_pcm_t* handle, unsigned int rate, unsigned int channels) {
    return snd_pcm_set_params(handle, SND_PCM_FORMAT_S16_LE,
        SND_PCM_ACCESS_RW_INTERLEAVED, channels, rate, 1, 50000);
}

static int writePCM(snd_pcm_t* handle, short* buffer, int frames) {
    return snd_pcm_writei(handle, buffer, frames);
}

static void closePCM(snd_pcm_t* handle) {
    if (handle != NULL) {
        snd_pcm_drain(handle);
        snd_pcm_close(handle);
    }
}
*/
import "C"
import (
	"fmt"
	"sync"
	"unsafe"
)

const alsaDevice = "default"

func init() {
	registerAudioBackend("alsa", func(sampleRate, channels int) (AudioSink, error) {
		return NewALSASink(alsaDevice, sampleRate, channels)
	})
}

// ALSASink writes straight to a PCM device; snd_pcm_writei blocks until
// the device has room.
type ALSASink struct {
	handle   *C.snd_pcm_t
	channels int
	mutex    sync.Mutex
}

func NewALSASink(device string, sampleRate, channels int) (*ALSASink, error) {
	cdev := C.CString(device)
	defer C.free(unsafe.Pointer(cdev))

	var err C.int
	handle := C.openPCM(cdev, &err)
	if err < 0 {
		return nil, fmt.Errorf("failed to open PCM device %s: %s", device, C.GoString(C.snd_strerror(err)))
	}

	if err = C.setupPCM(handle, C.uint(sampleRate), C.uint(channels)); err < 0 {
		C.closePCM(handle)
		return nil, fmt.Errorf("failed to setup PCM: %s", C.GoString(C.snd_strerror(err)))
	}

	return &ALSASink{handle: handle, channels: channels}, nil
}

func (as *ALSASink) Write(samples []int16) error {
	as.mutex.Lock()
	defer as.mutex.Unlock()

	if as.handle == nil {
		return fmt.Errorf("alsa: write on closed device")
	}
	for len(samples) >= as.channels {
		frames := len(samples) / as.channels
		n := C.writePCM(as.handle, (*C.short)(unsafe.Pointer(&samples[0])), C.int(frames))
		if n == -C.EPIPE {
			// Underrun: recover and retry the same block.
			C.snd_pcm_prepare(as.handle)
			continue
		}
		if n < 0 {
			return fmt.Errorf("write failed: %s", C.GoString(C.snd_strerror(C.int(n))))
		}
		samples = samples[int(n)*as.channels:]
	}
	return nil
}

func (as *ALSASink) Close() error {
	as.mutex.Lock()
	defer as.mutex.Unlock()

	if as.handle != nil {
		C.closePCM(as.handle)
		as.handle = nil
	}
	return nil
}
