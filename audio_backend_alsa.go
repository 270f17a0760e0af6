//go:build linux && alsa && !headless

// audio_backend_alsa.go - ALSA audio output implementation

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
https://github.com/IntuitionAmiga/beepsynth
License: GPLv3 or later
*/

package beepsynth

/*
#cgo LDFLAGS: -lasound
#include <alsa/asoundlib.h>
#include <stdlib.h>

static snd_pcm_t* openPCM(const char* device, int* err) {
    snd_pcm_t* handle;
    *err = snd_pcm_open(&handle, device, SND_PCM_STREAM_PLAYBACK, 0);
    return handle;
}

static int setupPCM(snd_pcm_t* handle, unsigned int rate, int pcm16, unsigned int channels) {
    snd_pcm_hw_params_t* params;
    int err;

    snd_pcm_hw_params_alloca(&params);
    err = snd_pcm_hw_params_any(handle, params);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_access(handle, params, SND_PCM_ACCESS_RW_INTERLEAVED);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_format(handle, params, pcm16 ? SND_PCM_FORMAT_S16_LE : SND_PCM_FORMAT_FLOAT_LE);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_channels(handle, params, channels);
    if (err < 0) return err;

    err = snd_pcm_hw_params_set_rate(handle, params, rate, 0);
    if (err < 0) return err;

    err = snd_pcm_hw_params(handle, params);
    if (err < 0) return err;

    return snd_pcm_prepare(handle);
}

static long writePCM(snd_pcm_t* handle, void* buffer, int frames) {
    return snd_pcm_writei(handle, buffer, frames);
}

static void closePCM(snd_pcm_t* handle) {
    if (handle != NULL) {
        snd_pcm_drop(handle);
        snd_pcm_close(handle);
    }
}
*/
import "C"
import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"
)

const ALSA_PERIOD_FRAMES = 882 // 20ms at 44.1kHz

// ALSAPlayer pushes mixer output to the default ALSA device. The blocking
// write paces the pump goroutine at the device rate.
type ALSAPlayer struct {
	handle  *C.snd_pcm_t
	format  SampleFormat
	mixer   atomic.Pointer[Mixer]
	buf     []byte
	started bool
	stopCh  chan struct{}
	done    chan struct{}
	mutex   sync.Mutex
}

func NewALSAPlayer(sampleRate int, format SampleFormat) (*ALSAPlayer, error) {
	device := C.CString("default")
	defer C.free(unsafe.Pointer(device))

	var err C.int
	handle := C.openPCM(device, &err)
	if err < 0 {
		return nil, fmt.Errorf("failed to open PCM device: %s", C.GoString(C.snd_strerror(err)))
	}

	pcm16 := C.int(0)
	if format == FormatPCM16 {
		pcm16 = 1
	}
	if err = C.setupPCM(handle, C.uint(sampleRate), pcm16, C.uint(NUM_CHANNELS)); err < 0 {
		C.closePCM(handle)
		return nil, fmt.Errorf("failed to setup PCM: %s", C.GoString(C.snd_strerror(err)))
	}

	return &ALSAPlayer{
		handle: handle,
		format: format,
		buf:    make([]byte, ALSA_PERIOD_FRAMES*format.BytesPerFrame()),
	}, nil
}

func (ap *ALSAPlayer) SetupPlayer(mixer *Mixer) error {
	ap.mixer.Store(mixer)
	return nil
}

func (ap *ALSAPlayer) IsStarted() bool {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	return ap.started
}

func (ap *ALSAPlayer) Start() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if ap.started || ap.handle == nil {
		return
	}
	ap.started = true
	ap.stopCh = make(chan struct{})
	ap.done = make(chan struct{})
	go ap.pump(ap.stopCh, ap.done)
}

func (ap *ALSAPlayer) pump(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ptr := unsafe.Pointer(&ap.buf[0])

	for {
		select {
		case <-stopCh:
			return
		default:
		}

		if mixer := ap.mixer.Load(); mixer != nil {
			_, _ = mixer.Read(ap.buf)
		} else {
			clear(ap.buf)
		}

		frames := C.writePCM(ap.handle, ptr, C.int(ALSA_PERIOD_FRAMES))
		if frames == -C.EPIPE {
			// Underrun
			C.snd_pcm_prepare(ap.handle)
			frames = C.writePCM(ap.handle, ptr, C.int(ALSA_PERIOD_FRAMES))
		}
		if frames < 0 {
			return
		}
	}
}

func (ap *ALSAPlayer) Stop() {
	ap.mutex.Lock()
	defer ap.mutex.Unlock()

	if !ap.started {
		return
	}
	close(ap.stopCh)
	<-ap.done
	ap.started = false
}

func (ap *ALSAPlayer) Close() {
	ap.Stop()

	ap.mutex.Lock()
	defer ap.mutex.Unlock()
	if ap.handle != nil {
		C.closePCM(ap.handle)
		ap.handle = nil
	}
}
