// audio_backend_null.go - Paced output that discards mixed audio

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

import (
	"sync"
	"sync/atomic"
	"time"
)

const NULL_TICK = 10 * time.Millisecond

// NullPlayer pulls from the mixer at the real-time rate and throws the result
// away, so voices are consumed exactly as a sound card would consume them.
type NullPlayer struct {
	sampleRate int
	format     SampleFormat
	mixer      atomic.Pointer[Mixer]
	frames     atomic.Uint64 // Frames pulled so far
	started    bool
	stopCh     chan struct{}
	done       chan struct{}
	mutex      sync.Mutex
}

func NewNullPlayer(sampleRate int, format SampleFormat) *NullPlayer {
	return &NullPlayer{
		sampleRate: sampleRate,
		format:     format,
	}
}

func (np *NullPlayer) SetupPlayer(mixer *Mixer) error {
	np.mixer.Store(mixer)
	return nil
}

func (np *NullPlayer) Start() {
	np.mutex.Lock()
	defer np.mutex.Unlock()

	if np.started {
		return
	}
	np.started = true
	np.stopCh = make(chan struct{})
	np.done = make(chan struct{})
	go np.pump(np.stopCh, np.done)
}

func (np *NullPlayer) pump(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(NULL_TICK)
	defer ticker.Stop()

	framesPerTick := np.sampleRate * int(NULL_TICK/time.Millisecond) / 1000
	buf := make([]byte, framesPerTick*np.format.BytesPerFrame())

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if mixer := np.mixer.Load(); mixer != nil {
				_, _ = mixer.Read(buf)
			}
			np.frames.Add(uint64(framesPerTick))
		}
	}
}

func (np *NullPlayer) Stop() {
	np.mutex.Lock()
	defer np.mutex.Unlock()

	if !np.started {
		return
	}
	close(np.stopCh)
	<-np.done
	np.started = false
}

func (np *NullPlayer) Close() {
	np.Stop()
}

func (np *NullPlayer) IsStarted() bool {
	np.mutex.Lock()
	defer np.mutex.Unlock()
	return np.started
}

// FramesPlayed returns how many frames the player has consumed.
func (np *NullPlayer) FramesPlayed() uint64 {
	return np.frames.Load()
}
