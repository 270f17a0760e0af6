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
https://github.com/IntuitionAmiga/beepsynth
License: GPLv3 or later
*/

package beepsynth

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

const OTO_BUFFER_SIZE = 20 * time.Millisecond

type OtoPlayer struct {
	ctx     *oto.Context
	player  *oto.Player
	mixer   atomic.Pointer[Mixer] // Atomic for lock-free Read()
	started bool
	mutex   sync.Mutex // Only for setup/control operations
}

func NewOtoPlayer(sampleRate int, format SampleFormat) (*OtoPlayer, error) {
	otoFormat := oto.FormatFloat32LE
	if format == FormatPCM16 {
		otoFormat = oto.FormatSignedInt16LE
	}

	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: NUM_CHANNELS,
		Format:       otoFormat,
		BufferSize:   OTO_BUFFER_SIZE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	return &OtoPlayer{
		ctx: ctx,
	}, nil
}

func (op *OtoPlayer) SetupPlayer(mixer *Mixer) error {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.mixer.Store(mixer)
	op.player = op.ctx.NewPlayer(op)
	return nil
}

func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	// Load mixer pointer atomically - no lock needed for the hot path
	mixer := op.mixer.Load()
	if mixer == nil {
		clear(p)
		return len(p), nil
	}
	return mixer.Read(p)
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
}

func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started && op.player != nil {
		op.player.Pause()
		op.started = false
	}
}

func (op *OtoPlayer) Close() {
	op.Stop()
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player != nil {
		_ = op.player.Close()
		op.player = nil
	}
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}
