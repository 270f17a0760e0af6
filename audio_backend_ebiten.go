//go:build !headless

// audio_backend_ebiten.go - Ebiten audio output implementation

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
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	ebitenaudio "github.com/hajimehoshi/ebiten/v2/audio"
)

const EBITEN_BUFFER_SIZE = 40 * time.Millisecond

// EbitenPlayer streams the mixer through ebiten's audio context, for hosts
// that already run an ebiten game loop and own the process-wide context.
type EbitenPlayer struct {
	ctx     *ebitenaudio.Context
	player  *ebitenaudio.Player
	format  SampleFormat
	mixer   atomic.Pointer[Mixer]
	started bool
	mutex   sync.Mutex
}

func NewEbitenPlayer(sampleRate int, format SampleFormat) (*EbitenPlayer, error) {
	// Ebiten allows a single context per process; share it if the host made one.
	ctx := ebitenaudio.CurrentContext()
	if ctx == nil {
		ctx = ebitenaudio.NewContext(sampleRate)
	} else if ctx.SampleRate() != sampleRate {
		return nil, fmt.Errorf("ebiten audio context runs at %d Hz, need %d Hz", ctx.SampleRate(), sampleRate)
	}

	return &EbitenPlayer{
		ctx:    ctx,
		format: format,
	}, nil
}

func (ep *EbitenPlayer) SetupPlayer(mixer *Mixer) error {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	ep.mixer.Store(mixer)

	var (
		player *ebitenaudio.Player
		err    error
	)
	if ep.format == FormatPCM16 {
		player, err = ep.ctx.NewPlayer(ep)
	} else {
		player, err = ep.ctx.NewPlayerF32(ep)
	}
	if err != nil {
		return err
	}
	player.SetBufferSize(EBITEN_BUFFER_SIZE)
	ep.player = player
	return nil
}

func (ep *EbitenPlayer) Read(p []byte) (n int, err error) {
	mixer := ep.mixer.Load()
	if mixer == nil {
		clear(p)
		return len(p), nil
	}
	return mixer.Read(p)
}

func (ep *EbitenPlayer) Start() {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	if !ep.started && ep.player != nil {
		ep.player.Play()
		ep.started = true
	}
}

func (ep *EbitenPlayer) Stop() {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	if ep.started && ep.player != nil {
		ep.player.Pause()
		ep.started = false
	}
}

func (ep *EbitenPlayer) Close() {
	ep.Stop()
	ep.mutex.Lock()
	defer ep.mutex.Unlock()

	if ep.player != nil {
		_ = ep.player.Close()
		ep.player = nil
	}
}

func (ep *EbitenPlayer) IsStarted() bool {
	ep.mutex.Lock()
	defer ep.mutex.Unlock()
	return ep.started
}
