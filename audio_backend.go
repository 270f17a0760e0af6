// audio_backend.go - Audio output backend selection

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
	"strings"
)

// AudioBackend selects the device a Mixer streams to.
type AudioBackend int

const (
	AUDIO_BACKEND_OTO AudioBackend = iota
	AUDIO_BACKEND_EBITEN
	AUDIO_BACKEND_ALSA // Linux only, requires -tags alsa
	AUDIO_BACKEND_NULL // Paced sink that discards output
)

func (b AudioBackend) String() string {
	switch b {
	case AUDIO_BACKEND_OTO:
		return "oto"
	case AUDIO_BACKEND_EBITEN:
		return "ebiten"
	case AUDIO_BACKEND_ALSA:
		return "alsa"
	case AUDIO_BACKEND_NULL:
		return "null"
	}
	return fmt.Sprintf("AudioBackend(%d)", int(b))
}

// ParseAudioBackend accepts "oto", "ebiten", "alsa" or "null".
func ParseAudioBackend(s string) (AudioBackend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "oto", "":
		return AUDIO_BACKEND_OTO, nil
	case "ebiten":
		return AUDIO_BACKEND_EBITEN, nil
	case "alsa":
		return AUDIO_BACKEND_ALSA, nil
	case "null", "none", "headless":
		return AUDIO_BACKEND_NULL, nil
	}
	return 0, fmt.Errorf("unknown audio backend %q", s)
}

// AudioOutput is a running output stream that pulls frames from a Mixer.
// Once started it keeps pulling, and plays silence when no voices are active.
type AudioOutput interface {
	SetupPlayer(mixer *Mixer) error
	Start()
	Stop()
	Close()
	IsStarted() bool
}

// NewAudioOutput opens the device for backend. It is the default OutputFactory.
func NewAudioOutput(backend AudioBackend, sampleRate int, format SampleFormat) (AudioOutput, error) {
	switch backend {
	case AUDIO_BACKEND_OTO:
		return NewOtoPlayer(sampleRate, format)
	case AUDIO_BACKEND_EBITEN:
		return NewEbitenPlayer(sampleRate, format)
	case AUDIO_BACKEND_ALSA:
		return NewALSAPlayer(sampleRate, format)
	case AUDIO_BACKEND_NULL:
		return NewNullPlayer(sampleRate, format), nil
	}
	return nil, fmt.Errorf("unsupported audio backend %v", backend)
}
