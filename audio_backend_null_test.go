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
	"testing"
	"time"
)

func TestNullPlayer_DrainsVoices(t *testing.T) {
	synth := newTestSynth(t, FormatFloat32)
	m := NewMixer(WithBackend(AUDIO_BACKEND_NULL))
	defer m.Close()
	if err := m.Open(); err != nil {
		t.Fatalf("Open: %v", err)
	}

	buf := mustGenerate(t, synth, NoteRequest{Frequency: 440, Amplitude: 0.5, DurationMs: 50, Waveform: WaveSine})
	if err := m.AddInput(buf); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for m.ActiveVoices() > 0 {
		if time.Now().After(deadline) {
			t.Fatalf("voice still playing after 2s")
		}
		time.Sleep(5 * time.Millisecond)
	}

	np := m.output.(*NullPlayer)
	if np.FramesPlayed() < uint64(buf.Frames()) {
		t.Errorf("FramesPlayed = %d, want at least %d", np.FramesPlayed(), buf.Frames())
	}
}

func TestNullPlayer_StartStop(t *testing.T) {
	np := NewNullPlayer(SAMPLE_RATE, FormatPCM16)
	if np.IsStarted() {
		t.Fatal("started before Start")
	}
	np.Start()
	np.Start()
	if !np.IsStarted() {
		t.Fatal("not started")
	}
	time.Sleep(3 * NULL_TICK)
	np.Stop()
	if np.IsStarted() {
		t.Fatal("still started after Stop")
	}
	played := np.FramesPlayed()
	if played == 0 {
		t.Error("no frames pulled while running")
	}
	time.Sleep(2 * NULL_TICK)
	if np.FramesPlayed() != played {
		t.Error("frames pulled after Stop")
	}
	np.Close()
}

func TestParseAudioBackend(t *testing.T) {
	for in, want := range map[string]AudioBackend{"": AUDIO_BACKEND_OTO, "OTO": AUDIO_BACKEND_OTO, "ebiten": AUDIO_BACKEND_EBITEN, "alsa": AUDIO_BACKEND_ALSA, "none": AUDIO_BACKEND_NULL} {
		got, err := ParseAudioBackend(in)
		if err != nil || got != want {
			t.Errorf("ParseAudioBackend(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseAudioBackend("jack"); err == nil {
		t.Error("jack accepted")
	}
}
