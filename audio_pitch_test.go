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
	"errors"
	"math"
	"testing"
)

func TestPitchTable_A4Is440(t *testing.T) {
	pt := NewPitchTable()
	p, err := pt.Lookup("A4")
	if err != nil {
		t.Fatalf("Lookup(A4): %v", err)
	}
	if p.Frequency != 440.0 {
		t.Fatalf("A4 = %v Hz, want exactly 440", p.Frequency)
	}
}

func TestPitchTable_EnharmonicsShareOnePitch(t *testing.T) {
	pt := NewPitchTable()
	pairs := [][2]string{
		{"Cs3", "Db3"}, {"Ds0", "Eb0"}, {"Fs4", "Gb4"}, {"Gs5", "Ab5"}, {"As8", "Bb8"},
	}
	for _, pair := range pairs {
		sharp := pt.MustLookup(pair[0])
		flat := pt.MustLookup(pair[1])
		if sharp != flat {
			t.Errorf("%s and %s resolve to different pitches", pair[0], pair[1])
		}
		if sharp.Name != pair[0] {
			t.Errorf("canonical name for %s = %q", pair[1], sharp.Name)
		}
	}
}

func TestPitchTable_OctaveDoubling(t *testing.T) {
	pt := NewPitchTable()
	for _, class := range pitchClasses {
		for octave := PITCH_MIN_OCTAVE; octave < PITCH_MAX_OCTAVE; octave++ {
			lo := pt.MustLookup(class.sharp + string(rune('0'+octave)))
			hi := pt.MustLookup(class.sharp + string(rune('0'+octave+1)))
			if hi.Frequency != 2*lo.Frequency {
				t.Errorf("%s = %v, want 2 * %s = %v", hi.Name, hi.Frequency, lo.Name, 2*lo.Frequency)
			}
		}
	}
}

func TestPitchTable_ReferenceFrequencies(t *testing.T) {
	pt := NewPitchTable()
	// Values from the two-decimal reference chart
	tests := []struct {
		name string
		freq float64
	}{
		{"C0", 16.35},
		{"E1", 41.20},
		{"C4", 261.63},
		{"Cs3", 138.59},
		{"G5", 783.99},
		{"A6", 1760.00},
		{"B8", 7902.13},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := pt.MustLookup(tc.name)
			if math.Abs(p.Frequency-tc.freq) > 0.01 {
				t.Errorf("%s = %.4f Hz, want %.2f", tc.name, p.Frequency, tc.freq)
			}
		})
	}
}

func TestPitchTable_SemitoneRatio(t *testing.T) {
	pt := NewPitchTable()
	names := pt.Names()
	ratio := math.Pow(2, 1.0/12)
	for i := 1; i < len(names); i++ {
		prev := pt.MustLookup(names[i-1]).Frequency
		cur := pt.MustLookup(names[i]).Frequency
		if math.Abs(cur/prev-ratio) > 1e-9 {
			t.Fatalf("%s/%s = %v, want %v", names[i], names[i-1], cur/prev, ratio)
		}
	}
}

func TestPitchTable_Unknown(t *testing.T) {
	pt := NewPitchTable()
	for _, name := range []string{"", "H4", "a4", "Cs9", "Es4", "Fb3", "C", "4", "A44", "Cs-1"} {
		if _, err := pt.Lookup(name); !errors.Is(err, ErrUnknownPitchName) {
			t.Errorf("Lookup(%q) err = %v, want ErrUnknownPitchName", name, err)
		}
	}
}

func TestPitchTable_Names(t *testing.T) {
	pt := NewPitchTable()
	names := pt.Names()
	if len(names) != pt.Len() || pt.Len() != SEMITONES*(PITCH_MAX_OCTAVE+1) {
		t.Fatalf("got %d names, Len %d", len(names), pt.Len())
	}
	if names[0] != "C0" || names[len(names)-1] != "B8" {
		t.Errorf("range %s..%s, want C0..B8", names[0], names[len(names)-1])
	}
	for _, n := range names {
		if pt.MustLookup(n).Frequency <= 0 {
			t.Errorf("%s has non-positive frequency", n)
		}
	}
}
