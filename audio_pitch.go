// audio_pitch.go - Equal temperament pitch table

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
	"math"
	"strconv"
)

const (
	PITCH_MIN_OCTAVE = 0
	PITCH_MAX_OCTAVE = 8
	SEMITONES        = 12

	// A0; every other pitch is derived from it so that A4 lands on exactly 440 Hz.
	PITCH_REF_FREQ     = 27.5
	PITCH_REF_SEMITONE = 9
)

// pitchClasses lists the sharp spelling and, where one exists, the flat spelling
// of each semitone in an octave, starting at C.
var pitchClasses = [SEMITONES]struct {
	sharp string
	flat  string
}{
	{"C", ""}, {"Cs", "Db"}, {"D", ""}, {"Ds", "Eb"}, {"E", ""}, {"F", ""},
	{"Fs", "Gb"}, {"G", ""}, {"Gs", "Ab"}, {"A", ""}, {"As", "Bb"}, {"B", ""},
}

// Pitch is a named frequency. Values are shared between enharmonic spellings
// and must not be modified.
type Pitch struct {
	Name      string
	Frequency float64
}

// PitchTable maps pitch names such as "A4", "Cs3" or "Db3" to frequencies.
// It is immutable after construction and safe for concurrent use.
type PitchTable struct {
	byName  map[string]*Pitch
	ordered []*Pitch
}

// NewPitchTable builds the 12-tone equal temperament table for octaves 0-8,
// starting at C0 (~16.35 Hz).
func NewPitchTable() *PitchTable {
	pt := &PitchTable{
		byName:  make(map[string]*Pitch, SEMITONES*(PITCH_MAX_OCTAVE+1)*2),
		ordered: make([]*Pitch, 0, SEMITONES*(PITCH_MAX_OCTAVE+1)),
	}

	var base [SEMITONES]float64
	for s := range base {
		base[s] = PITCH_REF_FREQ * math.Pow(2, float64(s-PITCH_REF_SEMITONE)/SEMITONES)
	}

	for octave := PITCH_MIN_OCTAVE; octave <= PITCH_MAX_OCTAVE; octave++ {
		suffix := strconv.Itoa(octave)
		for s, class := range pitchClasses {
			// Ldexp keeps octave doubling exact.
			p := &Pitch{
				Name:      class.sharp + suffix,
				Frequency: math.Ldexp(base[s], octave),
			}
			pt.byName[p.Name] = p
			if class.flat != "" {
				pt.byName[class.flat+suffix] = p
			}
			pt.ordered = append(pt.ordered, p)
		}
	}
	return pt
}

// Lookup returns the pitch for name, or ErrUnknownPitchName.
func (pt *PitchTable) Lookup(name string) (*Pitch, error) {
	p, ok := pt.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPitchName, name)
	}
	return p, nil
}

// MustLookup is Lookup for names known at compile time. It panics on unknown names.
func (pt *PitchTable) MustLookup(name string) *Pitch {
	p, err := pt.Lookup(name)
	if err != nil {
		panic(err)
	}
	return p
}

// Names returns the canonical (sharp) names in ascending frequency order.
func (pt *PitchTable) Names() []string {
	names := make([]string, len(pt.ordered))
	for i, p := range pt.ordered {
		names[i] = p.Name
	}
	return names
}

// Len returns the number of distinct pitches.
func (pt *PitchTable) Len() int {
	return len(pt.ordered)
}
