// audio_tables.go - Control point expansion for the timbre and envelope tables

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
	"bufio"
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	TABLE_LENGTH = 2048 // Default resolution of both shape tables

	WAVE_TABLE_SECTION = "Wavetable1"
	ENVELOPE_SECTION   = "AdsrEnvelope"
)

// Hand-drawn timbre and ADSR curves. Any file in the same format can replace it.
//
//go:embed synth_tables.txt
var defaultTableDefinitions []byte

// ControlPoint anchors a curve at a normalized time with a normalized magnitude.
type ControlPoint struct {
	Time      float64
	Magnitude float64
}

// Table is a fixed-length curve sampled from control points. It is never
// modified after construction, so any number of goroutines may read it.
type Table struct {
	samples []float64
}

// Len returns the number of samples in the table.
func (t Table) Len() int { return len(t.samples) }

// At returns sample i. i must be in [0, Len()).
func (t Table) At(i int) float64 { return t.samples[i] }

// Values returns a copy of the samples.
func (t Table) Values() []float64 {
	out := make([]float64, len(t.samples))
	copy(out, t.samples)
	return out
}

// ShapeTables holds the timbre wavetable and the amplitude envelope.
type ShapeTables struct {
	Wave     Table
	Envelope Table
}

// LinearExpand fills a table of length samples by linear interpolation between
// control points, sampling sample i at time i/length. Points must start at
// time 0, end at time 1 and be strictly increasing in time. Sample 0 is the
// first magnitude and sample length-1 is pinned to the last.
func LinearExpand(points []ControlPoint, length int) (Table, error) {
	if err := validateControlPoints(points); err != nil {
		return Table{}, err
	}
	if length < 2 {
		return Table{}, fmt.Errorf("%w: table length %d, need at least 2", ErrTableLoad, length)
	}

	samples := make([]float64, length)
	last := len(points) - 1
	seg := 0

	for i := range samples {
		t := float64(i) / float64(length)
		for seg < last-1 && t > points[seg+1].Time {
			seg++
		}
		p0, p1 := points[seg], points[seg+1]
		frac := (t - p0.Time) / (p1.Time - p0.Time)
		samples[i] = p0.Magnitude + frac*(p1.Magnitude-p0.Magnitude)
	}

	samples[length-1] = points[last].Magnitude

	return Table{samples: samples}, nil
}

func validateControlPoints(points []ControlPoint) error {
	if len(points) < 2 {
		return fmt.Errorf("%w: %d control points, need at least 2", ErrTableLoad, len(points))
	}
	for i, p := range points {
		if math.IsNaN(p.Time) || math.IsNaN(p.Magnitude) || p.Magnitude < 0 || p.Magnitude > 1 {
			return fmt.Errorf("%w: point %d (%g, %g) out of range", ErrTableLoad, i, p.Time, p.Magnitude)
		}
		if i > 0 && p.Time <= points[i-1].Time {
			return fmt.Errorf("%w: point %d time %g not after %g", ErrTableLoad, i, p.Time, points[i-1].Time)
		}
	}
	if points[0].Time != 0 || points[len(points)-1].Time != 1 {
		return fmt.Errorf("%w: curve must span time 0 to 1, got %g to %g",
			ErrTableLoad, points[0].Time, points[len(points)-1].Time)
	}
	return nil
}

// ParseTableDefinitions reads "#Name" sections of "time,magnitude" lines.
// Blank lines are skipped. A section ends at the next header or at EOF.
func ParseTableDefinitions(r io.Reader) (map[string][]ControlPoint, error) {
	sections := make(map[string][]ControlPoint)
	scanner := bufio.NewScanner(r)
	current := ""
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			current = strings.TrimSpace(line[1:])
			if current == "" {
				return nil, fmt.Errorf("%w: line %d: empty section name", ErrTableLoad, lineNo)
			}
			if _, dup := sections[current]; dup {
				return nil, fmt.Errorf("%w: line %d: duplicate section %q", ErrTableLoad, lineNo, current)
			}
			sections[current] = nil
			continue
		}
		if current == "" {
			return nil, fmt.Errorf("%w: line %d: data before first section header", ErrTableLoad, lineNo)
		}

		fields := strings.Split(line, ",")
		if len(fields) != 2 {
			return nil, fmt.Errorf("%w: line %d: want \"time,magnitude\", got %q", ErrTableLoad, lineNo, line)
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: time: %v", ErrTableLoad, lineNo, err)
		}
		m, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: magnitude: %v", ErrTableLoad, lineNo, err)
		}
		sections[current] = append(sections[current], ControlPoint{Time: t, Magnitude: m})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTableLoad, err)
	}
	return sections, nil
}

// LoadShapeTables parses table definitions from r and expands the wavetable
// and envelope sections to length samples each.
func LoadShapeTables(r io.Reader, length int) (*ShapeTables, error) {
	sections, err := ParseTableDefinitions(r)
	if err != nil {
		return nil, err
	}

	build := func(name string) (Table, error) {
		points, ok := sections[name]
		if !ok {
			return Table{}, fmt.Errorf("%w: missing section #%s", ErrTableLoad, name)
		}
		table, err := LinearExpand(points, length)
		if err != nil {
			return Table{}, fmt.Errorf("section #%s: %w", name, err)
		}
		return table, nil
	}

	wave, err := build(WAVE_TABLE_SECTION)
	if err != nil {
		return nil, err
	}
	env, err := build(ENVELOPE_SECTION)
	if err != nil {
		return nil, err
	}
	return &ShapeTables{Wave: wave, Envelope: env}, nil
}

// DefaultShapeTables expands the embedded preset at TABLE_LENGTH resolution.
func DefaultShapeTables() (*ShapeTables, error) {
	return LoadShapeTables(bytes.NewReader(defaultTableDefinitions), TABLE_LENGTH)
}
