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
	"strings"
	"testing"
)

func TestLinearExpand_LengthAndEndpoints(t *testing.T) {
	curves := map[string][]ControlPoint{
		"ramp":     {{0, 0}, {1, 1}},
		"adsr":     {{0, 0.0048667}, {0.208496, 0.859164}, {0.313134, 0.574462}, {0.66992, 0.563392}, {1, 0.0168068}},
		"fall":     {{0, 0.9}, {0.5, 0.3}, {1, 0.1}},
		"flat":     {{0, 0.25}, {1, 0.25}},
		"up_down":  {{0, 0.3}, {0.01, 1}, {0.99, 0}, {1, 0.7}},
		"two_step": {{0, 0.1}, {0.999, 0.2}, {1, 0.6}},
	}
	lengths := []int{2, 3, 7, 100, TABLE_LENGTH}

	for name, points := range curves {
		for _, n := range lengths {
			table, err := LinearExpand(points, n)
			if err != nil {
				t.Fatalf("%s/%d: %v", name, n, err)
			}
			if table.Len() != n {
				t.Errorf("%s/%d: len %d", name, n, table.Len())
			}
			if table.At(0) != points[0].Magnitude {
				t.Errorf("%s/%d: first sample %v, want %v", name, n, table.At(0), points[0].Magnitude)
			}
			if table.At(n-1) != points[len(points)-1].Magnitude {
				t.Errorf("%s/%d: last sample %v, want %v", name, n, table.At(n-1), points[len(points)-1].Magnitude)
			}
			for i := 0; i < n; i++ {
				if v := table.At(i); v < -1e-12 || v > 1+1e-12 {
					t.Errorf("%s/%d: sample %d = %v outside [0,1]", name, n, i, v)
				}
			}
		}
	}
}

func TestLinearExpand_Interpolates(t *testing.T) {
	const n = 10
	table, err := LinearExpand([]ControlPoint{{0, 0}, {0.5, 1}, {1, 0}}, n)
	if err != nil {
		t.Fatal(err)
	}
	// Sample i sits at time i/n; the last sample is pinned to the final point.
	want := []float64{0, 0.2, 0.4, 0.6, 0.8, 1, 0.8, 0.6, 0.4, 0.2}
	want[n-1] = 0
	for i, w := range want {
		if math.Abs(table.At(i)-w) > 1e-12 {
			t.Errorf("sample %d = %v, want %v", i, table.At(i), w)
		}
	}
}

func TestLinearExpand_StepsByLength(t *testing.T) {
	table, err := LinearExpand([]ControlPoint{{0, 0}, {1, 1}}, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 0.25, 0.5, 1}
	for i, w := range want {
		if math.Abs(table.At(i)-w) > 1e-12 {
			t.Errorf("sample %d = %v, want %v", i, table.At(i), w)
		}
	}
}

func TestLinearExpand_Errors(t *testing.T) {
	tests := []struct {
		name   string
		points []ControlPoint
		length int
	}{
		{"no points", nil, 16},
		{"single point", []ControlPoint{{0, 0.5}}, 16},
		{"not increasing", []ControlPoint{{0, 0}, {0.5, 1}, {0.5, 0.2}, {1, 0}}, 16},
		{"decreasing", []ControlPoint{{0, 0}, {0.7, 1}, {0.3, 0.2}, {1, 0}}, 16},
		{"starts late", []ControlPoint{{0.1, 0}, {1, 1}}, 16},
		{"ends early", []ControlPoint{{0, 0}, {0.9, 1}}, 16},
		{"magnitude high", []ControlPoint{{0, 0}, {1, 1.5}}, 16},
		{"magnitude negative", []ControlPoint{{0, -0.1}, {1, 1}}, 16},
		{"magnitude NaN", []ControlPoint{{0, math.NaN()}, {1, 1}}, 16},
		{"length one", []ControlPoint{{0, 0}, {1, 1}}, 1},
		{"length zero", []ControlPoint{{0, 0}, {1, 1}}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LinearExpand(tc.points, tc.length); !errors.Is(err, ErrTableLoad) {
				t.Errorf("err = %v, want ErrTableLoad", err)
			}
		})
	}
}

func TestTable_ValuesIsACopy(t *testing.T) {
	table, err := LinearExpand([]ControlPoint{{0, 0.5}, {1, 0.5}}, 4)
	if err != nil {
		t.Fatal(err)
	}
	vals := table.Values()
	vals[0] = 0.9
	if table.At(0) != 0.5 {
		t.Fatal("modifying Values() changed the table")
	}
}

func TestParseTableDefinitions(t *testing.T) {
	src := `
#First
0, 0.1
 1 ,0.2

#Second
0,1
0.5,0.5
1,0
`
	sections, err := ParseTableDefinitions(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(sections) != 2 {
		t.Fatalf("got %d sections", len(sections))
	}
	if got := sections["First"]; len(got) != 2 || got[1] != (ControlPoint{1, 0.2}) {
		t.Errorf("First = %v", got)
	}
	if got := sections["Second"]; len(got) != 3 || got[1] != (ControlPoint{0.5, 0.5}) {
		t.Errorf("Second = %v", got)
	}
}

func TestParseTableDefinitions_Errors(t *testing.T) {
	tests := map[string]string{
		"data before header": "0,1\n#A\n0,0\n1,1\n",
		"three fields":       "#A\n0,0,0\n1,1\n",
		"one field":          "#A\n0\n1,1\n",
		"bad time":           "#A\nzero,0\n1,1\n",
		"bad magnitude":      "#A\n0,half\n1,1\n",
		"empty name":         "#\n0,0\n1,1\n",
		"duplicate section":  "#A\n0,0\n1,1\n#A\n0,0\n1,1\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseTableDefinitions(strings.NewReader(src)); !errors.Is(err, ErrTableLoad) {
				t.Errorf("err = %v, want ErrTableLoad", err)
			}
		})
	}
}

func TestLoadShapeTables_MissingSection(t *testing.T) {
	src := "#Wavetable1\n0,0.5\n1,0.5\n"
	if _, err := LoadShapeTables(strings.NewReader(src), 64); !errors.Is(err, ErrTableLoad) {
		t.Fatalf("err = %v, want ErrTableLoad", err)
	}
}

func TestLoadShapeTables_BadSection(t *testing.T) {
	src := "#Wavetable1\n0,0.5\n1,0.5\n#AdsrEnvelope\n0,0\n"
	_, err := LoadShapeTables(strings.NewReader(src), 64)
	if !errors.Is(err, ErrTableLoad) {
		t.Fatalf("err = %v, want ErrTableLoad", err)
	}
	if !strings.Contains(err.Error(), ENVELOPE_SECTION) {
		t.Errorf("error %q does not name the section", err)
	}
}

func TestLoadShapeTables_CustomLength(t *testing.T) {
	src := "#Wavetable1\n0,0.5\n1,0.5\n#AdsrEnvelope\n0,0\n0.5,1\n1,0\n"
	tables, err := LoadShapeTables(strings.NewReader(src), 512)
	if err != nil {
		t.Fatal(err)
	}
	if tables.Wave.Len() != 512 || tables.Envelope.Len() != 512 {
		t.Errorf("lengths %d/%d, want 512", tables.Wave.Len(), tables.Envelope.Len())
	}
}

func TestDefaultShapeTables(t *testing.T) {
	tables, err := DefaultShapeTables()
	if err != nil {
		t.Fatalf("embedded preset: %v", err)
	}
	checks := []struct {
		name        string
		table       Table
		first, last float64
	}{
		{"wave", tables.Wave, 0.556951, 0.469684},
		{"envelope", tables.Envelope, 0.0048667, 0.0168068},
	}
	for _, c := range checks {
		if c.table.Len() != TABLE_LENGTH {
			t.Errorf("%s: len %d", c.name, c.table.Len())
		}
		if c.table.At(0) != c.first || c.table.At(TABLE_LENGTH-1) != c.last {
			t.Errorf("%s: ends %v/%v, want %v/%v", c.name,
				c.table.At(0), c.table.At(TABLE_LENGTH-1), c.first, c.last)
		}
	}
}
