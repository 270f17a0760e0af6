// audio_synth.go - Table shaped note synthesis

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
	"strings"
	"time"

	"github.com/go-audio/audio"
)

const (
	SAMPLE_RATE  = 44100
	NUM_CHANNELS = 2 // Interleaved stereo, mono signal on both channels

	// Longest note a request may ask for. Bounds the buffer a single
	// trigger can allocate.
	MAX_DURATION_MS = 60_000

	PCM16_SCALE = 32767.0
	PCM16_MIN   = math.MinInt16
	PCM16_MAX   = math.MaxInt16
)

// SampleFormat selects the numeric format used from synthesis to the device.
type SampleFormat int

const (
	FormatFloat32 SampleFormat = iota // 32-bit IEEE float, not clamped
	FormatPCM16                       // 16-bit signed, clamped
)

func (f SampleFormat) String() string {
	switch f {
	case FormatFloat32:
		return "float32"
	case FormatPCM16:
		return "pcm16"
	}
	return fmt.Sprintf("SampleFormat(%d)", int(f))
}

// BytesPerFrame is the size of one interleaved stereo frame on the wire.
func (f SampleFormat) BytesPerFrame() int {
	if f == FormatPCM16 {
		return 2 * NUM_CHANNELS
	}
	return 4 * NUM_CHANNELS
}

// ParseSampleFormat accepts "float32" or "pcm16".
func ParseSampleFormat(s string) (SampleFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "float32", "float", "f32":
		return FormatFloat32, nil
	case "pcm16", "s16", "int16":
		return FormatPCM16, nil
	}
	return 0, fmt.Errorf("unknown sample format %q", s)
}

// Waveform selects the raw oscillator.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSquare
	WaveSawtooth
	WaveRawWavetable // Constant amplitude; the wavetable supplies all of the timbre
)

var waveformNames = map[Waveform]string{
	WaveSine:         "sine",
	WaveTriangle:     "triangle",
	WaveSquare:       "square",
	WaveSawtooth:     "sawtooth",
	WaveRawWavetable: "wavetable",
}

func (w Waveform) String() string {
	if name, ok := waveformNames[w]; ok {
		return name
	}
	return fmt.Sprintf("Waveform(%d)", int(w))
}

// ParseWaveform maps a waveform name to its value.
func ParseWaveform(s string) (Waveform, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for w, n := range waveformNames {
		if n == name {
			return w, nil
		}
	}
	switch name {
	case "sin":
		return WaveSine, nil
	case "saw":
		return WaveSawtooth, nil
	case "raw", "rawwavetable":
		return WaveRawWavetable, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidWaveform, s)
}

// NoteRequest describes one note to render.
type NoteRequest struct {
	Frequency      float64 // Hz
	Amplitude      float64 // 0.0-1.0
	DurationMs     int
	Waveform       Waveform
	ApplyWavetable bool
	ApplyEnvelope  bool
}

// Validate checks the request and returns its length and oscillator period in samples.
func (req NoteRequest) Validate() (sampleCount, periodSamples int, err error) {
	if req.DurationMs <= 0 || req.DurationMs > MAX_DURATION_MS {
		return 0, 0, fmt.Errorf("%w: %d ms, want 1-%d", ErrInvalidDuration, req.DurationMs, MAX_DURATION_MS)
	}
	if !(req.Frequency > 0) || math.IsInf(req.Frequency, 1) {
		return 0, 0, fmt.Errorf("%w: %g Hz", ErrInvalidFrequency, req.Frequency)
	}
	if math.IsNaN(req.Amplitude) || req.Amplitude < 0 || req.Amplitude > 1 {
		return 0, 0, fmt.Errorf("%w: %g", ErrInvalidAmplitude, req.Amplitude)
	}
	if _, ok := waveformNames[req.Waveform]; !ok {
		return 0, 0, fmt.Errorf("%w: %d", ErrInvalidWaveform, int(req.Waveform))
	}

	periodSamples = int(math.Round(SAMPLE_RATE / req.Frequency))
	if periodSamples == 0 {
		return 0, 0, fmt.Errorf("%w: %g Hz at %d Hz", ErrDegenerateFrequency, req.Frequency, SAMPLE_RATE)
	}
	sampleCount = int(math.Round(SAMPLE_RATE * float64(req.DurationMs) / 1000))
	return sampleCount, periodSamples, nil
}

// SampleBuffer is one rendered note: interleaved stereo frames at SAMPLE_RATE,
// backed by a go-audio buffer in the chosen sample format.
type SampleBuffer struct {
	format SampleFormat
	float  *audio.Float32Buffer
	pcm    *audio.IntBuffer
}

func newSampleBuffer(format SampleFormat, frames int) *SampleBuffer {
	pcmFormat := &audio.Format{NumChannels: NUM_CHANNELS, SampleRate: SAMPLE_RATE}
	if format == FormatPCM16 {
		return &SampleBuffer{
			format: format,
			pcm:    &audio.IntBuffer{Format: pcmFormat, Data: make([]int, frames*NUM_CHANNELS), SourceBitDepth: 16},
		}
	}
	return &SampleBuffer{
		format: format,
		float:  &audio.Float32Buffer{Format: pcmFormat, Data: make([]float32, frames*NUM_CHANNELS), SourceBitDepth: 32},
	}
}

// Format returns the sample format the buffer was rendered in.
func (b *SampleBuffer) Format() SampleFormat { return b.format }

// PCM exposes the underlying go-audio buffer.
func (b *SampleBuffer) PCM() audio.Buffer {
	if b.pcm != nil {
		return b.pcm
	}
	return b.float
}

// Frames returns the number of stereo frames (mono samples).
func (b *SampleBuffer) Frames() int {
	return b.PCM().NumFrames()
}

// Duration returns the playback length of the buffer.
func (b *SampleBuffer) Duration() time.Duration {
	return time.Duration(b.Frames()) * time.Second / SAMPLE_RATE
}

// Sample returns the mono value of frame i normalized to float, so that
// PCM16 buffers mix on the same scale as float32 ones.
func (b *SampleBuffer) Sample(i int) float32 {
	if b.pcm != nil {
		return float32(b.pcm.Data[i*NUM_CHANNELS]) / PCM16_SCALE
	}
	return b.float.Data[i*NUM_CHANNELS]
}

func (b *SampleBuffer) set(i int, v float64) {
	j := i * NUM_CHANNELS
	if b.pcm != nil {
		s := int(ToPCM16(v))
		b.pcm.Data[j], b.pcm.Data[j+1] = s, s
		return
	}
	f := float32(v)
	b.float.Data[j], b.float.Data[j+1] = f, f
}

// ToPCM16 converts a normalized sample to 16-bit, rounding half away from zero
// and clamping to the int16 range.
func ToPCM16(v float64) int16 {
	s := math.Round(v * PCM16_SCALE)
	if s > PCM16_MAX {
		return PCM16_MAX
	}
	if s < PCM16_MIN {
		return PCM16_MIN
	}
	return int16(s)
}

// Synthesizer renders notes against a shared, read-only set of shape tables.
// Generate touches no mutable shared state, so one Synthesizer serves any
// number of goroutines.
type Synthesizer struct {
	tables *ShapeTables
	format SampleFormat
}

// NewSynthesizer returns a synthesizer writing buffers in format.
func NewSynthesizer(tables *ShapeTables, format SampleFormat) *Synthesizer {
	return &Synthesizer{tables: tables, format: format}
}

// Format returns the output sample format.
func (s *Synthesizer) Format() SampleFormat { return s.format }

// Generate renders req into a new buffer.
func (s *Synthesizer) Generate(req NoteRequest) (*SampleBuffer, error) {
	sampleCount, period, err := req.Validate()
	if err != nil {
		return nil, err
	}

	buf := newSampleBuffer(s.format, sampleCount)
	wave, env := s.tables.Wave, s.tables.Envelope
	waveLen, envLen := int64(wave.Len()), int64(env.Len())
	phaseInc := 2 * math.Pi * req.Frequency / SAMPLE_RATE

	for t := 0; t < sampleCount; t++ {
		tMod := t % period
		var sample float64

		switch req.Waveform {
		case WaveSine:
			sample = req.Amplitude * math.Sin(phaseInc*float64(t))
		case WaveTriangle:
			sample = triangle(req.Amplitude, tMod, period)
		case WaveSquare:
			if float64(tMod) < float64(period)/2 {
				sample = req.Amplitude
			}
		case WaveSawtooth:
			sample = req.Amplitude * float64(tMod) / float64(period)
		case WaveRawWavetable:
			sample = req.Amplitude
		}

		if req.ApplyWavetable {
			sample *= wave.At(int(waveLen * int64(tMod) / int64(period)))
		}
		if req.ApplyEnvelope {
			sample *= env.At(int(envLen * int64(t) / int64(sampleCount)))
		}
		buf.set(t, sample)
	}
	return buf, nil
}

// triangle rises from 0 to amplitude over the first half period and falls
// back over the second.
func triangle(amplitude float64, tMod, period int) float64 {
	half := float64(period) / 2
	pos := float64(tMod)
	if pos < half {
		return amplitude * pos / half
	}
	return amplitude * (float64(period) - pos) / (float64(period) - half)
}
