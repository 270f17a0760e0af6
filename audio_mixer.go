// audio_mixer.go - Polyphonic voice mixer feeding the audio device

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
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// voice is one playing buffer and its read cursor.
type voice struct {
	buf    *SampleBuffer
	pos    int
	frames int
}

func (v *voice) exhausted() bool { return v.pos >= v.frames }

// mixInto adds the voice's next len(dst) frames to dst and advances the cursor.
func (v *voice) mixInto(dst []float32) {
	n := min(len(dst), v.frames-v.pos)
	if f := v.buf.float; f != nil {
		data := f.Data[v.pos*NUM_CHANNELS:]
		for i := 0; i < n; i++ {
			dst[i] += data[i*NUM_CHANNELS]
		}
	} else {
		data := v.buf.pcm.Data[v.pos*NUM_CHANNELS:]
		for i := 0; i < n; i++ {
			dst[i] += float32(data[i*NUM_CHANNELS]) / PCM16_SCALE
		}
	}
	v.pos += n
}

// Mixer sums any number of voices into one continuous output stream.
//
// AddInput may be called from any goroutine. Read and Mix are called by the
// single device goroutine: it owns the active voice list and only ever
// TryLocks the pending list, so a writer holding the lock delays a new voice
// by one buffer instead of stalling the device.
type Mixer struct {
	opts   Options
	format SampleFormat
	log    *zap.Logger

	lifeMu   sync.Mutex // Serializes Open against Close, guards output
	output   AudioOutput
	openOnce sync.Once
	openErr  error
	disabled atomic.Bool
	closed   atomic.Bool

	pendingMu sync.Mutex
	pending   []*voice

	// Device goroutine only
	active []*voice
	mixBuf []float32

	live    atomic.Int64  // Added and not yet finished
	added   atomic.Uint64 // Voices accepted over the mixer's lifetime
	evicted atomic.Uint64 // Voices cut by the polyphony cap
	reads   atomic.Uint64 // Device pulls
}

// NewMixer creates a mixer. The device is not opened until Open.
func NewMixer(opts ...Option) *Mixer {
	o := applyDefaultOptions(opts...)
	return &Mixer{
		opts:   o,
		format: o.Format,
		log:    o.Logger.Named("mixer"),
		active: make([]*voice, 0, o.MaxVoices),
	}
}

// Open starts the output device. Only the first call does any work; if it
// fails, or the mixer was already closed, the mixer is disabled for good and
// AddInput becomes a no-op.
func (m *Mixer) Open() error {
	m.openOnce.Do(func() {
		m.lifeMu.Lock()
		defer m.lifeMu.Unlock()

		if m.closed.Load() {
			m.openErr = fmt.Errorf("%w: mixer already closed", ErrDeviceInit)
			m.disabled.Store(true)
			return
		}

		out, err := m.opts.OutputFactory(m.opts.Backend, SAMPLE_RATE, m.format)
		if err == nil {
			err = out.SetupPlayer(m)
			if err != nil {
				out.Close()
			}
		}
		if err != nil {
			m.openErr = fmt.Errorf("%w: %v backend: %v", ErrDeviceInit, m.opts.Backend, err)
			m.disabled.Store(true)
			m.log.Error("audio output unavailable, playback disabled",
				zap.Stringer("backend", m.opts.Backend), zap.Error(err))
			return
		}

		out.Start()
		m.output = out
		m.log.Info("audio output open",
			zap.Stringer("backend", m.opts.Backend),
			zap.Stringer("format", m.format),
			zap.Int("sample_rate", SAMPLE_RATE),
			zap.Int("max_voices", m.opts.MaxVoices))
	})
	return m.openErr
}

// Disabled reports whether the device failed to open or Open came after Close.
func (m *Mixer) Disabled() bool {
	return m.disabled.Load()
}

// Format returns the sample format the mixer accepts and emits.
func (m *Mixer) Format() SampleFormat {
	return m.format
}

// AddInput registers buf as a new voice. It never waits on the device.
func (m *Mixer) AddInput(buf *SampleBuffer) error {
	if m.disabled.Load() || m.closed.Load() {
		return nil
	}
	if buf == nil || buf.Frames() == 0 {
		return nil
	}
	if buf.Format() != m.format {
		return fmt.Errorf("mixer: %v buffer on a %v stream", buf.Format(), m.format)
	}

	v := &voice{buf: buf, frames: buf.Frames()}

	m.pendingMu.Lock()
	defer m.pendingMu.Unlock()
	// Close zeroes live under this lock; rechecking here keeps the count exact.
	if m.closed.Load() {
		return nil
	}
	m.live.Add(1)
	m.added.Add(1)
	m.pending = append(m.pending, v)
	return nil
}

// merge moves pending voices into the active list and applies the polyphony cap.
func (m *Mixer) merge() {
	if m.pendingMu.TryLock() {
		if len(m.pending) > 0 {
			m.active = append(m.active, m.pending...)
			clear(m.pending)
			m.pending = m.pending[:0]
		}
		m.pendingMu.Unlock()
	}

	if over := len(m.active) - m.opts.MaxVoices; over > 0 {
		n := copy(m.active, m.active[over:])
		clear(m.active[n:])
		m.active = m.active[:n]
		m.live.Add(-int64(over))
		m.evicted.Add(uint64(over))
	}
}

// Mix writes the sum of every active voice's next len(dst) frames into dst,
// one mono value per frame, and retires voices that run out.
func (m *Mixer) Mix(dst []float32) {
	clear(dst)
	if m.closed.Load() {
		clear(m.active)
		m.active = m.active[:0]
		return
	}
	m.merge()

	for _, v := range m.active {
		v.mixInto(dst)
	}

	n := 0
	for _, v := range m.active {
		if !v.exhausted() {
			m.active[n] = v
			n++
		}
	}
	if done := len(m.active) - n; done > 0 {
		clear(m.active[n:])
		m.active = m.active[:n]
		m.live.Add(-int64(done))
	}
}

// Read fills p with interleaved stereo frames in the mixer's format. It
// always fills the whole slice; silence when no voices are playing.
func (m *Mixer) Read(p []byte) (int, error) {
	m.reads.Add(1)
	bpf := m.format.BytesPerFrame()
	frames := len(p) / bpf

	if cap(m.mixBuf) < frames {
		m.mixBuf = make([]float32, frames)
	}
	mix := m.mixBuf[:frames]
	m.Mix(mix)

	switch m.format {
	case FormatPCM16:
		for i, s := range mix {
			v := uint16(ToPCM16(float64(s)))
			off := i * bpf
			binary.LittleEndian.PutUint16(p[off:], v)
			binary.LittleEndian.PutUint16(p[off+2:], v)
		}
	default:
		for i, s := range mix {
			v := math.Float32bits(s)
			off := i * bpf
			binary.LittleEndian.PutUint32(p[off:], v)
			binary.LittleEndian.PutUint32(p[off+4:], v)
		}
	}
	clear(p[frames*bpf:])
	return len(p), nil
}

// ActiveVoices returns the number of voices added and not yet finished or evicted.
func (m *Mixer) ActiveVoices() int {
	return int(max(m.live.Load(), 0))
}

// Added returns the number of voices accepted so far.
func (m *Mixer) Added() uint64 {
	return m.added.Load()
}

// Evicted returns the number of voices cut short by the polyphony cap.
func (m *Mixer) Evicted() uint64 {
	return m.evicted.Load()
}

// Close stops the device and drops every voice still pending or playing.
// A later Open fails with ErrDeviceInit.
func (m *Mixer) Close() {
	if m.closed.Swap(true) {
		return
	}

	m.lifeMu.Lock()
	out := m.output
	m.output = nil
	m.lifeMu.Unlock()
	if out != nil {
		out.Close()
	}

	m.pendingMu.Lock()
	clear(m.pending)
	m.pending = m.pending[:0]
	m.live.Store(0)
	m.pendingMu.Unlock()

	m.log.Info("audio output closed",
		zap.Uint64("voices", m.added.Load()),
		zap.Uint64("evicted", m.evicted.Load()),
		zap.Uint64("reads", m.reads.Load()))
}
