// options.go - Functional options shared by the mixer and the note scheduler

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
	"runtime"

	"go.uber.org/zap"
)

const (
	DEFAULT_MAX_VOICES = 32
	DEFAULT_QUEUE_SIZE = 64
)

// OutputFactory opens an audio output. Tests replace it to simulate devices.
type OutputFactory func(backend AudioBackend, sampleRate int, format SampleFormat) (AudioOutput, error)

// Options configures a Mixer or a NoteScheduler. Fields that only apply to
// one of them are ignored by the other.
type Options struct {
	Logger        *zap.Logger   // Defaults to a no-op logger
	Backend       AudioBackend  // Mixer output device
	Format        SampleFormat  // Mixer wire format, must match the synthesizer
	MaxVoices     int           // Mixer polyphony cap, oldest voice evicted beyond it
	OutputFactory OutputFactory // Mixer device constructor
	Workers       int           // Scheduler worker goroutines
	QueueSize     int           // Scheduler pending note capacity
}

// Option modifies Options.
type Option func(*Options)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// WithBackend selects the audio output backend.
func WithBackend(b AudioBackend) Option {
	return func(o *Options) {
		o.Backend = b
	}
}

// WithFormat selects the sample format used on the device.
func WithFormat(f SampleFormat) Option {
	return func(o *Options) {
		o.Format = f
	}
}

// WithMaxVoices caps the number of simultaneously playing voices.
func WithMaxVoices(n int) Option {
	return func(o *Options) {
		o.MaxVoices = n
	}
}

// WithOutputFactory replaces the function used to open the audio device.
func WithOutputFactory(f OutputFactory) Option {
	return func(o *Options) {
		o.OutputFactory = f
	}
}

// WithWorkers sets the number of synthesis workers.
func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

// WithQueueSize sets how many triggered notes may wait for a worker.
func WithQueueSize(n int) Option {
	return func(o *Options) {
		o.QueueSize = n
	}
}

// applyDefaultOptions applies opts and fills in anything left unset.
func applyDefaultOptions(opts ...Option) Options {
	options := Options{Backend: AUDIO_BACKEND_OTO}
	for _, opt := range opts {
		opt(&options)
	}

	if options.Logger == nil {
		options.Logger = zap.NewNop()
	}
	if options.MaxVoices <= 0 {
		options.MaxVoices = DEFAULT_MAX_VOICES
	}
	if options.OutputFactory == nil {
		options.OutputFactory = NewAudioOutput
	}
	if options.Workers <= 0 {
		options.Workers = runtime.NumCPU()
	}
	if options.QueueSize <= 0 {
		options.QueueSize = DEFAULT_QUEUE_SIZE
	}
	return options
}
