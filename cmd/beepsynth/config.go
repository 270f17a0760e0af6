// config.go - Command line and environment configuration

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

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"

	"github.com/intuitionamiga/beepsynth"
	"github.com/joho/godotenv"
)

const (
	ENV_BACKEND     = "BEEPSYNTH_BACKEND"
	ENV_FORMAT      = "BEEPSYNTH_FORMAT"
	ENV_TABLES      = "BEEPSYNTH_TABLES"
	ENV_MAX_VOICES  = "BEEPSYNTH_MAX_VOICES"
	ENV_WORKERS     = "BEEPSYNTH_WORKERS"
	ENV_QUEUE       = "BEEPSYNTH_QUEUE"
	ENV_AMPLITUDE   = "BEEPSYNTH_AMPLITUDE"
	ENV_DURATION_MS = "BEEPSYNTH_DURATION_MS"
	ENV_WAVEFORM    = "BEEPSYNTH_WAVEFORM"

	DEFAULT_AMPLITUDE   = 0.8
	DEFAULT_DURATION_MS = 500
)

type config struct {
	backend    beepsynth.AudioBackend
	format     beepsynth.SampleFormat
	waveform   beepsynth.Waveform
	tables     string
	maxVoices  int
	workers    int
	queueSize  int
	amplitude  float64
	durationMs int
	note       string
	freq       float64
	debug      bool
}

// loadEnv reads .env from the working directory if there is one.
func loadEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

// parseConfig reads flags from args. Environment variables supply the
// defaults, flags override them.
func parseConfig(args []string, usageOut io.Writer) (*config, error) {
	var (
		cfg                       config
		backend, format, waveform string
		envMaxVoices, envWorkers  int
		envQueue, envDuration     int
		envAmplitude              float64
		err                       error
	)
	if envMaxVoices, err = envInt(ENV_MAX_VOICES, beepsynth.DEFAULT_MAX_VOICES); err != nil {
		return nil, err
	}
	if envWorkers, err = envInt(ENV_WORKERS, 0); err != nil {
		return nil, err
	}
	if envQueue, err = envInt(ENV_QUEUE, beepsynth.DEFAULT_QUEUE_SIZE); err != nil {
		return nil, err
	}
	if envDuration, err = envInt(ENV_DURATION_MS, DEFAULT_DURATION_MS); err != nil {
		return nil, err
	}
	if envAmplitude, err = envFloat(ENV_AMPLITUDE, DEFAULT_AMPLITUDE); err != nil {
		return nil, err
	}

	flagSet := flag.NewFlagSet("beepsynth", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&backend, "backend", envString(ENV_BACKEND, "oto"), "Audio backend: oto, ebiten, alsa or null")
	flagSet.StringVar(&format, "format", envString(ENV_FORMAT, "float32"), "Sample format: float32 or pcm16")
	flagSet.StringVar(&waveform, "waveform", envString(ENV_WAVEFORM, "sine"), "Oscillator: sine, triangle, square, sawtooth or wavetable")
	flagSet.StringVar(&cfg.tables, "tables", envString(ENV_TABLES, ""), "Shape table file (default: built-in preset)")
	flagSet.IntVar(&cfg.maxVoices, "max-voices", envMaxVoices, "Maximum simultaneous voices")
	flagSet.IntVar(&cfg.workers, "workers", envWorkers, "Synthesis workers (0 = one per CPU)")
	flagSet.IntVar(&cfg.queueSize, "queue", envQueue, "Notes that may wait for a worker")
	flagSet.Float64Var(&cfg.amplitude, "amplitude", envAmplitude, "Note amplitude 0.0-1.0")
	flagSet.IntVar(&cfg.durationMs, "duration", envDuration, "Note length in milliseconds")
	flagSet.StringVar(&cfg.note, "note", "", "Play one pitch (e.g. A4, Cs3) and exit")
	flagSet.Float64Var(&cfg.freq, "freq", 0, "Play one raw frequency in Hz and exit")
	flagSet.BoolVar(&cfg.debug, "debug", false, "Development logging")

	flagSet.Usage = func() {
		flagSet.SetOutput(usageOut)
		fmt.Fprintln(usageOut, "Usage: beepsynth [-note A4 | -freq 440] [-waveform sine] [-backend oto] [-tables file]")
		flagSet.PrintDefaults()
	}

	if err := flagSet.Parse(args); err != nil {
		return nil, err
	}
	if cfg.note != "" && cfg.freq != 0 {
		return nil, errors.New("-note and -freq are mutually exclusive")
	}
	if cfg.durationMs <= 0 || cfg.durationMs > beepsynth.MAX_DURATION_MS {
		return nil, fmt.Errorf("-duration %d out of range 1-%d ms", cfg.durationMs, beepsynth.MAX_DURATION_MS)
	}

	if cfg.backend, err = beepsynth.ParseAudioBackend(backend); err != nil {
		return nil, err
	}
	if cfg.format, err = beepsynth.ParseSampleFormat(format); err != nil {
		return nil, err
	}
	if cfg.waveform, err = beepsynth.ParseWaveform(waveform); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := envString(key, "")
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := envString(key, "")
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}
