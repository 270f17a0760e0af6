// main.go - beepsynth entry point

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
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/intuitionamiga/beepsynth"
	"go.uber.org/zap"
)

// drainTimeout bounds how long one-shot mode waits for the device to finish
// the last note after its nominal duration.
const drainTimeout = 250 * time.Millisecond

func boilerPlate() {
	fmt.Println("\n\033[38;2;255;20;147mbeepsynth\033[0m - table shaped software synthesizer")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("https://github.com/IntuitionAmiga/beepsynth")
	fmt.Println("License: GPLv3 or later")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if err := loadEnv(); err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	cfg, err := parseConfig(args, os.Stdout)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	logger, err := newLogger(cfg.debug)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	tables, err := loadTables(cfg.tables)
	if err != nil {
		logger.Error("cannot build shape tables", zap.String("file", cfg.tables), zap.Error(err))
		return 1
	}

	pitches := beepsynth.NewPitchTable()
	synth := beepsynth.NewSynthesizer(tables, cfg.format)

	mixer := beepsynth.NewMixer(
		beepsynth.WithLogger(logger),
		beepsynth.WithBackend(cfg.backend),
		beepsynth.WithFormat(cfg.format),
		beepsynth.WithMaxVoices(cfg.maxVoices),
	)
	defer mixer.Close()
	if err := mixer.Open(); err != nil {
		// Notes are still validated; they just make no sound.
		logger.Warn("continuing without sound", zap.Error(err))
	}

	scheduler := beepsynth.NewNoteScheduler(pitches, synth, mixer,
		beepsynth.WithLogger(logger),
		beepsynth.WithWorkers(cfg.workers),
		beepsynth.WithQueueSize(cfg.queueSize),
	)
	defer func() { _ = scheduler.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case cfg.note != "":
		err = scheduler.Beep(ctx, cfg.note, cfg.amplitude, cfg.durationMs, cfg.waveform)
	case cfg.freq != 0:
		err = playFrequency(ctx, scheduler, cfg)
	default:
		boilerPlate()
		err = playKeyboard(ctx, logger, scheduler, cfg)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("playback failed", zap.Error(err))
		return 1
	}

	if cfg.note != "" || cfg.freq != 0 {
		waitForSilence(ctx, mixer)
	}
	return 0
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadTables(path string) (*beepsynth.ShapeTables, error) {
	if path == "" {
		return beepsynth.DefaultShapeTables()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", beepsynth.ErrTableLoad, err)
	}
	defer f.Close()
	return beepsynth.LoadShapeTables(f, beepsynth.TABLE_LENGTH)
}

func playFrequency(ctx context.Context, scheduler *beepsynth.NoteScheduler, cfg *config) error {
	if _, err := scheduler.TriggerFrequency(cfg.freq, cfg.amplitude, cfg.durationMs, cfg.waveform); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(time.Duration(cfg.durationMs) * time.Millisecond):
		return nil
	}
}

// waitForSilence gives the device time to play out buffered audio before exit.
func waitForSilence(ctx context.Context, mixer *beepsynth.Mixer) {
	deadline := time.Now().Add(drainTimeout)
	for mixer.ActiveVoices() > 0 && time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func playKeyboard(ctx context.Context, logger *zap.Logger, scheduler *beepsynth.NoteScheduler, cfg *config) error {
	host := NewKeyboardHost(logger, func(key byte) {
		name, ok := pitchForKey(key)
		if !ok {
			return
		}
		if _, err := scheduler.TriggerNote(name, cfg.amplitude, cfg.durationMs, cfg.waveform); err != nil {
			logger.Warn("note dropped", zap.String("pitch", name), zap.Error(err))
		}
	})

	fmt.Println()
	fmt.Println(keyboardHelp)
	if err := host.Start(); err != nil {
		return err
	}
	defer host.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-host.Quit():
		return nil
	}
}
