// audio_scheduler.go - Note triggering and the synthesis worker pool

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
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// VoiceSink receives rendered notes. *Mixer is the production sink.
type VoiceSink interface {
	AddInput(buf *SampleBuffer) error
	Disabled() bool
}

type noteJob struct {
	id  uuid.UUID
	req NoteRequest
}

// NoteScheduler is the entry point for input layers. A trigger validates the
// note on the caller's goroutine, then queues it for a fixed pool of workers
// that synthesize it and hand it to the sink. Playback is fire-and-forget.
type NoteScheduler struct {
	pitches *PitchTable
	synth   *Synthesizer
	sink    VoiceSink
	log     *zap.Logger

	jobs   chan noteJob
	group  errgroup.Group
	mu     sync.RWMutex // Guards closed against sends on jobs
	closed bool

	dropped  atomic.Uint64
	failed   atomic.Uint64
	rendered atomic.Uint64
}

// NewNoteScheduler starts the worker pool.
func NewNoteScheduler(pitches *PitchTable, synth *Synthesizer, sink VoiceSink, opts ...Option) *NoteScheduler {
	o := applyDefaultOptions(opts...)
	s := &NoteScheduler{
		pitches: pitches,
		synth:   synth,
		sink:    sink,
		log:     o.Logger.Named("scheduler"),
		jobs:    make(chan noteJob, o.QueueSize),
	}
	for i := 0; i < o.Workers; i++ {
		s.group.Go(s.worker)
	}
	s.log.Debug("note scheduler started",
		zap.Int("workers", o.Workers), zap.Int("queue_size", o.QueueSize))
	return s
}

// TriggerNote plays the named pitch, e.g. "A4" or "Cs3", through the wavetable
// and envelope.
func (s *NoteScheduler) TriggerNote(pitchName string, amplitude float64, durationMs int, waveform Waveform) (uuid.UUID, error) {
	p, err := s.pitches.Lookup(pitchName)
	if err != nil {
		s.log.Debug("note rejected", zap.String("pitch", pitchName), zap.Error(err))
		return uuid.Nil, err
	}
	return s.TriggerFrequency(p.Frequency, amplitude, durationMs, waveform)
}

// TriggerFrequency plays a raw frequency through the wavetable and envelope.
func (s *NoteScheduler) TriggerFrequency(frequency, amplitude float64, durationMs int, waveform Waveform) (uuid.UUID, error) {
	return s.Trigger(NoteRequest{
		Frequency:      frequency,
		Amplitude:      amplitude,
		DurationMs:     durationMs,
		Waveform:       waveform,
		ApplyWavetable: true,
		ApplyEnvelope:  true,
	})
}

// Trigger queues req. Invalid notes are rejected with a per-note error. When
// playback is disabled the note is silently discarded and uuid.Nil returned.
// A full queue drops the note with ErrQueueFull.
func (s *NoteScheduler) Trigger(req NoteRequest) (uuid.UUID, error) {
	if _, _, err := req.Validate(); err != nil {
		s.log.Debug("note rejected", zap.Float64("frequency", req.Frequency), zap.Error(err))
		return uuid.Nil, err
	}
	if s.sink.Disabled() {
		return uuid.Nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return uuid.Nil, ErrSchedulerClosed
	}

	job := noteJob{id: uuid.New(), req: req}
	select {
	case s.jobs <- job:
		return job.id, nil
	default:
		s.dropped.Add(1)
		s.log.Warn("note queue full, note dropped",
			zap.Stringer("note", job.id), zap.Int("queue_size", cap(s.jobs)))
		return uuid.Nil, fmt.Errorf("%w: %d notes waiting", ErrQueueFull, cap(s.jobs))
	}
}

// Beep triggers the named pitch and blocks for its duration, for callers that
// expect the note to have finished when they resume. Mixing does not depend on
// the wait; cancelling ctx only ends the wait early.
func (s *NoteScheduler) Beep(ctx context.Context, pitchName string, amplitude float64, durationMs int, waveform Waveform) error {
	if _, err := s.TriggerNote(pitchName, amplitude, durationMs, waveform); err != nil {
		return err
	}

	timer := time.NewTimer(time.Duration(durationMs) * time.Millisecond)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *NoteScheduler) worker() error {
	for job := range s.jobs {
		s.render(job)
	}
	return nil
}

func (s *NoteScheduler) render(job noteJob) {
	start := time.Now()
	buf, err := s.synth.Generate(job.req)
	if err != nil {
		s.failed.Add(1)
		s.log.Error("note synthesis failed", zap.Stringer("note", job.id), zap.Error(err))
		return
	}
	if err := s.sink.AddInput(buf); err != nil {
		s.failed.Add(1)
		s.log.Error("voice rejected by mixer", zap.Stringer("note", job.id), zap.Error(err))
		return
	}
	s.rendered.Add(1)
	s.log.Debug("note playing",
		zap.Stringer("note", job.id),
		zap.Float64("frequency", job.req.Frequency),
		zap.Stringer("waveform", job.req.Waveform),
		zap.Int("frames", buf.Frames()),
		zap.Duration("render", time.Since(start)))
}

// Stats returns the number of notes rendered, dropped on a full queue, and
// failed after queuing.
func (s *NoteScheduler) Stats() (rendered, dropped, failed uint64) {
	return s.rendered.Load(), s.dropped.Load(), s.failed.Load()
}

// Close stops accepting notes, finishes the queued ones and waits for the workers.
func (s *NoteScheduler) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.jobs)
	s.mu.Unlock()

	err := s.group.Wait()
	rendered, dropped, failed := s.Stats()
	s.log.Debug("note scheduler stopped",
		zap.Uint64("rendered", rendered), zap.Uint64("dropped", dropped), zap.Uint64("failed", failed))
	return err
}
