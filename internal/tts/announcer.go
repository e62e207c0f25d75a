// Package tts turns conversion sentences into audio. The Announcer wraps a
// speech engine with a bounded timeout and hands back the audio for the
// caller to play on request; it never plays anything itself.
package tts

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/measure/internal/ttypes"
)

// Announcement is synthesized speech waiting for manual playback.
type Announcement struct {
	Text       string
	Audio      []byte
	SampleRate int
	Channels   int
	Duration   time.Duration
	CreatedAt  time.Time
}

// Announcer synthesizes sentences with a single engine. Every call performs
// a fresh synthesis; results are never cached.
type Announcer struct {
	engine  ttypes.TTSEngine
	timeout time.Duration
	speed   float64
}

// NewAnnouncer returns an announcer bounded by timeout. A non-positive
// timeout uses DefaultTimeout.
func NewAnnouncer(engine ttypes.TTSEngine, timeout time.Duration) *Announcer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Announcer{
		engine:  engine,
		timeout: timeout,
		speed:   1.0,
	}
}

// SetSpeed changes the tempo passed to the engine.
func (a *Announcer) SetSpeed(speed float64) error {
	if speed < 0.5 || speed > 2.0 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidSpeed, speed)
	}
	a.speed = speed
	return nil
}

// Engine returns the underlying engine info.
func (a *Announcer) Engine() ttypes.EngineInfo {
	if a == nil || a.engine == nil {
		return ttypes.EngineInfo{Name: string(ttypes.EngineNone)}
	}
	return a.engine.GetInfo()
}

// Timeout returns the synthesis bound.
func (a *Announcer) Timeout() time.Duration {
	return a.timeout
}

// Announce synthesizes text. Errors are *TTSError values wrapping
// ErrSynthesisFailed; a timeout additionally wraps ErrTimeout.
func (a *Announcer) Announce(ctx context.Context, text string) (*Announcement, error) {
	if a == nil || a.engine == nil {
		return nil, NewTTSError(ErrorCodeEngineUnavailable, "no speech engine", ErrSpeechDisabled)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	info := a.engine.GetInfo()
	start := time.Now()
	audio, err := a.engine.Synthesize(ctx, text, a.speed)
	if err != nil {
		terr := a.classify(ctx, err).
			WithContext("engine", info.Name).
			WithContext("elapsed", time.Since(start))
		log.Warn("announcement failed", "engine", info.Name, "error", terr)
		return nil, terr
	}
	if len(audio) == 0 {
		return nil, NewTTSError(ErrorCodeEngineFailure, "engine returned no audio",
			ErrSynthesisFailed).WithContext("engine", info.Name)
	}

	channels := info.Channels
	if channels == 0 {
		channels = 1
	}
	ann := &Announcement{
		Text:       text,
		Audio:      audio,
		SampleRate: info.SampleRate,
		Channels:   channels,
		Duration:   ttypes.PCMDuration(len(audio), info.SampleRate, channels),
		CreatedAt:  time.Now(),
	}
	log.Debug("announcement ready", "engine", info.Name, "bytes", len(audio), "duration", ann.Duration, "took", time.Since(start))
	return ann, nil
}

// classify maps an engine error to a TTSError code.
func (a *Announcer) classify(ctx context.Context, err error) *TTSError {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded), errors.Is(err, context.DeadlineExceeded):
		return NewTTSError(ErrorCodeTimeout,
			fmt.Sprintf("synthesis took longer than %s", a.timeout),
			fmt.Errorf("%w: %w: %w", ErrSynthesisFailed, ErrTimeout, err))
	case errors.Is(ctx.Err(), context.Canceled), errors.Is(err, context.Canceled):
		return NewTTSError(ErrorCodeCanceled, "synthesis canceled",
			fmt.Errorf("%w: %w: %w", ErrSynthesisFailed, ErrCanceled, err))
	case errors.Is(err, exec.ErrNotFound):
		return NewTTSError(ErrorCodeEngineUnavailable, "speech engine is not installed",
			fmt.Errorf("%w: %w: %w", ErrSynthesisFailed, ErrEngineNotAvailable, err))
	default:
		return NewTTSError(ErrorCodeEngineFailure, "synthesis failed",
			fmt.Errorf("%w: %w", ErrSynthesisFailed, err))
	}
}
