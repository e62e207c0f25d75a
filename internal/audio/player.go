package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/measure/internal/ttypes"
	"github.com/ebitengine/oto/v3"
)

// ErrPlayerClosed is returned by Play after Close.
var ErrPlayerClosed = errors.New("player is closed")

// ErrNothingToPlay is returned by Play for empty audio.
var ErrNothingToPlay = errors.New("audio data is empty")

// PlayerState represents the current state of the player.
type PlayerState int32

const (
	StateStopped PlayerState = iota
	StatePlaying
	StateClosed
)

func (s PlayerState) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// supportedRates are the PCM rates the speech engines produce.
var supportedRates = []int{22050, 44100, 48000}

// Player plays announcements through oto. oto allows one context per
// process, so a Player is created once per run for the engine's format.
type Player struct {
	context *oto.Context

	player       *oto.Player
	activeStream *AudioStream

	state  atomic.Int32
	volume atomic.Uint64 // math.Float64bits

	startTime time.Time

	mu      sync.RWMutex
	stateMu sync.Mutex

	sampleRate int
	channels   int
	bitDepth   int
	bufferSize int
}

// AudioStream holds the PCM being played. oto reads from it on its own
// goroutine, so the bytes must stay referenced until playback stops.
type AudioStream struct {
	data     []byte
	reader   io.ReadSeeker
	size     int
	duration time.Duration

	mu        sync.Mutex
	closeOnce sync.Once
}

// PlayerConfig contains configuration for the audio player.
type PlayerConfig struct {
	SampleRate int // 22050, 44100 or 48000 Hz
	Channels   int // 1 = mono, 2 = stereo
	BitDepth   int // 16 bits per sample
	BufferSize int // bytes
}

// DefaultPlayerConfig returns the configuration for mono 16-bit speech.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{
		SampleRate: 44100,
		Channels:   1,
		BitDepth:   16,
		BufferSize: 4096,
	}
}

// ConfigFor returns a player configuration matching an engine's output.
func ConfigFor(info ttypes.EngineInfo) PlayerConfig {
	cfg := DefaultPlayerConfig()
	if info.SampleRate > 0 {
		cfg.SampleRate = info.SampleRate
	}
	if info.Channels > 0 {
		cfg.Channels = info.Channels
	}
	return cfg
}

// NewPlayer opens the audio device.
func NewPlayer(config PlayerConfig) (*Player, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	op := &oto.NewContextOptions{
		SampleRate:   config.SampleRate,
		ChannelCount: config.Channels,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   time.Duration(config.BufferSize) * time.Second / time.Duration(config.SampleRate*config.Channels*2),
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-readyChan

	p := &Player{
		context:    ctx,
		sampleRate: config.SampleRate,
		channels:   config.Channels,
		bitDepth:   config.BitDepth,
		bufferSize: config.BufferSize,
	}
	p.state.Store(int32(StateStopped))
	_ = p.SetVolume(1.0)

	log.Debug("audio device ready", "rate", config.SampleRate, "channels", config.Channels)
	return p, nil
}

func validateConfig(config PlayerConfig) error {
	supported := false
	for _, r := range supportedRates {
		if config.SampleRate == r {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("sample rate must be one of %v Hz, got %d", supportedRates, config.SampleRate)
	}
	if config.Channels != 1 && config.Channels != 2 {
		return fmt.Errorf("channels must be 1 (mono) or 2 (stereo), got %d", config.Channels)
	}
	if config.BitDepth != 16 {
		return fmt.Errorf("bit depth must be 16, got %d", config.BitDepth)
	}
	if config.BufferSize <= 0 {
		return errors.New("buffer size must be positive")
	}
	return nil
}

// Play starts playback of audio, replacing anything already playing.
func (p *Player) Play(audio []byte) error {
	if len(audio) == 0 {
		return ErrNothingToPlay
	}

	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	if PlayerState(p.state.Load()) == StateClosed {
		return ErrPlayerClosed
	}
	p.stopInternal()

	stream := newAudioStream(audio, p.sampleRate, p.channels, p.bitDepth)
	player := p.context.NewPlayer(stream.reader)
	if player == nil {
		return errors.New("failed to create oto player")
	}
	player.SetVolume(p.getVolume())

	p.mu.Lock()
	p.player = player
	p.activeStream = stream
	p.startTime = time.Now()
	p.mu.Unlock()

	player.Play()
	p.state.Store(int32(StatePlaying))
	return nil
}

func newAudioStream(audio []byte, sampleRate, channels, bitDepth int) *AudioStream {
	data := make([]byte, len(audio))
	copy(data, audio)

	bytesPerSample := bitDepth / 8
	samples := len(data) / (channels * bytesPerSample)
	return &AudioStream{
		data:     data,
		reader:   bytes.NewReader(data),
		size:     len(data),
		duration: time.Duration(samples) * time.Second / time.Duration(sampleRate),
	}
}

// Stop stops playback and releases the current stream.
func (p *Player) Stop() error {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	p.stopInternal()
	return nil
}

func (p *Player) stopInternal() {
	state := PlayerState(p.state.Load())
	if state == StateClosed {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.player != nil {
		p.player.Pause()
		if err := p.player.Close(); err != nil {
			log.Debug("closing oto player", "error", err)
		}
		p.player = nil
	}
	if p.activeStream != nil {
		p.activeStream.Close()
		p.activeStream = nil
	}
	p.state.Store(int32(StateStopped))
}

// IsPlaying reports whether audio is still coming out of the device.
func (p *Player) IsPlaying() bool {
	if PlayerState(p.state.Load()) != StatePlaying {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.player != nil && p.player.IsPlaying()
}

// GetPosition returns the elapsed playback time, capped at the stream length.
func (p *Player) GetPosition() time.Duration {
	if PlayerState(p.state.Load()) != StatePlaying {
		return 0
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	elapsed := time.Since(p.startTime)
	if p.activeStream != nil && elapsed > p.activeStream.duration {
		elapsed = p.activeStream.duration
	}
	return elapsed
}

// Wait blocks until playback finishes or ctx is done.
func (p *Player) Wait(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for p.IsPlaying() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// SetVolume sets the playback volume (0.0 to 1.0).
func (p *Player) SetVolume(volume float64) error {
	if volume < 0.0 || volume > 1.0 {
		return fmt.Errorf("volume must be between 0.0 and 1.0, got %f", volume)
	}
	p.volume.Store(math.Float64bits(volume))

	p.mu.RLock()
	if p.player != nil {
		p.player.SetVolume(volume)
	}
	p.mu.RUnlock()
	return nil
}

func (p *Player) getVolume() float64 {
	return math.Float64frombits(p.volume.Load())
}

// Close stops playback. oto v3 has no way to release its context, so the
// device stays open until the process exits.
func (p *Player) Close() error {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()

	p.stopInternal()
	p.mu.Lock()
	p.context = nil
	p.mu.Unlock()
	p.state.Store(int32(StateClosed))
	return nil
}

// Close drops the stream's data.
func (s *AudioStream) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.data = nil
		s.reader = nil
	})
}

var _ ttypes.AudioPlayer = (*Player)(nil)
