// Package ttypes contains shared types and interfaces for the speech system.
// It breaks the import cycle between tts, engines and audio.
package ttypes

import (
	"context"
	"time"
)

// EngineType represents the speech engine selection
type EngineType string

const (
	// EngineGoogle is gTTS, the Google Translate speech service
	EngineGoogle EngineType = "gtts"

	// EnginePiper is the Piper offline engine
	EnginePiper EngineType = "piper"

	// EngineMock produces silent audio without external tools
	EngineMock EngineType = "mock"

	// EngineNone disables speech
	EngineNone EngineType = "none"
)

// TTSEngine defines the contract for text-to-speech engines.
type TTSEngine interface {
	// Synthesize converts text to audio data.
	// Returns PCM (16-bit, mono, sample rate per GetInfo).
	// Implementations must honor ctx cancellation.
	Synthesize(ctx context.Context, text string, speed float64) ([]byte, error)

	// GetInfo returns engine capabilities and configuration.
	GetInfo() EngineInfo

	// Validate checks if the engine is properly configured and available.
	Validate() error

	// Close releases any resources held by the engine.
	Close() error
}

// EngineInfo describes engine capabilities and configuration.
type EngineInfo struct {
	Name        string // Engine name (e.g., "piper", "gtts")
	Version     string
	Language    string // Locale the engine speaks
	SampleRate  int    // Audio sample rate in Hz
	Channels    int    // 1=mono, 2=stereo
	BitDepth    int    // Bits per sample (typically 16)
	MaxTextSize int    // Maximum text size in characters
	IsOnline    bool   // Whether the engine requires internet
}

// AudioPlayer defines the contract for audio playback.
type AudioPlayer interface {
	// Play starts playback of audio data.
	// The implementation MUST keep the audio data alive during playback.
	Play(audio []byte) error

	// Stop stops playback and releases the current stream.
	Stop() error

	// IsPlaying returns whether audio is currently playing.
	IsPlaying() bool

	// GetPosition returns the current playback position.
	GetPosition() time.Duration

	// SetVolume sets the playback volume (0.0 to 1.0).
	SetVolume(volume float64) error

	// Close releases audio device and resources.
	Close() error
}

// PCMDuration returns how long a 16-bit PCM buffer plays for.
func PCMDuration(size, sampleRate, channels int) time.Duration {
	if sampleRate <= 0 || channels <= 0 {
		return 0
	}
	samples := size / (channels * 2)
	return time.Duration(samples) * time.Second / time.Duration(sampleRate)
}
