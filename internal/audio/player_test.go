package audio

import (
	"testing"
	"time"

	"github.com/charmbracelet/measure/internal/ttypes"
)

func TestPlayerConfig(t *testing.T) {
	tests := []struct {
		name      string
		config    PlayerConfig
		expectErr bool
	}{
		{
			name:   "piper rate",
			config: PlayerConfig{SampleRate: 22050, Channels: 1, BitDepth: 16, BufferSize: 4096},
		},
		{
			name:   "gtts rate",
			config: PlayerConfig{SampleRate: 44100, Channels: 1, BitDepth: 16, BufferSize: 4096},
		},
		{
			name:   "stereo 48000Hz",
			config: PlayerConfig{SampleRate: 48000, Channels: 2, BitDepth: 16, BufferSize: 8192},
		},
		{
			name:      "invalid sample rate",
			config:    PlayerConfig{SampleRate: 16000, Channels: 1, BitDepth: 16, BufferSize: 4096},
			expectErr: true,
		},
		{
			name:      "invalid channels",
			config:    PlayerConfig{SampleRate: 44100, Channels: 3, BitDepth: 16, BufferSize: 4096},
			expectErr: true,
		},
		{
			name:      "invalid bit depth",
			config:    PlayerConfig{SampleRate: 44100, Channels: 1, BitDepth: 24, BufferSize: 4096},
			expectErr: true,
		},
		{
			name:      "invalid buffer size",
			config:    PlayerConfig{SampleRate: 44100, Channels: 1, BitDepth: 16, BufferSize: 0},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfig(tt.config)
			if (err != nil) != tt.expectErr {
				t.Errorf("validateConfig() error = %v, expectErr %v", err, tt.expectErr)
			}
		})
	}
}

func TestDefaultPlayerConfig(t *testing.T) {
	if err := validateConfig(DefaultPlayerConfig()); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestConfigFor(t *testing.T) {
	cfg := ConfigFor(ttypes.EngineInfo{Name: "piper", SampleRate: 22050, Channels: 1})
	if cfg.SampleRate != 22050 || cfg.Channels != 1 {
		t.Errorf("ConfigFor(piper) = %+v", cfg)
	}

	cfg = ConfigFor(ttypes.EngineInfo{Name: "unknown"})
	if cfg != DefaultPlayerConfig() {
		t.Errorf("ConfigFor(empty) = %+v, want defaults", cfg)
	}
}

func TestAudioStream(t *testing.T) {
	audio := make([]byte, 44100*2)
	audio[0] = 7
	stream := newAudioStream(audio, 44100, 1, 16)

	if stream.duration != time.Second {
		t.Errorf("duration = %v, want 1s", stream.duration)
	}
	if stream.size != len(audio) {
		t.Errorf("size = %d, want %d", stream.size, len(audio))
	}

	// the stream owns a copy
	audio[0] = 0
	if stream.data[0] != 7 {
		t.Error("stream should not alias the caller's buffer")
	}

	stream.Close()
	stream.Close()
	if stream.data != nil || stream.reader != nil {
		t.Error("closed stream should drop its data")
	}
}

func TestPlayerStateString(t *testing.T) {
	tests := map[PlayerState]string{
		StateStopped:   "stopped",
		StatePlaying:   "playing",
		StateClosed:    "closed",
		PlayerState(9): "unknown",
	}
	for state, want := range tests {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}
