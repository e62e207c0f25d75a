package tts

import (
	"time"

	"github.com/charmbracelet/measure/internal/ttypes"
)

// DefaultTimeout bounds a single synthesis.
const DefaultTimeout = 10 * time.Second

// DefaultLanguage is the locale every announcement is spoken in.
const DefaultLanguage = "en"

// Config contains speech configuration
type Config struct {
	// Engine is the selected speech engine
	Engine ttypes.EngineType

	// Timeout bounds each synthesis; expiry is a non-fatal failure
	Timeout time.Duration

	// Speed is the speech tempo multiplier (0.5 to 2.0)
	Speed float64

	// Volume is the playback volume (0.0 to 1.0)
	Volume float64

	// Piper contains Piper-specific configuration
	Piper PiperConfig

	// GTTS contains gTTS-specific configuration
	GTTS GTTSConfigSection
}

// PiperConfig contains Piper engine configuration
type PiperConfig struct {
	// ModelPath is the path to the Piper model file
	ModelPath string

	// ConfigPath is the path to the model config file
	ConfigPath string
}

// GTTSConfigSection contains gTTS configuration for the TTS config
type GTTSConfigSection struct {
	// Language is the language code (e.g., "en", "es", "fr")
	Language string

	// Slow enables slower speech pace
	Slow bool

	// TempDir is the directory for temporary files
	TempDir string

	// RequestsPerMinute is the rate limit for requests
	RequestsPerMinute int
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Engine:  ttypes.EngineGoogle,
		Timeout: DefaultTimeout,
		Speed:   1.0,
		Volume:  1.0,
		GTTS: GTTSConfigSection{
			Language:          DefaultLanguage,
			RequestsPerMinute: 50,
		},
	}
}
