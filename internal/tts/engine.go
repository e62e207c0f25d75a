package tts

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/measure/internal/tts/engines"
	"github.com/charmbracelet/measure/internal/ttypes"
)

// NewEngine builds the engine selected in config. EngineNone yields a nil
// engine and no error: speech is simply off.
func NewEngine(config Config) (ttypes.TTSEngine, error) {
	switch config.Engine {
	case ttypes.EngineGoogle:
		engine, err := engines.NewGTTSEngine(engines.GTTSConfig{
			Language:          config.GTTS.Language,
			Slow:              config.GTTS.Slow,
			TempDir:           config.GTTS.TempDir,
			RequestsPerMinute: config.GTTS.RequestsPerMinute,
		})
		if err != nil {
			return nil, NewTTSError(ErrorCodeEngineUnavailable, "cannot create gtts engine", err)
		}
		return engine, nil

	case ttypes.EnginePiper:
		engine, err := engines.NewPiperEngine(engines.PiperConfig{
			ModelPath:  config.Piper.ModelPath,
			ConfigPath: config.Piper.ConfigPath,
		})
		if err != nil {
			return nil, NewTTSError(ErrorCodeEngineUnavailable, "cannot create piper engine", err)
		}
		return engine, nil

	case ttypes.EngineMock:
		return engines.NewMockEngine(), nil

	case ttypes.EngineNone:
		return nil, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidEngine, config.Engine)
	}
}

// NewAnnouncerFromConfig builds the engine and wraps it in an Announcer.
// It returns a nil Announcer when speech is off.
func NewAnnouncerFromConfig(config Config) (*Announcer, error) {
	engine, err := NewEngine(config)
	if err != nil {
		return nil, err
	}
	if engine == nil {
		log.Debug("speech disabled")
		return nil, nil
	}

	if result := ValidateEngine(config.Engine, config); !result.Available {
		// Keep going: a failed announcement is not fatal and shows in the UI.
		log.Warn("speech engine not ready", "engine", config.Engine, "error", result.Error)
	}

	a := NewAnnouncer(engine, config.Timeout)
	if config.Speed != 0 {
		if err := a.SetSpeed(config.Speed); err != nil {
			return nil, err
		}
	}
	log.Debug("speech enabled", "engine", config.Engine, "timeout", a.Timeout())
	return a, nil
}
