package engines

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/measure/internal/ttypes"
)

const (
	piperSampleRate   = 22050
	piperMaxTextSize  = 5000
	piperMaxAudioSize = 10 * 1024 * 1024
)

// PiperEngine implements the TTSEngine interface using Piper (offline TTS).
// It runs a fresh process per synthesis with the text pre-loaded on stdin.
type PiperEngine struct {
	modelPath  string
	configPath string
	sampleRate int
	binary     string

	mu sync.RWMutex
}

// PiperConfig holds configuration for the Piper engine.
type PiperConfig struct {
	// Model file path (required)
	ModelPath string

	// Config file path (optional, defaults to model path with .json extension)
	ConfigPath string

	// Sample rate of the model (optional, defaults to 22050)
	SampleRate int
}

// NewPiperEngine creates a new Piper TTS engine.
func NewPiperEngine(config PiperConfig) (*PiperEngine, error) {
	if config.ModelPath == "" {
		return nil, errors.New("model path is required")
	}
	if _, err := os.Stat(config.ModelPath); err != nil {
		return nil, fmt.Errorf("model file not found: %w", err)
	}

	if config.ConfigPath == "" {
		config.ConfigPath = config.ModelPath + ".json"
		if _, err := os.Stat(config.ConfigPath); err != nil {
			config.ConfigPath = strings.TrimSuffix(config.ModelPath, filepath.Ext(config.ModelPath)) + ".json"
		}
	}

	if config.SampleRate == 0 {
		config.SampleRate = piperSampleRate
	}

	return &PiperEngine{
		modelPath:  config.ModelPath,
		configPath: config.ConfigPath,
		sampleRate: config.SampleRate,
		binary:     "piper",
	}, nil
}

// Synthesize converts text to raw PCM using Piper.
func (e *PiperEngine) Synthesize(ctx context.Context, text string, speed float64) ([]byte, error) {
	if err := checkText(text, piperMaxTextSize); err != nil {
		return nil, err
	}

	// Piper's length scale is the inverse of speed: 2.0 = half speed
	if speed <= 0 {
		speed = 1.0
	}
	lengthScale := 1.0 / clampSpeed(speed)

	e.mu.RLock()
	args := []string{
		"--model", e.modelPath,
		"--config", e.configPath,
		"--output-raw",
		"--length-scale", fmt.Sprintf("%.2f", lengthScale),
	}
	e.mu.RUnlock()

	audio, err := runCommand(ctx, e.binary, args, []byte(text))
	if err != nil {
		return nil, err
	}
	if len(audio) > piperMaxAudioSize {
		return nil, fmt.Errorf("piper output too large: %d bytes (max %d)", len(audio), piperMaxAudioSize)
	}
	return audio, nil
}

// GetInfo returns engine capabilities and configuration.
func (e *PiperEngine) GetInfo() ttypes.EngineInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return ttypes.EngineInfo{
		Name:        "piper",
		Version:     "1.0.0",
		Language:    "en",
		SampleRate:  e.sampleRate,
		Channels:    1,
		BitDepth:    16,
		MaxTextSize: piperMaxTextSize,
		IsOnline:    false,
	}
}

// Validate checks if the engine is properly configured and available.
func (e *PiperEngine) Validate() error {
	piperPath, err := exec.LookPath(e.binary)
	if err != nil {
		return fmt.Errorf("piper not found in PATH: %w", err)
	}
	if err := exec.Command(piperPath, "--version").Run(); err != nil {
		return fmt.Errorf("cannot execute piper: %w", err)
	}
	if _, err := os.Stat(e.modelPath); err != nil {
		return fmt.Errorf("model file not accessible: %w", err)
	}
	return nil
}

// Close releases resources held by the engine.
func (e *PiperEngine) Close() error {
	return nil
}

// Ensure PiperEngine implements TTSEngine interface
var _ ttypes.TTSEngine = (*PiperEngine)(nil)
