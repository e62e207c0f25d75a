package tts

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/measure/internal/ttypes"
)

// ValidationResult contains the result of engine validation
type ValidationResult struct {
	// Engine is the validated engine type
	Engine ttypes.EngineType

	// Available indicates if the engine is available and configured
	Available bool

	// Error contains any validation error
	Error error

	// Guidance provides setup instructions if validation failed
	Guidance string

	// Details contains additional validation information
	Details map[string]string
}

// ValidateEngineSelection resolves the engine from the CLI argument, falling
// back to the config. Aliases are normalized.
func ValidateEngineSelection(cliArg string, config Config) (ttypes.EngineType, error) {
	// 1. CLI argument takes precedence
	engineType := strings.TrimSpace(cliArg)

	// 2. Use config if no CLI arg
	if engineType == "" {
		engineType = string(config.Engine)
	}

	if engineType == "" {
		return ttypes.EngineNone, fmt.Errorf("%w\n\nPlease specify an engine:\n  measure --tts gtts     # Google TTS (online)\n  measure --tts piper    # Piper (offline)\n  measure --tts none     # no speech", ErrNoEngineConfigured)
	}

	switch strings.ToLower(engineType) {
	case "gtts", "google":
		return ttypes.EngineGoogle, nil
	case "piper":
		return ttypes.EnginePiper, nil
	case "mock":
		return ttypes.EngineMock, nil
	case "none", "off":
		return ttypes.EngineNone, nil
	default:
		return ttypes.EngineNone, fmt.Errorf("%w: %s\n\nSupported engines:\n  - gtts (Google TTS)\n  - piper (offline TTS)\n  - mock (silent)\n  - none", ErrInvalidEngine, engineType)
	}
}

// ValidateEngine checks that the binaries and files an engine needs exist.
// It does not synthesize anything.
func ValidateEngine(engineType ttypes.EngineType, config Config) *ValidationResult {
	result := &ValidationResult{
		Engine:  engineType,
		Details: make(map[string]string),
	}

	switch engineType {
	case ttypes.EnginePiper:
		result = validatePiperEngine(config.Piper, result)
	case ttypes.EngineGoogle:
		result = validateGoogleEngine(config.GTTS, result)
	case ttypes.EngineMock, ttypes.EngineNone:
		result.Available = true
	default:
		result.Error = fmt.Errorf("%w: %s", ErrInvalidEngine, engineType)
		result.Guidance = "Supported engines: gtts, piper, mock, none"
	}

	return result
}

// ValidateConfig checks the numeric ranges of a speech config.
func ValidateConfig(config Config) error {
	if config.Speed != 0 && (config.Speed < 0.5 || config.Speed > 2.0) {
		return fmt.Errorf("%w: got %.2f", ErrInvalidSpeed, config.Speed)
	}
	if config.Volume < 0 || config.Volume > 1 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidVolume, config.Volume)
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative: %s", config.Timeout)
	}
	if config.GTTS.RequestsPerMinute < 0 {
		return fmt.Errorf("requests per minute must not be negative: %d", config.GTTS.RequestsPerMinute)
	}
	return nil
}

func validatePiperEngine(config PiperConfig, result *ValidationResult) *ValidationResult {
	result.Details["engine"] = "Piper (Offline TTS)"

	piperPath, err := exec.LookPath("piper")
	if err != nil {
		result.Error = fmt.Errorf("piper not found in PATH: %w", err)
		result.Guidance = buildPiperInstallGuidance()
		return result
	}
	result.Details["binary_path"] = piperPath

	if config.ModelPath == "" {
		result.Error = fmt.Errorf("piper model path not configured")
		result.Guidance = buildPiperModelGuidance()
		return result
	}
	if _, err := os.Stat(config.ModelPath); err != nil {
		result.Error = fmt.Errorf("model file not accessible: %w", err)
		result.Guidance = buildPiperModelGuidance()
		return result
	}
	result.Details["model_path"] = config.ModelPath

	result.Available = true
	return result
}

func validateGoogleEngine(config GTTSConfigSection, result *ValidationResult) *ValidationResult {
	result.Details["engine"] = "Google TTS (gTTS - Free)"

	gttsPath, err := exec.LookPath("gtts-cli")
	if err != nil {
		result.Error = fmt.Errorf("gTTS not found in PATH: %w", err)
		result.Guidance = buildGTTSInstallGuidance()
		return result
	}
	result.Details["gtts_path"] = gttsPath

	ffmpegPath, err := exec.LookPath("ffmpeg")
	if err != nil {
		result.Error = fmt.Errorf("ffmpeg not found in PATH: %w", err)
		result.Guidance = buildFFmpegInstallGuidance()
		return result
	}
	result.Details["ffmpeg_path"] = ffmpegPath

	language := config.Language
	if language == "" {
		language = DefaultLanguage
	}
	result.Details["language"] = language

	if config.TempDir != "" {
		if _, err := os.Stat(config.TempDir); err != nil {
			result.Error = fmt.Errorf("temp directory not accessible: %w", err)
			result.Guidance = "Check temp directory path and permissions"
			return result
		}
		result.Details["temp_dir"] = config.TempDir
	}

	result.Available = true
	return result
}

func buildPiperInstallGuidance() string {
	return `Piper TTS is not installed. To install:

1. Download Piper from: https://github.com/rhasspy/piper/releases
2. Extract it and add the binary to PATH
3. Download a voice model from: https://github.com/rhasspy/piper/blob/master/VOICES.md
4. Set tts.piper.model in your measure config (measure config)`
}

func buildPiperModelGuidance() string {
	return `Piper model path not configured. To configure:

1. Download an English voice model, for example:
   https://huggingface.co/rhasspy/piper-voices/resolve/v1.0.0/en/en_US/amy/medium/en_US-amy-medium.onnx
   and its .onnx.json next to it

2. Point measure at it:
   tts:
     engine: piper
     piper:
       model: ~/.local/share/piper/models/en_US-amy-medium.onnx`
}

func buildGTTSInstallGuidance() string {
	return `gTTS (Google Text-to-Speech) is not installed. To install:

   pip install gtts    # or: pipx install gtts

Verify with: gtts-cli --help
gTTS requires an internet connection.`
}

func buildFFmpegInstallGuidance() string {
	return `ffmpeg is required for gTTS audio conversion. To install:

# Debian/Ubuntu
sudo apt install ffmpeg

# macOS (Homebrew)
brew install ffmpeg

# Or download from: https://ffmpeg.org/download.html`
}
