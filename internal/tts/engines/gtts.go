package engines

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/measure/internal/ttypes"
	"golang.org/x/time/rate"
)

const (
	gttsSampleRate  = 44100
	gttsMaxTextSize = 5000
	maxMP3Size      = 50 * 1024 * 1024
	maxPCMSize      = 20 * 1024 * 1024
)

// GTTSEngine implements the TTSEngine interface using gTTS (Google Translate TTS).
// It uses gtts-cli to generate MP3, then converts to PCM using ffmpeg.
// Every call synthesizes from scratch; nothing is cached.
type GTTSEngine struct {
	language   string
	slow       bool
	tempDir    string
	sampleRate int

	// Rate limiting to avoid being blocked by Google
	rateLimiter *rate.Limiter

	// Binaries, overridable in tests
	gttsBin   string
	ffmpegBin string

	mu sync.RWMutex
}

// GTTSConfig holds configuration for the gTTS engine.
type GTTSConfig struct {
	// Language code (e.g., "en", "es", "fr") - defaults to "en"
	Language string

	// Slow speech (--slow flag)
	Slow bool

	// TempDir for intermediate files - defaults to system temp
	TempDir string

	// Rate limit requests per minute to avoid being blocked (defaults to 50)
	RequestsPerMinute int
}

// NewGTTSEngine creates a new gTTS engine.
func NewGTTSEngine(config GTTSConfig) (*GTTSEngine, error) {
	if config.Language == "" {
		config.Language = "en"
	}

	if config.TempDir == "" {
		config.TempDir = os.TempDir()
	}
	if err := os.MkdirAll(config.TempDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}

	if config.RequestsPerMinute <= 0 {
		config.RequestsPerMinute = 50
	}

	rateLimiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), 1)

	return &GTTSEngine{
		language:    config.Language,
		slow:        config.Slow,
		tempDir:     config.TempDir,
		sampleRate:  gttsSampleRate,
		rateLimiter: rateLimiter,
		gttsBin:     "gtts-cli",
		ffmpegBin:   "ffmpeg",
	}, nil
}

// Synthesize converts text to audio using gTTS.
// Process: text → gtts-cli → MP3 → ffmpeg → PCM
func (e *GTTSEngine) Synthesize(ctx context.Context, text string, speed float64) ([]byte, error) {
	if err := checkText(text, gttsMaxTextSize); err != nil {
		return nil, err
	}

	if err := e.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	start := time.Now()
	mp3Data, err := e.synthesizeToMP3(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("MP3 generation failed: %w", err)
	}

	pcmData, err := e.convertMP3ToPCM(ctx, mp3Data, speed)
	if err != nil {
		return nil, fmt.Errorf("MP3 to PCM conversion failed: %w", err)
	}

	log.Debug("gtts synthesized", "chars", len(text), "bytes", len(pcmData), "took", time.Since(start))
	return pcmData, nil
}

// synthesizeToMP3 generates MP3 audio using gtts-cli
func (e *GTTSEngine) synthesizeToMP3(ctx context.Context, text string) ([]byte, error) {
	e.mu.RLock()
	args := []string{text, "-l", e.language}
	if e.slow {
		args = append(args, "--slow")
	}
	e.mu.RUnlock()
	args = append(args, "-o", "-")

	mp3Data, err := runCommand(ctx, e.gttsBin, args, nil)
	if err != nil {
		return nil, err
	}
	if len(mp3Data) > maxMP3Size {
		return nil, fmt.Errorf("gtts-cli MP3 output too large: %d bytes (max %d)", len(mp3Data), maxMP3Size)
	}
	return mp3Data, nil
}

// convertMP3ToPCM converts MP3 data to PCM using ffmpeg
func (e *GTTSEngine) convertMP3ToPCM(ctx context.Context, mp3Data []byte, speed float64) ([]byte, error) {
	mp3File, err := os.CreateTemp(e.tempDir, "measure-*.mp3")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp MP3 file: %w", err)
	}
	defer os.Remove(mp3File.Name()) //nolint:errcheck

	if _, err := mp3File.Write(mp3Data); err != nil {
		_ = mp3File.Close()
		return nil, fmt.Errorf("failed to write MP3 data: %w", err)
	}
	if err := mp3File.Close(); err != nil {
		return nil, fmt.Errorf("failed to close MP3 file: %w", err)
	}

	args := []string{
		"-i", mp3File.Name(),
		"-f", "s16le", // signed 16-bit little-endian
		"-ar", fmt.Sprint(e.sampleRate),
		"-ac", "1",
	}

	// ffmpeg atempo filter supports 0.5 to 2.0
	if speed > 0 && speed != 1.0 {
		args = append(args, "-filter:a", fmt.Sprintf("atempo=%.2f", clampSpeed(speed)))
	}
	args = append(args, "-")

	pcmData, err := runCommand(ctx, e.ffmpegBin, args, nil)
	if err != nil {
		return nil, err
	}
	if len(pcmData) > maxPCMSize {
		return nil, fmt.Errorf("ffmpeg PCM output too large: %d bytes (max %d)", len(pcmData), maxPCMSize)
	}
	return pcmData, nil
}

// GetInfo returns engine capabilities and configuration.
func (e *GTTSEngine) GetInfo() ttypes.EngineInfo {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return ttypes.EngineInfo{
		Name:        "gtts",
		Version:     "1.0.0",
		Language:    e.language,
		SampleRate:  e.sampleRate,
		Channels:    1,
		BitDepth:    16,
		MaxTextSize: gttsMaxTextSize,
		IsOnline:    true,
	}
}

// Validate checks that gtts-cli and ffmpeg can be executed.
func (e *GTTSEngine) Validate() error {
	gttsPath, err := exec.LookPath(e.gttsBin)
	if err != nil {
		return fmt.Errorf("gtts-cli not found in PATH: %w\n\nInstall with: pip install gtts", err)
	}
	ffmpegPath, err := exec.LookPath(e.ffmpegBin)
	if err != nil {
		return fmt.Errorf("ffmpeg not found in PATH: %w\n\nInstall ffmpeg for audio conversion", err)
	}
	if err := exec.Command(gttsPath, "--help").Run(); err != nil {
		return fmt.Errorf("cannot execute gtts-cli: %w", err)
	}
	if err := exec.Command(ffmpegPath, "-version").Run(); err != nil {
		return fmt.Errorf("cannot execute ffmpeg: %w", err)
	}
	return nil
}

// Close releases resources held by the engine.
func (e *GTTSEngine) Close() error {
	return nil
}

// checkText rejects text the engines cannot speak.
func checkText(text string, max int) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("text cannot be empty")
	}
	if len(text) > max {
		return fmt.Errorf("text too long: %d characters (max %d)", len(text), max)
	}
	return nil
}

func clampSpeed(speed float64) float64 {
	if speed < 0.5 {
		return 0.5
	}
	if speed > 2.0 {
		return 2.0
	}
	return speed
}

// runCommand runs name with args, feeding stdin, and returns stdout. The
// process is interrupted, then killed, when ctx is done.
func runCommand(ctx context.Context, name string, args []string, stdin []byte) ([]byte, error) {
	cmd := exec.Command(name, args...) //nolint:gosec
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("%s failed to start: %w", name, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			return nil, fmt.Errorf("%s failed: %w, stderr: %s", name, err, strings.TrimSpace(stderr.String()))
		}

	case <-ctx.Done():
		// Try graceful shutdown first
		_ = cmd.Process.Signal(os.Interrupt)
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
			_ = cmd.Process.Kill()
			<-done
		}
		return nil, fmt.Errorf("%s interrupted: %w", name, ctx.Err())
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("%s produced no output, stderr: %s", name, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Ensure GTTSEngine implements TTSEngine interface
var _ ttypes.TTSEngine = (*GTTSEngine)(nil)
