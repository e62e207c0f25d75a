package engines

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestGTTSEngine_NewGTTSEngine tests engine creation with various configurations
func TestGTTSEngine_NewGTTSEngine(t *testing.T) {
	tests := []struct {
		name       string
		config     GTTSConfig
		wantLang   string
		wantTmpDir string
	}{
		{
			name:     "default configuration",
			config:   GTTSConfig{},
			wantLang: "en",
		},
		{
			name:     "custom language",
			config:   GTTSConfig{Language: "es"},
			wantLang: "es",
		},
		{
			name:     "slow speech enabled",
			config:   GTTSConfig{Language: "en", Slow: true},
			wantLang: "en",
		},
		{
			name:       "custom temp directory",
			config:     GTTSConfig{TempDir: filepath.Join(t.TempDir(), "gtts")},
			wantLang:   "en",
			wantTmpDir: "set",
		},
		{
			name:     "custom rate limiting",
			config:   GTTSConfig{RequestsPerMinute: 30},
			wantLang: "en",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := NewGTTSEngine(tt.config)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			defer engine.Close()

			if engine.language != tt.wantLang {
				t.Errorf("language = %q, want %q", engine.language, tt.wantLang)
			}
			if engine.slow != tt.config.Slow {
				t.Errorf("slow = %v, want %v", engine.slow, tt.config.Slow)
			}
			if engine.rateLimiter == nil {
				t.Error("Rate limiter should not be nil")
			}
			if tt.wantTmpDir != "" && engine.tempDir != tt.config.TempDir {
				t.Errorf("temp dir = %q, want %q", engine.tempDir, tt.config.TempDir)
			}
		})
	}
}

// TestGTTSEngine_GetInfo tests engine info
func TestGTTSEngine_GetInfo(t *testing.T) {
	engine, err := NewGTTSEngine(GTTSConfig{})
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	defer engine.Close()

	info := engine.GetInfo()

	if info.Name != "gtts" {
		t.Errorf("Expected name 'gtts', got '%s'", info.Name)
	}
	if info.SampleRate != 44100 {
		t.Errorf("Expected sample rate 44100, got %d", info.SampleRate)
	}
	if info.Channels != 1 || info.BitDepth != 16 {
		t.Errorf("Expected 16-bit mono, got %d-bit %d channels", info.BitDepth, info.Channels)
	}
	if !info.IsOnline {
		t.Error("gTTS should be marked as online")
	}
	if info.Language != "en" {
		t.Errorf("Expected language en, got %s", info.Language)
	}
}

// TestGTTSEngine_SynthesizeRejectsBadText tests input validation
func TestGTTSEngine_SynthesizeRejectsBadText(t *testing.T) {
	engine, err := NewGTTSEngine(GTTSConfig{})
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	defer engine.Close()

	_, err = engine.Synthesize(context.Background(), "", 1.0)
	if err == nil || !strings.Contains(err.Error(), "text cannot be empty") {
		t.Errorf("Expected error for empty text, got %v", err)
	}

	_, err = engine.Synthesize(context.Background(), strings.Repeat("a", 5001), 1.0)
	if err == nil || !strings.Contains(err.Error(), "text too long") {
		t.Errorf("Expected error for text too long, got %v", err)
	}
}

// TestGTTSEngine_MissingBinary tests that a missing gtts-cli surfaces as an error
func TestGTTSEngine_MissingBinary(t *testing.T) {
	engine, err := NewGTTSEngine(GTTSConfig{TempDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	engine.gttsBin = "measure-no-such-gtts-cli"

	_, err = engine.Synthesize(context.Background(), "1 Meters is equal to 3.28 Feet", 1.0)
	if err == nil {
		t.Fatal("Expected error when gtts-cli is missing")
	}
	if !strings.Contains(err.Error(), "MP3 generation failed") {
		t.Errorf("unexpected error: %v", err)
	}
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("error should wrap exec.ErrNotFound: %v", err)
	}

	if err := engine.Validate(); err == nil {
		t.Error("Validate should fail when gtts-cli is missing")
	}
}

// TestGTTSEngine_RateLimitHonorsContext tests that a cancelled context stops
// the rate limiter wait
func TestGTTSEngine_RateLimitHonorsContext(t *testing.T) {
	engine, err := NewGTTSEngine(GTTSConfig{RequestsPerMinute: 1, TempDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	engine.gttsBin = "measure-no-such-gtts-cli"

	// consume the only token
	_, _ = engine.Synthesize(context.Background(), "first", 1.0)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err = engine.Synthesize(ctx, "second", 1.0)
	if err == nil || !strings.Contains(err.Error(), "rate limit wait cancelled") {
		t.Errorf("Expected rate limit cancellation, got %v", err)
	}
}

// TestRunCommandTimeout tests that runCommand interrupts a slow process
func TestRunCommandTimeout(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := runCommand(ctx, "sleep", []string{"5"}, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("runCommand did not stop the process in time")
	}
}

// TestGTTSEngine_SynthesizeIntegration tests actual synthesis (requires network and tools)
func TestGTTSEngine_SynthesizeIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	if _, err := exec.LookPath("gtts-cli"); err != nil {
		t.Skip("Skipping integration test: gtts-cli not available")
	}
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("Skipping integration test: ffmpeg not available")
	}

	engine, err := NewGTTSEngine(GTTSConfig{Language: "en", RequestsPerMinute: 10})
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	defer engine.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	audio, err := engine.Synthesize(ctx, "100 Kilograms is equal to 100000.00 Grams", 1.0)
	if err != nil {
		t.Skipf("Skipping synthesis test, gTTS unavailable: %v", err)
	}
	if len(audio) < 1000 {
		t.Errorf("Audio data seems too small: %d bytes", len(audio))
	}
}
