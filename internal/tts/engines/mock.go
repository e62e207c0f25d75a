package engines

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/measure/internal/ttypes"
)

// MockEngine implements the TTSEngine interface without external tools. It
// returns silence sized to the text and can be told to fail or stall.
type MockEngine struct {
	delay      time.Duration
	failWith   error
	sampleRate int

	mu        sync.Mutex
	callCount int
	lastText  string
}

// NewMockEngine creates a mock engine that answers immediately.
func NewMockEngine() *MockEngine {
	return &MockEngine{sampleRate: 44100}
}

// SetDelay makes Synthesize wait d before answering, or until ctx is done.
func (e *MockEngine) SetDelay(d time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.delay = d
}

// SetFailure makes every Synthesize call return err. nil restores success.
func (e *MockEngine) SetFailure(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.failWith = err
}

// Synthesize returns about 50ms of silence per character.
func (e *MockEngine) Synthesize(ctx context.Context, text string, _ float64) ([]byte, error) {
	e.mu.Lock()
	e.callCount++
	e.lastText = text
	delay, failWith := e.delay, e.failWith
	e.mu.Unlock()

	if err := checkText(text, 5000); err != nil {
		return nil, err
	}

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if failWith != nil {
		return nil, failWith
	}

	samples := len(text) * e.sampleRate / 20
	return make([]byte, samples*2), nil
}

// CallCount returns how many times Synthesize was called.
func (e *MockEngine) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.callCount
}

// LastText returns the text of the latest Synthesize call.
func (e *MockEngine) LastText() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastText
}

// GetInfo returns engine capabilities and configuration.
func (e *MockEngine) GetInfo() ttypes.EngineInfo {
	return ttypes.EngineInfo{
		Name:        "mock",
		Version:     "1.0.0",
		Language:    "en",
		SampleRate:  e.sampleRate,
		Channels:    1,
		BitDepth:    16,
		MaxTextSize: 5000,
	}
}

// Validate always succeeds.
func (e *MockEngine) Validate() error { return nil }

// Close releases nothing.
func (e *MockEngine) Close() error { return nil }

var _ ttypes.TTSEngine = (*MockEngine)(nil)
