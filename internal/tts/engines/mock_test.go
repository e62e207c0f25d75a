package engines

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMockEngine_Synthesize(t *testing.T) {
	engine := NewMockEngine()

	audio, err := engine.Synthesize(context.Background(), "hello", 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(audio) == 0 || len(audio)%2 != 0 {
		t.Errorf("expected non-empty 16-bit PCM, got %d bytes", len(audio))
	}
	if engine.CallCount() != 1 || engine.LastText() != "hello" {
		t.Errorf("call tracking wrong: count=%d text=%q", engine.CallCount(), engine.LastText())
	}
}

func TestMockEngine_Failure(t *testing.T) {
	engine := NewMockEngine()
	boom := errors.New("boom")
	engine.SetFailure(boom)

	if _, err := engine.Synthesize(context.Background(), "hello", 1.0); !errors.Is(err, boom) {
		t.Errorf("expected configured failure, got %v", err)
	}

	engine.SetFailure(nil)
	if _, err := engine.Synthesize(context.Background(), "hello", 1.0); err != nil {
		t.Errorf("expected success after clearing failure, got %v", err)
	}
}

func TestMockEngine_DelayHonorsContext(t *testing.T) {
	engine := NewMockEngine()
	engine.SetDelay(time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := engine.Synthesize(ctx, "hello", 1.0); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
