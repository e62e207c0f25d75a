package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/charmbracelet/measure/internal/convert"
	"github.com/charmbracelet/measure/internal/tts"
	"github.com/charmbracelet/measure/internal/ttypes"
)

func TestRunConvert(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"1", "meters", "feet"}, "1 Meters is equal to 3.28 Feet"},
		{[]string{"100", "Celsius", "Fahrenheit"}, "100 Celsius is equal to 212.00 Fahrenheit"},
		{[]string{"-40", "celsius", "fahrenheit"}, "-40 Celsius is equal to -40.00 Fahrenheit"},
		{[]string{"1", "kilograms", "pounds"}, "1 Kilograms is equal to 2.20 Pounds"},
		{[]string{"0", "miles", "kilometers"}, "0 Miles is equal to 0.00 Kilometers"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			var buf bytes.Buffer
			sentence, err := runConvert(&buf, tt.args)
			if err != nil {
				t.Fatalf("runConvert() error = %v", err)
			}
			if sentence != tt.want {
				t.Errorf("sentence = %q, want %q", sentence, tt.want)
			}
			if got := strings.TrimSpace(buf.String()); got != tt.want {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRunConvertErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown unit", []string{"1", "parsecs", "feet"}, convert.ErrUnknownUnit},
		{"mixed kinds", []string{"1", "meters", "pounds"}, errUnitMismatch},
		{"negative length", []string{"-1", "meters", "feet"}, convert.ErrBelowLowerBound},
		{"below absolute zero", []string{"-300", "fahrenheit", "celsius"}, convert.ErrBelowLowerBound},
		{"nan", []string{"NaN", "meters", "feet"}, convert.ErrNotFinite},
		{"infinite", []string{"Inf", "kilograms", "grams"}, convert.ErrNotFinite},
		{"out of range", []string{"1e400", "meters", "feet"}, strconv.ErrRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			_, err := runConvert(&buf, tt.args)
			if !errors.Is(err, tt.want) {
				t.Errorf("runConvert() error = %v, want %v", err, tt.want)
			}
			if buf.Len() != 0 {
				t.Errorf("expected no output, got %q", buf.String())
			}
		})
	}

	if _, err := runConvert(&bytes.Buffer{}, []string{"ten", "meters", "feet"}); err == nil {
		t.Error("expected an error for a non-numeric value")
	}
}

func TestValidateTTSConfig(t *testing.T) {
	model := filepath.Join(t.TempDir(), "voice.onnx")
	if err := os.WriteFile(model, []byte("model"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		mutate  func(*tts.Config)
		wantErr bool
	}{
		{"defaults", func(*tts.Config) {}, false},
		{"speech off", func(c *tts.Config) { c.Engine = ttypes.EngineNone }, false},
		{"zero timeout", func(c *tts.Config) { c.Timeout = 0 }, true},
		{"loud", func(c *tts.Config) { c.Volume = 1.5 }, true},
		{"short language", func(c *tts.Config) { c.GTTS.Language = "e" }, true},
		{"long language", func(c *tts.Config) { c.GTTS.Language = "en-US-x" }, true},
		{"piper without model", func(c *tts.Config) { c.Engine = ttypes.EnginePiper }, true},
		{"piper missing model", func(c *tts.Config) {
			c.Engine = ttypes.EnginePiper
			c.Piper.ModelPath = model + ".missing"
		}, true},
		{"piper with model", func(c *tts.Config) {
			c.Engine = ttypes.EnginePiper
			c.Piper.ModelPath = model
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tts.DefaultConfig()
			tt.mutate(&cfg)
			err := validateTTSConfig(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateTTSConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSpeakDisabled(t *testing.T) {
	old := ttsConfig
	t.Cleanup(func() { ttsConfig = old })

	ttsConfig = tts.DefaultConfig()
	ttsConfig.Engine = ttypes.EngineNone
	if err := speak(context.Background(), "1 Meters is equal to 3.28 Feet"); !errors.Is(err, tts.ErrSpeechDisabled) {
		t.Errorf("speak() error = %v, want %v", err, tts.ErrSpeechDisabled)
	}
}

func TestExpandPath(t *testing.T) {
	t.Setenv("MEASURE_TEST_DIR", "/opt/voices")

	if got := expandPath(""); got != "" {
		t.Errorf("expandPath(\"\") = %q", got)
	}
	if got := expandPath("$MEASURE_TEST_DIR/en.onnx"); got != "/opt/voices/en.onnx" {
		t.Errorf("expandPath() = %q", got)
	}
	if got := expandPath("~/en.onnx"); strings.HasPrefix(got, "~") {
		t.Errorf("expandPath() did not expand home: %q", got)
	}
}

func TestUnitList(t *testing.T) {
	want := "Temperature (Celsius and Fahrenheit)"
	if got := unitList(convert.Temperature); got != want {
		t.Errorf("unitList() = %q, want %q", got, want)
	}
}
