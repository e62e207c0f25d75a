package tts

import (
	"errors"
	"fmt"
)

// Common TTS errors
var (
	// ErrNoEngineConfigured indicates no speech engine has been selected
	ErrNoEngineConfigured = errors.New("no TTS engine configured - specify --tts gtts, piper, mock or none")

	// ErrEngineNotAvailable indicates the selected engine is not available
	ErrEngineNotAvailable = errors.New("selected TTS engine is not available")

	// ErrInvalidEngine indicates an unknown engine was specified
	ErrInvalidEngine = errors.New("invalid TTS engine specified")

	// ErrSynthesisFailed indicates synthesis operation failed
	ErrSynthesisFailed = errors.New("text synthesis failed")

	// ErrSpeechDisabled is returned when announcing with speech turned off
	ErrSpeechDisabled = errors.New("speech is disabled")

	// ErrInvalidSpeed indicates speed value is out of range
	ErrInvalidSpeed = errors.New("speed must be between 0.5 and 2.0")

	// ErrInvalidVolume indicates volume value is out of range
	ErrInvalidVolume = errors.New("volume must be between 0.0 and 1.0")

	// ErrTimeout indicates an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates an operation was canceled
	ErrCanceled = errors.New("operation canceled")
)

// TTSError represents a TTS-specific error with additional context
type TTSError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *TTSError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *TTSError) Unwrap() error {
	return e.Cause
}

// ErrorCode identifies specific error types
type ErrorCode string

const (
	// Engine errors
	ErrorCodeEngineFailure     ErrorCode = "ENGINE_FAILURE"
	ErrorCodeEngineUnavailable ErrorCode = "ENGINE_UNAVAILABLE"

	// Audio errors
	ErrorCodeAudioFailure ErrorCode = "AUDIO_FAILURE"
	ErrorCodeAudioDevice  ErrorCode = "AUDIO_DEVICE"

	// Input errors
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"

	// System errors
	ErrorCodeTimeout  ErrorCode = "TIMEOUT"
	ErrorCodeCanceled ErrorCode = "CANCELED"
)

// NewTTSError creates a new TTS error with context
func NewTTSError(code ErrorCode, message string, cause error) *TTSError {
	return &TTSError{
		Code:    code,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds context to the error
func (e *TTSError) WithContext(key string, value interface{}) *TTSError {
	e.Context[key] = value
	return e
}

// IsFatal returns true if the error should disable speech for the session.
// Nothing a single announcement does is fatal to the conversion itself.
func (e *TTSError) IsFatal() bool {
	switch e.Code {
	case ErrorCodeEngineUnavailable,
		ErrorCodeAudioDevice:
		return true
	default:
		return false
	}
}

// Code extracts the error code from err, or "" if err is not a TTSError.
func Code(err error) ErrorCode {
	var te *TTSError
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}
