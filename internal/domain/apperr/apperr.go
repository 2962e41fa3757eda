// Package apperr defines the error kinds returned by the patient context core.
// Callers classify failures with errors.Is against the sentinels below.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrNoConversations = errors.New("no conversations to summarize")
	ErrValidation      = errors.New("validation error")
	ErrInference       = errors.New("inference error")
	ErrTranscription   = errors.New("transcription error")
	ErrUnavailable     = errors.New("not available")
	// ErrInferenceTimeout also matches ErrInference.
	ErrInferenceTimeout = fmt.Errorf("%w: timed out", ErrInference)
)

// PatientNotFound builds the NotFound error for a patient id.
func PatientNotFound(patientID string) error {
	return fmt.Errorf("patient with id %s: %w", patientID, ErrNotFound)
}

// Validation builds a ValidationError describing the offending field.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Inference wraps a provider failure as an InferenceError.
func Inference(cause error) error {
	if cause == nil {
		return nil
	}
	if errors.Is(cause, ErrInference) {
		return cause
	}
	return fmt.Errorf("%w: %w", ErrInference, cause)
}

// Transcription wraps a speech-to-text failure as a TranscriptionError.
func Transcription(cause error) error {
	if cause == nil {
		return nil
	}
	if errors.Is(cause, ErrTranscription) {
		return cause
	}
	return fmt.Errorf("%w: %w", ErrTranscription, cause)
}
