package apperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferenceTimeoutIsInference(t *testing.T) {
	assert.ErrorIs(t, ErrInferenceTimeout, ErrInference)
	assert.False(t, errors.Is(ErrInference, ErrInferenceTimeout))
}

func TestInferenceWrapsOnce(t *testing.T) {
	cause := errors.New("connection refused")

	err := Inference(cause)
	assert.ErrorIs(t, err, ErrInference)
	assert.ErrorIs(t, err, cause)

	assert.Same(t, err, Inference(err))
	assert.Nil(t, Inference(nil))
}

func TestPatientNotFound(t *testing.T) {
	err := PatientNotFound("abc")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "abc")
}

func TestValidation(t *testing.T) {
	err := Validation("%s is required", "first_name")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation error: first_name is required", err.Error())
}

func TestTranscriptionWrapsOnce(t *testing.T) {
	cause := errors.New("bad audio")

	err := Transcription(cause)
	assert.ErrorIs(t, err, ErrTranscription)
	assert.ErrorIs(t, err, cause)
	assert.False(t, errors.Is(err, ErrInference))

	assert.Same(t, err, Transcription(err))
	assert.Nil(t, Transcription(nil))
}
