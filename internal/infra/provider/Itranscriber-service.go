package provider

import (
	"context"
	"io"

	"patient-context/internal/domain/entities"
)

// ITranscriber turns recorded audio into the ordered lines of a conversation.
type ITranscriber interface {
	Transcribe(ctx context.Context, audio io.Reader) ([]entities.TranscriptLine, error)
}
