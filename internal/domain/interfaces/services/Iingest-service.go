package Iservices

import (
	"context"
	"io"

	"patient-context/internal/domain/dto"
	"patient-context/internal/domain/entities"
)

type IIngestService interface {
	IngestTranscript(ctx context.Context, patientID string, lines []entities.TranscriptLine) (dto.IngestResponse, error)
	IngestAudio(ctx context.Context, patientID string, audio io.Reader) (dto.IngestResponse, error)
}
