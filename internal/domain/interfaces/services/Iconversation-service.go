package Iservices

import (
	"context"

	"patient-context/internal/domain/entities"
)

type IConversationService interface {
	AddConversation(ctx context.Context, patientID string, lines []entities.TranscriptLine) (string, error)
	EnsureConversation(ctx context.Context, patientID string) error
	RecentSummaries(ctx context.Context, patientID string, limit int) ([]entities.SummaryEntry, error)
}
