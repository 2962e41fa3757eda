package Iservices

import (
	"context"

	"patient-context/internal/domain/entities"
)

type IChatHistoryService interface {
	Append(ctx context.Context, patientID string, messages ...entities.ChatMessage) error
	History(ctx context.Context, patientID string) ([]entities.ChatMessage, error)
}
