package services

import (
	"context"
	"fmt"

	"patient-context/internal/domain/apperr"
	"patient-context/internal/domain/entities"
	"patient-context/internal/domain/interfaces/repository"
	"patient-context/internal/infra/logger"
)

// ChatHistoryService is the append-only doctor/assistant log.
type ChatHistoryService struct {
	Repository repository.PatientRepository
	Logger     *logger.Logger
}

func NewChatHistoryService(repo repository.PatientRepository, logger *logger.Logger) *ChatHistoryService {
	return &ChatHistoryService{Repository: repo, Logger: logger}
}

// Append stores messages in the given order as one write.
func (chs *ChatHistoryService) Append(ctx context.Context, patientID string, messages ...entities.ChatMessage) error {
	for _, m := range messages {
		if !m.Role.Valid() {
			return apperr.Validation("unknown chat role %q", string(m.Role))
		}
	}
	if err := chs.Repository.AppendChatMessages(ctx, patientID, messages...); err != nil {
		chs.Logger.Error(fmt.Sprintf("Failed to append chat history for patient '%s': %v", patientID, err))
		return storeError(patientID, err)
	}
	return nil
}

// History returns the full stored log in chronological order.
func (chs *ChatHistoryService) History(ctx context.Context, patientID string) ([]entities.ChatMessage, error) {
	patient, err := chs.Repository.FindByID(ctx, patientID)
	if err != nil {
		return nil, storeError(patientID, err)
	}
	if patient.ChatHistory == nil {
		return []entities.ChatMessage{}, nil
	}
	return patient.ChatHistory, nil
}
