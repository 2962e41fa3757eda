package services

import (
	"context"
	"fmt"

	"patient-context/internal/domain/apperr"
	"patient-context/internal/domain/entities"
	"patient-context/internal/domain/interfaces/repository"
	"patient-context/internal/infra/logger"
	"patient-context/internal/infra/provider"

	"github.com/sirupsen/logrus"
)

type SummarizationService struct {
	Repository repository.PatientRepository
	Provider   provider.IInferenceProvider
	Logger     *logger.Logger
	Model      string
}

func NewSummarizationService(repo repository.PatientRepository, inference provider.IInferenceProvider, logger *logger.Logger, model string) *SummarizationService {
	return &SummarizationService{Repository: repo, Provider: inference, Logger: logger, Model: model}
}

// SummarizeLastConversation summarizes the most recently added conversation
// and overwrites its stored summary with the result.
func (ss *SummarizationService) SummarizeLastConversation(ctx context.Context, patientID string) (string, error) {
	patient, err := ss.Repository.FindByID(ctx, patientID)
	if err != nil {
		return "", storeError(patientID, err)
	}

	last, ok := patient.LastConversation()
	if !ok {
		return "", fmt.Errorf("patient %s: %w", patientID, apperr.ErrNoConversations)
	}

	summary, err := ss.Provider.Complete(ctx, entities.InferenceRequest{
		Model: ss.Model,
		Messages: []entities.PromptMessage{
			{Role: entities.PromptRoleSystem, Content: SummarizerSystemPrompt},
			{Role: entities.PromptRoleUser, Content: RenderTranscript(last.Messages)},
		},
	})
	if err != nil {
		ss.Logger.Error(fmt.Sprintf("Failed to summarize conversation '%s': %v", last.ID, err), logrus.Fields{"patient_id": patientID})
		return "", apperr.Inference(err)
	}

	if err := ss.Repository.SetConversationSummary(ctx, patientID, last.ID, summary); err != nil {
		ss.Logger.Error(fmt.Sprintf("Failed to store summary for conversation '%s': %v", last.ID, err))
		return "", storeError(patientID, err)
	}

	ss.Logger.Info("Conversation summarized", logrus.Fields{"patient_id": patientID, "conversation_id": last.ID})
	return summary, nil
}
