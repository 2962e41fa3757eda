package services

import (
	"context"
	"fmt"
	"time"

	"patient-context/internal/domain/apperr"
	"patient-context/internal/domain/entities"
	"patient-context/internal/domain/interfaces/repository"
	"patient-context/internal/infra/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ConversationService appends transcript sessions to patients and reads
// back their summaries.
type ConversationService struct {
	Repository repository.PatientRepository
	Logger     *logger.Logger
	NewID      func() string
	Now        func() time.Time
}

func NewConversationService(repo repository.PatientRepository, logger *logger.Logger) *ConversationService {
	return &ConversationService{
		Repository: repo,
		Logger:     logger,
		NewID:      uuid.NewString,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

func (cs *ConversationService) newConversation(lines []entities.TranscriptLine) entities.Conversation {
	messages := make([]entities.TranscriptLine, len(lines))
	copy(messages, lines)
	return entities.Conversation{
		ID:       cs.NewID(),
		Start:    cs.Now(),
		Messages: messages,
		Summary:  "",
	}
}

// AddConversation appends a new conversation with an empty summary.
func (cs *ConversationService) AddConversation(ctx context.Context, patientID string, lines []entities.TranscriptLine) (string, error) {
	conversation := cs.newConversation(lines)
	if err := cs.Repository.AppendConversation(ctx, patientID, conversation); err != nil {
		cs.Logger.Error(fmt.Sprintf("Failed to add conversation for patient '%s': %v", patientID, err))
		return "", storeError(patientID, err)
	}

	cs.Logger.Info("Conversation added", logrus.Fields{
		"patient_id":      patientID,
		"conversation_id": conversation.ID,
		"lines":           len(lines),
	})
	return conversation.ID, nil
}

// EnsureConversation creates an empty conversation when the patient has none.
// The check and the append are a single store operation.
func (cs *ConversationService) EnsureConversation(ctx context.Context, patientID string) error {
	created, err := cs.Repository.AppendConversationIfEmpty(ctx, patientID, cs.newConversation(nil))
	if err != nil {
		return storeError(patientID, err)
	}
	if created {
		cs.Logger.Debug("Created placeholder conversation", logrus.Fields{"patient_id": patientID})
	}
	return nil
}

// RecentSummaries returns the last limit conversations in stored order,
// oldest of the window first.
func (cs *ConversationService) RecentSummaries(ctx context.Context, patientID string, limit int) ([]entities.SummaryEntry, error) {
	if limit < 0 {
		return nil, apperr.Validation("limit must not be negative, got %d", limit)
	}

	patient, err := cs.Repository.FindByID(ctx, patientID)
	if err != nil {
		return nil, storeError(patientID, err)
	}

	conversations := patient.Conversations
	if len(conversations) > limit {
		conversations = conversations[len(conversations)-limit:]
	}

	entries := make([]entities.SummaryEntry, 0, len(conversations))
	for _, c := range conversations {
		entries = append(entries, entities.SummaryEntry{
			ConversationID: c.ID,
			Date:           c.Start,
			Summary:        c.Summary,
		})
	}
	return entries, nil
}
