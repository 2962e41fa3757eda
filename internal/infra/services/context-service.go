package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"patient-context/internal/domain/apperr"
	"patient-context/internal/domain/entities"
	Iservices "patient-context/internal/domain/interfaces/services"
	"patient-context/internal/infra/logger"
	"patient-context/internal/infra/provider"

	"github.com/sirupsen/logrus"
)

// ContextService answers a doctor's question about a patient from the
// patient's recent summaries and the stored chat history.
type ContextService struct {
	Patients      Iservices.IPatientService
	Conversations Iservices.IConversationService
	History       Iservices.IChatHistoryService
	Provider      provider.IInferenceProvider
	Logger        *logger.Logger
	Model         string
	SummaryLimit  int
	Now           func() time.Time

	locks *keyedMutex
}

func NewContextService(
	patients Iservices.IPatientService,
	conversations Iservices.IConversationService,
	history Iservices.IChatHistoryService,
	inference provider.IInferenceProvider,
	logger *logger.Logger,
	model string,
	summaryLimit int,
) *ContextService {
	return &ContextService{
		Patients:      patients,
		Conversations: conversations,
		History:       history,
		Provider:      inference,
		Logger:        logger,
		Model:         model,
		SummaryLimit:  summaryLimit,
		Now:           func() time.Time { return time.Now().UTC() },
		locks:         newKeyedMutex(),
	}
}

// ChatWithDoctor runs one question/answer turn. Turns for the same patient
// are serialized, and the doctor message and reply are stored together only
// after the reply arrives.
func (cs *ContextService) ChatWithDoctor(ctx context.Context, patientID, doctorMessage string) (string, error) {
	if strings.TrimSpace(doctorMessage) == "" {
		return "", apperr.Validation("message is required")
	}

	unlock := cs.locks.Lock(patientID)
	defer unlock()

	asked := cs.Now()

	patient, err := cs.Patients.FindPatient(ctx, patientID)
	if err != nil {
		return "", err
	}
	if len(patient.Conversations) == 0 {
		if err := cs.Conversations.EnsureConversation(ctx, patientID); err != nil {
			return "", err
		}
	}

	patientContext, err := cs.patientContext(ctx, patientID)
	if err != nil {
		return "", err
	}

	history, err := cs.History.History(ctx, patientID)
	if err != nil {
		return "", err
	}

	messages, err := BuildChatTurns(patientContext, history, doctorMessage)
	if err != nil {
		return "", err
	}

	reply, err := cs.Provider.Complete(ctx, entities.InferenceRequest{Model: cs.Model, Messages: messages})
	if err != nil {
		cs.Logger.Error(fmt.Sprintf("Failed to get assistant reply: %v", err), logrus.Fields{"patient_id": patientID})
		return "", apperr.Inference(err)
	}

	err = cs.History.Append(ctx, patientID,
		entities.ChatMessage{Role: entities.ChatRoleDoctor, Text: doctorMessage, Timestamp: asked},
		entities.ChatMessage{Role: entities.ChatRoleAssistant, Text: reply, Timestamp: cs.Now()},
	)
	if err != nil {
		return "", err
	}

	cs.Logger.Info("Doctor chat turn stored", logrus.Fields{"patient_id": patientID, "history_turns": len(history) + 2})
	return reply, nil
}

// patientContext joins the non-empty recent summaries, one per line.
func (cs *ContextService) patientContext(ctx context.Context, patientID string) (string, error) {
	entries, err := cs.Conversations.RecentSummaries(ctx, patientID, cs.SummaryLimit)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Summary) == "" {
			continue
		}
		lines = append(lines, e.ContextLine())
	}
	return strings.Join(lines, "\n"), nil
}

// BuildChatTurns assembles the system instruction, the mapped history and
// the final doctor turn.
func BuildChatTurns(patientContext string, history []entities.ChatMessage, doctorMessage string) ([]entities.PromptMessage, error) {
	messages := make([]entities.PromptMessage, 0, len(history)+2)
	messages = append(messages, entities.PromptMessage{Role: entities.PromptRoleSystem, Content: ChatSystemPrompt(patientContext)})

	for i, entry := range history {
		role, err := entry.Role.PromptRole()
		if err != nil {
			return nil, apperr.Validation("chat history entry %d: %v", i, err)
		}
		messages = append(messages, entities.PromptMessage{Role: role, Content: entry.Text})
	}

	messages = append(messages, entities.PromptMessage{Role: entities.PromptRoleUser, Content: DoctorTurn(doctorMessage)})
	return messages, nil
}
