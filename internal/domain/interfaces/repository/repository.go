package repository

import (
	"context"
	"errors"

	"patient-context/internal/domain/entities"
)

// ErrPatientNotFound is returned by every operation addressed to a patient id
// that has no document.
var ErrPatientNotFound = errors.New("patient not found")

// ErrConversationNotFound is returned by SetConversationSummary when the
// patient exists but the conversation id does not.
var ErrConversationNotFound = errors.New("conversation not found")

// PatientRepository exposes the patient document through explicit update
// operations only. Each operation is atomic on one patient document.
type PatientRepository interface {
	Create(ctx context.Context, patient entities.Patient) error
	FindByID(ctx context.Context, patientID string) (entities.Patient, error)
	AppendConversation(ctx context.Context, patientID string, conversation entities.Conversation) error
	// AppendConversationIfEmpty appends only when the patient has no
	// conversations, reporting whether it did.
	AppendConversationIfEmpty(ctx context.Context, patientID string, conversation entities.Conversation) (bool, error)
	SetConversationSummary(ctx context.Context, patientID, conversationID, summary string) error
	// AppendChatMessages appends all messages in order as a single write.
	AppendChatMessages(ctx context.Context, patientID string, messages ...entities.ChatMessage) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
