package repository

import (
	"context"
	"fmt"
	"sync"

	"patient-context/internal/domain/entities"
	"patient-context/internal/domain/interfaces/repository"
)

// MemoryPatientRepository keeps patient documents in process memory with the
// same per-document atomicity as the Mongo repository. Values are copied on
// the way in and out so callers never share slices with the store.
type MemoryPatientRepository struct {
	mu       sync.RWMutex
	patients map[string]*entities.Patient
}

var _ repository.PatientRepository = (*MemoryPatientRepository)(nil)

func NewMemoryPatientRepository() *MemoryPatientRepository {
	return &MemoryPatientRepository{patients: map[string]*entities.Patient{}}
}

func (r *MemoryPatientRepository) Create(_ context.Context, patient entities.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.patients[patient.ID]; ok {
		return fmt.Errorf("patient id %s already exists", patient.ID)
	}
	p := clonePatient(patient)
	r.patients[patient.ID] = &p
	return nil
}

func (r *MemoryPatientRepository) FindByID(_ context.Context, patientID string) (entities.Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[patientID]
	if !ok {
		return entities.Patient{}, repository.ErrPatientNotFound
	}
	return clonePatient(*p), nil
}

func (r *MemoryPatientRepository) AppendConversation(_ context.Context, patientID string, conversation entities.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[patientID]
	if !ok {
		return repository.ErrPatientNotFound
	}
	p.Conversations = append(p.Conversations, cloneConversation(conversation))
	return nil
}

func (r *MemoryPatientRepository) AppendConversationIfEmpty(_ context.Context, patientID string, conversation entities.Conversation) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[patientID]
	if !ok {
		return false, repository.ErrPatientNotFound
	}
	if len(p.Conversations) > 0 {
		return false, nil
	}
	p.Conversations = append(p.Conversations, cloneConversation(conversation))
	return true, nil
}

func (r *MemoryPatientRepository) SetConversationSummary(_ context.Context, patientID, conversationID, summary string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[patientID]
	if !ok {
		return repository.ErrPatientNotFound
	}
	for i := range p.Conversations {
		if p.Conversations[i].ID == conversationID {
			p.Conversations[i].Summary = summary
			return nil
		}
	}
	return repository.ErrConversationNotFound
}

func (r *MemoryPatientRepository) AppendChatMessages(_ context.Context, patientID string, messages ...entities.ChatMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.patients[patientID]
	if !ok {
		return repository.ErrPatientNotFound
	}
	p.ChatHistory = append(p.ChatHistory, messages...)
	return nil
}

func (r *MemoryPatientRepository) Ping(context.Context) error { return nil }

func (r *MemoryPatientRepository) Close(context.Context) error { return nil }

func clonePatient(p entities.Patient) entities.Patient {
	out := p
	if p.Gender != nil {
		g := *p.Gender
		out.Gender = &g
	}
	if p.Contact != nil {
		c := *p.Contact
		out.Contact = &c
	}
	out.Conversations = make([]entities.Conversation, len(p.Conversations))
	for i, c := range p.Conversations {
		out.Conversations[i] = cloneConversation(c)
	}
	out.ChatHistory = append([]entities.ChatMessage{}, p.ChatHistory...)
	return out
}

func cloneConversation(c entities.Conversation) entities.Conversation {
	out := c
	out.Messages = append([]entities.TranscriptLine{}, c.Messages...)
	return out
}
