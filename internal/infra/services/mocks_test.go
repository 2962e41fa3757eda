package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"patient-context/internal/domain/dto"
	"patient-context/internal/domain/entities"
	"patient-context/internal/infra/logger"
	"patient-context/internal/infra/repository"

	"github.com/stretchr/testify/require"
)

// stubProvider records every request and answers with Reply or Err.
type stubProvider struct {
	mu       sync.Mutex
	Reply    func(req entities.InferenceRequest) string
	Err      error
	Requests []entities.InferenceRequest
}

func (s *stubProvider) Complete(_ context.Context, req entities.InferenceRequest) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Requests = append(s.Requests, req)
	if s.Err != nil {
		return "", s.Err
	}
	if s.Reply == nil {
		return "stub reply", nil
	}
	return s.Reply(req), nil
}

func (s *stubProvider) last() entities.InferenceRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Requests[len(s.Requests)-1]
}

func fixed(text string) func(entities.InferenceRequest) string {
	return func(entities.InferenceRequest) string { return text }
}

type testEnv struct {
	repo          *repository.MemoryPatientRepository
	provider      *stubProvider
	patients      *PatientService
	conversations *ConversationService
	history       *ChatHistoryService
	summarizer    *SummarizationService
	chat          *ContextService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log := logger.NewNopLogger()
	repo := repository.NewMemoryPatientRepository()
	stub := &stubProvider{}

	patients := NewPatientService(repo, log)
	conversations := NewConversationService(repo, log)

	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	var clockMu sync.Mutex
	conversations.Now = func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		clock = clock.Add(24 * time.Hour)
		return clock
	}

	history := NewChatHistoryService(repo, log)

	return &testEnv{
		repo:          repo,
		provider:      stub,
		patients:      patients,
		conversations: conversations,
		history:       history,
		summarizer:    NewSummarizationService(repo, stub, log, "summary-model"),
		chat:          NewContextService(patients, conversations, history, stub, log, "chat-model", 2),
	}
}

func (e *testEnv) createJane(t *testing.T) string {
	t.Helper()
	id, err := e.patients.CreatePatient(context.Background(), dto.CreatePatientRequest{FirstName: "Jane", LastName: "Doe", DOB: "1990-01-01"})
	require.NoError(t, err)
	return id
}

func (e *testEnv) addSummarized(t *testing.T, patientID string, summary string) string {
	t.Helper()
	ctx := context.Background()
	cid, err := e.conversations.AddConversation(ctx, patientID, []entities.TranscriptLine{{Speaker: "patient", Text: summary}})
	require.NoError(t, err)
	require.NoError(t, e.repo.SetConversationSummary(ctx, patientID, cid, summary))
	return cid
}

func sessionLine(summary string, day int) string {
	return fmt.Sprintf("summary for session 2024-05-%02d : %s", day, summary)
}
