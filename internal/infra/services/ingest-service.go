package services

import (
	"context"
	"fmt"
	"io"

	"patient-context/internal/domain/apperr"
	"patient-context/internal/domain/dto"
	"patient-context/internal/domain/entities"
	Iservices "patient-context/internal/domain/interfaces/services"
	"patient-context/internal/infra/logger"
	"patient-context/internal/infra/provider"

	"github.com/sirupsen/logrus"
)

// IngestService stores a finished session and summarizes it in one step.
// Transcriber may be nil, in which case only transcript ingestion works.
type IngestService struct {
	Conversations Iservices.IConversationService
	Summarizer    Iservices.ISummarizationService
	Transcriber   provider.ITranscriber
	Logger        *logger.Logger

	locks *keyedMutex
}

func NewIngestService(
	conversations Iservices.IConversationService,
	summarizer Iservices.ISummarizationService,
	transcriber provider.ITranscriber,
	logger *logger.Logger,
) *IngestService {
	return &IngestService{
		Conversations: conversations,
		Summarizer:    summarizer,
		Transcriber:   transcriber,
		Logger:        logger,
		locks:         newKeyedMutex(),
	}
}

// IngestTranscript appends lines as a new conversation and summarizes it.
// If summarization fails the conversation stays stored with an empty summary.
func (is *IngestService) IngestTranscript(ctx context.Context, patientID string, lines []entities.TranscriptLine) (dto.IngestResponse, error) {
	if len(lines) == 0 {
		return dto.IngestResponse{}, apperr.Validation("transcript has no lines")
	}

	unlock := is.locks.Lock(patientID)
	defer unlock()

	conversationID, err := is.Conversations.AddConversation(ctx, patientID, lines)
	if err != nil {
		return dto.IngestResponse{}, err
	}

	summary, err := is.Summarizer.SummarizeLastConversation(ctx, patientID)
	if err != nil {
		is.Logger.Warn(fmt.Sprintf("Conversation '%s' stored without summary: %v", conversationID, err), logrus.Fields{"patient_id": patientID})
		return dto.IngestResponse{}, err
	}

	return dto.IngestResponse{ConversationID: conversationID, Conversation: lines, Summary: summary}, nil
}

// IngestAudio transcribes audio, then ingests the resulting transcript.
func (is *IngestService) IngestAudio(ctx context.Context, patientID string, audio io.Reader) (dto.IngestResponse, error) {
	if is.Transcriber == nil {
		return dto.IngestResponse{}, fmt.Errorf("audio transcription: %w", apperr.ErrUnavailable)
	}

	lines, err := is.Transcriber.Transcribe(ctx, audio)
	if err != nil {
		return dto.IngestResponse{}, apperr.Transcription(err)
	}
	is.Logger.Debug("Audio transcribed", logrus.Fields{"patient_id": patientID, "lines": len(lines)})

	return is.IngestTranscript(ctx, patientID, lines)
}
