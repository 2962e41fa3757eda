package dto

import "patient-context/internal/domain/entities"

type AddConversationRequest struct {
	Messages []entities.TranscriptLine `json:"messages"`
}

type AddConversationResponse struct {
	ConversationID string `json:"conversation_id"`
}

type SummarizeResponse struct {
	Summary string `json:"summary"`
}

type SummariesResponse struct {
	Summaries []entities.SummaryEntry `json:"summaries"`
}

type IngestRequest struct {
	Messages []entities.TranscriptLine `json:"messages"`
}

type IngestResponse struct {
	ConversationID string                    `json:"conversation_id"`
	Conversation   []entities.TranscriptLine `json:"conversation"`
	Summary        string                    `json:"summary"`
}
