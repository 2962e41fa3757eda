package Iservices

import "context"

type ISummarizationService interface {
	SummarizeLastConversation(ctx context.Context, patientID string) (string, error)
}
