package provider

import (
	"context"

	"patient-context/internal/domain/entities"
)

// IInferenceProvider sends an ordered turn sequence to a language model and
// returns the reply content.
type IInferenceProvider interface {
	Complete(ctx context.Context, req entities.InferenceRequest) (string, error)
}
