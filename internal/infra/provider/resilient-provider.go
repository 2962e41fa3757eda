package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"patient-context/internal/domain/apperr"
	"patient-context/internal/domain/entities"
	"patient-context/internal/infra/logger"

	"github.com/sirupsen/logrus"
)

// ResilientProvider bounds every attempt with Timeout and retries failed
// attempts up to MaxRetries times, waiting attempt*Backoff between them.
type ResilientProvider struct {
	Next       IInferenceProvider
	Logger     *logger.Logger
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

func NewResilientProvider(next IInferenceProvider, logger *logger.Logger, timeout time.Duration, maxRetries int, backoff time.Duration) *ResilientProvider {
	return &ResilientProvider{Next: next, Logger: logger, Timeout: timeout, MaxRetries: maxRetries, Backoff: backoff}
}

func (p *ResilientProvider) Complete(ctx context.Context, req entities.InferenceRequest) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		if attempt > 0 {
			p.Logger.Warn(fmt.Sprintf("Retrying inference after error: %v", lastErr), logrus.Fields{"attempt": attempt, "model": req.Model})
			select {
			case <-ctx.Done():
				return "", apperr.Inference(ctx.Err())
			case <-time.After(time.Duration(attempt) * p.Backoff):
			}
		}

		reply, err := p.attempt(ctx, req)
		if err == nil {
			return reply, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

func (p *ResilientProvider) attempt(ctx context.Context, req entities.InferenceRequest) (string, error) {
	attemptCtx := ctx
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	reply, err := p.Next.Complete(attemptCtx, req)
	if err == nil {
		return reply, nil
	}
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return "", fmt.Errorf("%w after %s", apperr.ErrInferenceTimeout, p.Timeout)
	}
	return "", apperr.Inference(err)
}
