package provider

import (
	"context"
	"fmt"
	"strings"

	"patient-context/internal/domain/apperr"
	"patient-context/internal/domain/entities"
	"patient-context/internal/infra/logger"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

type OpenAIProvider struct {
	Logger *logger.Logger
	client *openai.Client
}

// NewOpenAIProvider builds a chat-completions provider. baseURL is optional
// and points the client at any OpenAI-compatible endpoint.
func NewOpenAIProvider(logger *logger.Logger, apiKey, baseURL string) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIProvider{Logger: logger, client: openai.NewClientWithConfig(cfg)}
}

func (p *OpenAIProvider) Complete(ctx context.Context, req entities.InferenceRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		Temperature: 0.2,
	})
	if err != nil {
		p.Logger.Error(fmt.Sprintf("OpenAI chat completion failed: %v", err), logrus.Fields{"model": req.Model})
		return "", apperr.Inference(err)
	}
	if len(resp.Choices) == 0 {
		return "", apperr.Inference(fmt.Errorf("openai returned no choices"))
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", apperr.Inference(fmt.Errorf("openai returned an empty message"))
	}
	return content, nil
}
