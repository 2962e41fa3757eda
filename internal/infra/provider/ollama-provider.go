package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"patient-context/internal/domain/apperr"
	"patient-context/internal/domain/entities"
	"patient-context/internal/infra/logger"

	"github.com/ollama/ollama/api"
	"github.com/sirupsen/logrus"
)

type OllamaProvider struct {
	Logger *logger.Logger
	client *api.Client
}

func NewOllamaProvider(logger *logger.Logger, host string, httpClient *http.Client) (*OllamaProvider, error) {
	base, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host %q: %w", host, err)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OllamaProvider{Logger: logger, client: api.NewClient(base, httpClient)}, nil
}

// Complete calls the Ollama chat endpoint without streaming.
func (p *OllamaProvider) Complete(ctx context.Context, req entities.InferenceRequest) (string, error) {
	messages := make([]api.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		messages = append(messages, api.Message{Role: string(m.Role), Content: m.Content})
	}

	stream := false
	var reply strings.Builder
	err := p.client.Chat(ctx, &api.ChatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   &stream,
	}, func(resp api.ChatResponse) error {
		reply.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		p.Logger.Error(fmt.Sprintf("Ollama chat failed: %v", err), logrus.Fields{"model": req.Model})
		return "", apperr.Inference(err)
	}

	content := strings.TrimSpace(reply.String())
	if content == "" {
		return "", apperr.Inference(fmt.Errorf("ollama returned an empty message"))
	}
	return content, nil
}
