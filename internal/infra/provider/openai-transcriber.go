package provider

import (
	"context"
	"fmt"
	"io"
	"strings"

	"patient-context/internal/domain/apperr"
	"patient-context/internal/domain/entities"
	"patient-context/internal/infra/logger"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// UnlabeledSpeaker marks transcript lines from a model without diarization.
const UnlabeledSpeaker = "speaker"

type OpenAITranscriber struct {
	Logger *logger.Logger
	Model  string
	client *openai.Client
}

func NewOpenAITranscriber(logger *logger.Logger, apiKey, baseURL, model string) *OpenAITranscriber {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAITranscriber{Logger: logger, Model: model, client: openai.NewClientWithConfig(cfg)}
}

// Transcribe returns one line per recognized segment, or a single line when
// the endpoint reports text without segments.
func (t *OpenAITranscriber) Transcribe(ctx context.Context, audio io.Reader) ([]entities.TranscriptLine, error) {
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.Model,
		FilePath: "audio.wav",
		Reader:   audio,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		t.Logger.Error(fmt.Sprintf("OpenAI transcription failed: %v", err), logrus.Fields{"model": t.Model})
		return nil, apperr.Transcription(err)
	}

	lines := make([]entities.TranscriptLine, 0, len(resp.Segments))
	for _, seg := range resp.Segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			lines = append(lines, entities.TranscriptLine{Speaker: UnlabeledSpeaker, Text: text})
		}
	}
	if len(lines) == 0 {
		if text := strings.TrimSpace(resp.Text); text != "" {
			lines = append(lines, entities.TranscriptLine{Speaker: UnlabeledSpeaker, Text: text})
		}
	}
	if len(lines) == 0 {
		return nil, apperr.Transcription(fmt.Errorf("no speech recognized"))
	}
	return lines, nil
}
