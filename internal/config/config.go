package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// Config holds every setting the service reads from the environment.
type Config struct {
	Port               string
	LogLevel           string
	LogJSON            bool
	MongoURI           string
	MongoDatabase      string
	MongoCollection    string
	InferenceProvider  string
	OllamaHost         string
	OpenAIAPIKey       string
	OpenAIBaseURL      string
	ChatModel          string
	SummaryModel       string
	TranscriptionModel string
	InferenceTimeout   time.Duration
	MaxRetries         int
	RetryBackoff       time.Duration
	ContextSummaries   int
}

func LoadEnv() error {
	err := godotenv.Load(".env")
	if err != nil {
		log.Printf("no .env file loaded: %v", err)
		return err
	}
	return nil
}

// Load builds a Config from the environment and validates it. Values that do
// not parse are reported rather than replaced by their defaults.
func Load() (Config, error) {
	chatModel := EnvOrDefault("CHAT_MODEL", "qwen2.5:3b")

	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	logJSON, err := EnvBoolOrDefault("LOG_JSON", true)
	collect(err)
	timeout, err := EnvDurationOrDefault("INFERENCE_TIMEOUT", 2*time.Minute)
	collect(err)
	retries, err := EnvIntOrDefault("INFERENCE_MAX_RETRIES", 2)
	collect(err)
	backoff, err := EnvDurationOrDefault("INFERENCE_RETRY_BACKOFF", 500*time.Millisecond)
	collect(err)
	summaries, err := EnvIntOrDefault("CONTEXT_SUMMARIES", 2)
	collect(err)
	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}

	cfg := Config{
		Port:               EnvOrDefault("PORT", "8080"),
		LogLevel:           EnvOrDefault("LOG_LEVEL", "info"),
		LogJSON:            logJSON,
		MongoURI:           EnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:      EnvOrDefault("MONGODB_DATABASE", "it_impact"),
		MongoCollection:    EnvOrDefault("MONGODB_COLLECTION", "patients"),
		InferenceProvider:  strings.ToLower(EnvOrDefault("INFERENCE_PROVIDER", ProviderOllama)),
		OllamaHost:         EnvOrDefault("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:      os.Getenv("OPENAI_BASE_URL"),
		ChatModel:          chatModel,
		SummaryModel:       EnvOrDefault("SUMMARY_MODEL", chatModel),
		TranscriptionModel: EnvOrDefault("TRANSCRIPTION_MODEL", "whisper-1"),
		InferenceTimeout:   timeout,
		MaxRetries:         retries,
		RetryBackoff:       backoff,
		ContextSummaries:   summaries,
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot be used as configured.
func (c Config) Validate() error {
	switch c.InferenceProvider {
	case ProviderOllama:
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when INFERENCE_PROVIDER=%s", ProviderOpenAI)
		}
	default:
		return fmt.Errorf("unknown INFERENCE_PROVIDER %q", c.InferenceProvider)
	}
	if c.InferenceTimeout <= 0 {
		return fmt.Errorf("INFERENCE_TIMEOUT must be positive")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("INFERENCE_MAX_RETRIES must not be negative")
	}
	if c.ContextSummaries <= 0 {
		return fmt.Errorf("CONTEXT_SUMMARIES must be positive")
	}
	return nil
}

func EnvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func EnvIntOrDefault(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: invalid integer %q", key, v)
	}
	return n, nil
}

func EnvBoolOrDefault(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s: invalid boolean %q", key, v)
	}
	return b, nil
}

func EnvDurationOrDefault(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}
