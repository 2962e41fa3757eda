package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"patient-context/internal/config"
	"patient-context/internal/infra/handlers"
	"patient-context/internal/infra/logger"
	"patient-context/internal/infra/provider"
	"patient-context/internal/infra/repository"
	"patient-context/internal/infra/routes"
	"patient-context/internal/infra/services"
	"patient-context/internal/middleware"
	client "patient-context/internal/pkg"

	"github.com/gorilla/mux"
)

func main() {
	_ = config.LoadEnv()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log := logger.NewLogger(ctx, cfg.LogJSON, cfg.LogLevel)

	mongoClient, err := client.MongoClient(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatal(err.Error())
	}
	patientRepo := repository.NewMongoPatientRepository(mongoClient, cfg.MongoDatabase, cfg.MongoCollection)
	if err := patientRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal(err.Error())
	}

	inference, err := newInferenceProvider(cfg, log)
	if err != nil {
		log.Fatal(err.Error())
	}

	patientSvc := services.NewPatientService(patientRepo, log)
	conversationSvc := services.NewConversationService(patientRepo, log)
	chatHistorySvc := services.NewChatHistoryService(patientRepo, log)
	summarizationSvc := services.NewSummarizationService(patientRepo, inference, log, cfg.SummaryModel)
	contextSvc := services.NewContextService(patientSvc, conversationSvc, chatHistorySvc, inference, log, cfg.ChatModel, cfg.ContextSummaries)
	ingestSvc := services.NewIngestService(conversationSvc, summarizationSvc, newTranscriber(cfg, log), log)

	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware(log))

	httpHandlers := handlers.NewHttpHandlers(log, patientSvc, conversationSvc, chatHistorySvc, summarizationSvc, contextSvc, ingestSvc)
	routes.NewRoutes(router, httpHandlers).Init()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info(fmt.Sprintf("Server is running on port %s", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(fmt.Sprintf("Error running HTTP server: %s", err))
			os.Exit(1)
		}
	}()

	<-stop
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Server forced to shutdown: %v", err))
	} else {
		log.Info("Server stopped gracefully.")
	}
	if err := patientRepo.Close(shutdownCtx); err != nil {
		log.Error(fmt.Sprintf("Failed to disconnect from MongoDB: %v", err))
	}
}

func newInferenceProvider(cfg config.Config, log *logger.Logger) (provider.IInferenceProvider, error) {
	var base provider.IInferenceProvider
	switch cfg.InferenceProvider {
	case config.ProviderOpenAI:
		base = provider.NewOpenAIProvider(log, cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	default:
		p, err := provider.NewOllamaProvider(log, cfg.OllamaHost, &http.Client{})
		if err != nil {
			return nil, err
		}
		base = p
	}
	return provider.NewResilientProvider(base, log, cfg.InferenceTimeout, cfg.MaxRetries, cfg.RetryBackoff), nil
}

// newTranscriber returns nil without an OpenAI key; audio upload then reports
// the feature as unavailable.
func newTranscriber(cfg config.Config, log *logger.Logger) provider.ITranscriber {
	if cfg.OpenAIAPIKey == "" {
		log.Warn("OPENAI_API_KEY not set, audio upload disabled")
		return nil
	}
	return provider.NewOpenAITranscriber(log, cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.TranscriptionModel)
}
