package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"patient-context/internal/domain/apperr"
	"patient-context/internal/domain/dto"
	Iservices "patient-context/internal/domain/interfaces/services"
	"patient-context/internal/infra/logger"

	"github.com/gorilla/mux"
)

const (
	defaultSummaryLimit = 2
	maxJSONBodyBytes    = 1 << 20
	// Largest upload the hosted transcription endpoint accepts.
	maxAudioBodyBytes = 25 << 20
)

type HttpHandlers struct {
	Logger               *logger.Logger
	PatientService       Iservices.IPatientService
	ConversationService  Iservices.IConversationService
	ChatHistoryService   Iservices.IChatHistoryService
	SummarizationService Iservices.ISummarizationService
	ContextService       Iservices.IContextService
	IngestService        Iservices.IIngestService
}

func NewHttpHandlers(
	logger *logger.Logger,
	patientService Iservices.IPatientService,
	conversationService Iservices.IConversationService,
	chatHistoryService Iservices.IChatHistoryService,
	summarizationService Iservices.ISummarizationService,
	contextService Iservices.IContextService,
	ingestService Iservices.IIngestService,
) *HttpHandlers {
	return &HttpHandlers{
		Logger:               logger,
		PatientService:       patientService,
		ConversationService:  conversationService,
		ChatHistoryService:   chatHistoryService,
		SummarizationService: summarizationService,
		ContextService:       contextService,
		IngestService:        ingestService,
	}
}

// CreatePatient handles POST /patients.
func (th *HttpHandlers) CreatePatient(w http.ResponseWriter, r *http.Request) {
	var body dto.CreatePatientRequest
	if !th.decode(w, r, &body) {
		return
	}

	id, err := th.PatientService.CreatePatient(r.Context(), body)
	if err != nil {
		th.writeError(w, err)
		return
	}
	th.writeJSON(w, http.StatusCreated, dto.CreatePatientResponse{PatientID: id})
}

// GetPatient handles GET /patients/{id}.
func (th *HttpHandlers) GetPatient(w http.ResponseWriter, r *http.Request) {
	patient, err := th.PatientService.FindPatient(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		th.writeError(w, err)
		return
	}
	th.writeJSON(w, http.StatusOK, patient)
}

// AddConversation handles POST /patients/{id}/conversations. The body carries
// transcript lines already produced by the transcription service.
func (th *HttpHandlers) AddConversation(w http.ResponseWriter, r *http.Request) {
	var body dto.AddConversationRequest
	if !th.decode(w, r, &body) {
		return
	}

	id, err := th.ConversationService.AddConversation(r.Context(), mux.Vars(r)["id"], body.Messages)
	if err != nil {
		th.writeError(w, err)
		return
	}
	th.writeJSON(w, http.StatusCreated, dto.AddConversationResponse{ConversationID: id})
}

// SummarizeLastConversation handles POST /patients/{id}/conversations/summarize.
func (th *HttpHandlers) SummarizeLastConversation(w http.ResponseWriter, r *http.Request) {
	summary, err := th.SummarizationService.SummarizeLastConversation(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		th.writeError(w, err)
		return
	}
	th.writeJSON(w, http.StatusOK, dto.SummarizeResponse{Summary: summary})
}

// Ingest handles POST /patients/{id}/ingest: store a transcript and
// summarize it in one call.
func (th *HttpHandlers) Ingest(w http.ResponseWriter, r *http.Request) {
	var body dto.IngestRequest
	if !th.decode(w, r, &body) {
		return
	}

	res, err := th.IngestService.IngestTranscript(r.Context(), mux.Vars(r)["id"], body.Messages)
	if err != nil {
		th.writeError(w, err)
		return
	}
	th.writeJSON(w, http.StatusCreated, res)
}

// UploadAudio handles POST /patients/{id}/upload-audio. The request body is
// the raw audio file.
func (th *HttpHandlers) UploadAudio(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	audio := http.MaxBytesReader(w, r.Body, maxAudioBodyBytes)

	res, err := th.IngestService.IngestAudio(r.Context(), mux.Vars(r)["id"], audio)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			th.writeJSON(w, http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "audio file too large"})
			return
		}
		th.writeError(w, err)
		return
	}
	th.writeJSON(w, http.StatusCreated, res)
}

// RecentSummaries handles GET /patients/{id}/summaries?limit=N.
func (th *HttpHandlers) RecentSummaries(w http.ResponseWriter, r *http.Request) {
	limit := defaultSummaryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			th.writeError(w, apperr.Validation("limit must be an integer, got %q", raw))
			return
		}
		limit = n
	}

	entries, err := th.ConversationService.RecentSummaries(r.Context(), mux.Vars(r)["id"], limit)
	if err != nil {
		th.writeError(w, err)
		return
	}
	th.writeJSON(w, http.StatusOK, dto.SummariesResponse{Summaries: entries})
}

// Chat handles POST /patients/{id}/chat.
func (th *HttpHandlers) Chat(w http.ResponseWriter, r *http.Request) {
	var body dto.ChatRequest
	if !th.decode(w, r, &body) {
		return
	}

	reply, err := th.ContextService.ChatWithDoctor(r.Context(), mux.Vars(r)["id"], body.Message)
	if err != nil {
		th.writeError(w, err)
		return
	}
	th.writeJSON(w, http.StatusOK, dto.ChatResponse{Response: reply})
}

// ChatHistory handles GET /patients/{id}/chat-history.
func (th *HttpHandlers) ChatHistory(w http.ResponseWriter, r *http.Request) {
	history, err := th.ChatHistoryService.History(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		th.writeError(w, err)
		return
	}
	th.writeJSON(w, http.StatusOK, dto.ChatHistoryResponse{History: history})
}

func (th *HttpHandlers) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			th.writeJSON(w, http.StatusRequestEntityTooLarge, dto.ErrorResponse{Error: "request body too large"})
			return false
		}
		th.Logger.Warn(fmt.Sprintf("Invalid JSON payload: %s", err.Error()))
		th.writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// StatusFor maps a core error kind to its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrNoConversations):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrInferenceTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, apperr.ErrInference), errors.Is(err, apperr.ErrTranscription):
		return http.StatusBadGateway
	case errors.Is(err, apperr.ErrUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

func (th *HttpHandlers) writeError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		th.Logger.Error(fmt.Sprintf("Request failed: %v", err))
		message = "internal error"
	}
	th.writeJSON(w, status, dto.ErrorResponse{Error: message})
}

func (th *HttpHandlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		th.Logger.Error(fmt.Sprintf("Failed to encode response: %v", err))
	}
}
