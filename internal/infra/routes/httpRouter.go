package routes

import (
	"encoding/json"
	"net/http"

	"patient-context/internal/infra/handlers"

	"github.com/gorilla/mux"
)

type Routes struct {
	Mux         *mux.Router
	HttpHandler *handlers.HttpHandlers
}

func NewRoutes(mux *mux.Router, httpHandler *handlers.HttpHandlers) *Routes {
	return &Routes{mux, httpHandler}
}

func (r *Routes) Init() {
	r.Mux.HandleFunc("/patients", r.HttpHandler.CreatePatient).Methods(http.MethodPost)

	patients := r.Mux.PathPrefix("/patients").Subrouter()
	patients.HandleFunc("/{id}", r.HttpHandler.GetPatient).Methods(http.MethodGet)
	patients.HandleFunc("/{id}/conversations", r.HttpHandler.AddConversation).Methods(http.MethodPost)
	patients.HandleFunc("/{id}/conversations/summarize", r.HttpHandler.SummarizeLastConversation).Methods(http.MethodPost)
	patients.HandleFunc("/{id}/ingest", r.HttpHandler.Ingest).Methods(http.MethodPost)
	patients.HandleFunc("/{id}/upload-audio", r.HttpHandler.UploadAudio).Methods(http.MethodPost)
	patients.HandleFunc("/{id}/summaries", r.HttpHandler.RecentSummaries).Methods(http.MethodGet)
	patients.HandleFunc("/{id}/chat", r.HttpHandler.Chat).Methods(http.MethodPost)
	patients.HandleFunc("/{id}/chat-history", r.HttpHandler.ChatHistory).Methods(http.MethodGet)

	r.Mux.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods(http.MethodGet)
}
