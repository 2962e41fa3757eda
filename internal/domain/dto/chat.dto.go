package dto

import "patient-context/internal/domain/entities"

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type ChatHistoryResponse struct {
	History []entities.ChatMessage `json:"history"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
