package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lectio/internal/interfaces"
)

// QueryRequest is the POST /api/query request body
type QueryRequest struct {
	Query     string `json:"query" validate:"required,min=1"`
	SessionID string `json:"session_id"`
}

// QueryResponse is the POST /api/query response body
type QueryResponse struct {
	Answer    string   `json:"answer"`
	Sources   []string `json:"sources"`
	SessionID string   `json:"session_id"`
}

// QueryHandler handles question-answering HTTP requests
type QueryHandler struct {
	answerService interfaces.AnswerService
	validate      *validator.Validate
	logger        arbor.ILogger
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(answerService interfaces.AnswerService, logger arbor.ILogger) *QueryHandler {
	return &QueryHandler{
		answerService: answerService,
		validate:      validator.New(),
		logger:        logger,
	}
}

// QueryHandler handles POST /api/query requests
func (h *QueryHandler) QueryHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error().Err(err).Msg("Failed to decode query request")
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Query field is required")
		return
	}

	h.logger.Info().
		Int("query_length", len(req.Query)).
		Str("session_id", req.SessionID).
		Msg("Processing query request")

	result, err := h.answerService.Ask(r.Context(), req.Query, req.SessionID)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to answer query")
		WriteError(w, http.StatusInternalServerError, "Failed to generate answer: "+err.Error())
		return
	}

	sources := result.Sources
	if sources == nil {
		sources = []string{}
	}

	WriteJSON(w, http.StatusOK, QueryResponse{
		Answer:    result.Answer,
		Sources:   sources,
		SessionID: result.SessionID,
	})
}
