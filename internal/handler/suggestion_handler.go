package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"placar/internal/domain"
	"placar/internal/middleware"
	"placar/internal/service"
	"placar/pkg/logger"
)

// SuggestionHandler handles the public submission endpoint and the admin review queue
type SuggestionHandler struct {
	suggestions  service.SuggestionManager
	maxBodyBytes int64
	logger       *logger.Logger
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(suggestions service.SuggestionManager, maxBodyBytes int64, logger *logger.Logger) *SuggestionHandler {
	return &SuggestionHandler{suggestions: suggestions, maxBodyBytes: maxBodyBytes, logger: logger}
}

// Create handles POST /api/suggestions
func (h *SuggestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.SuggestionRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	suggestion, err := h.suggestions.Create(r.Context(), req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, suggestion)
}

// List handles GET /api/suggestions
func (h *SuggestionHandler) List(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.suggestions.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, suggestions)
}

// Approve handles POST /api/suggestions/{id}/approve
func (h *SuggestionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	match, err := h.suggestions.Approve(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"request_id":    middleware.GetRequestID(r.Context()),
		"suggestion_id": id,
	}).Info("Suggestion approved")

	respondJSON(w, http.StatusOK, match)
}

// Reject handles DELETE /api/suggestions/{id}
func (h *SuggestionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	if err := h.suggestions.Reject(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, OKResponse{OK: true})
}
