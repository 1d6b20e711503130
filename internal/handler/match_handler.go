package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"placar/internal/domain"
	"placar/internal/service"
	"placar/pkg/logger"
)

// MatchHandler handles approved match requests
type MatchHandler struct {
	matches      service.MatchManager
	maxBodyBytes int64
	logger       *logger.Logger
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matches service.MatchManager, maxBodyBytes int64, logger *logger.Logger) *MatchHandler {
	return &MatchHandler{matches: matches, maxBodyBytes: maxBodyBytes, logger: logger}
}

// List handles GET /api/matches
func (h *MatchHandler) List(w http.ResponseWriter, r *http.Request) {
	matches, err := h.matches.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, matches)
}

// Edit handles PATCH /api/matches/{id}
func (h *MatchHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var patch domain.MatchPatch
	if err := decodeJSON(w, r, h.maxBodyBytes, &patch); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	match, err := h.matches.Edit(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, match)
}

// Delete handles DELETE /api/matches/{id}
func (h *MatchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.matches.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, OKResponse{OK: true})
}
