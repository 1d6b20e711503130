package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"placar/internal/domain"
	"placar/internal/service"
	"placar/pkg/logger"
)

// PlayerHandler handles roster requests
type PlayerHandler struct {
	players      service.PlayerManager
	maxBodyBytes int64
	logger       *logger.Logger
}

// NewPlayerHandler creates a new player handler
func NewPlayerHandler(players service.PlayerManager, maxBodyBytes int64, logger *logger.Logger) *PlayerHandler {
	return &PlayerHandler{players: players, maxBodyBytes: maxBodyBytes, logger: logger}
}

// List handles GET /api/players
func (h *PlayerHandler) List(w http.ResponseWriter, r *http.Request) {
	players, err := h.players.List(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, players)
}

// Create handles POST /api/players
func (h *PlayerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.PlayerRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	player, err := h.players.Create(r.Context(), req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, player)
}

// Rename handles PATCH /api/players/{id}
func (h *PlayerHandler) Rename(w http.ResponseWriter, r *http.Request) {
	var req domain.PlayerRequest
	if err := decodeJSON(w, r, h.maxBodyBytes, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	player, err := h.players.Rename(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, player)
}

// Delete handles DELETE /api/players/{id}
func (h *PlayerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.players.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, OKResponse{OK: true})
}
