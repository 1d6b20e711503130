package handler

import (
	"net/http"

	"placar/internal/domain"
	"placar/internal/service"
	"placar/pkg/logger"
)

// AuthHandler handles admin login
type AuthHandler struct {
	auth   service.AdminAuthenticator
	logger *logger.Logger
}

// loginBodyLimit bounds login bodies, which only carry two short strings
const loginBodyLimit = 4 << 10

// NewAuthHandler creates a new auth handler
func NewAuthHandler(auth service.AdminAuthenticator, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Login handles POST /api/admin/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(w, r, loginBodyLimit, &req); err != nil {
		respondError(w, r, h.logger, err)
		return
	}

	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
