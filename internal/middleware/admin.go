package middleware

import (
	"context"
	"net/http"
	"strings"

	"placar/internal/domain"
	"placar/internal/service"
	"placar/pkg/errors"
	"placar/pkg/logger"
)

// ContextKey represents keys used in request context
type ContextKey string

const (
	// AdminContextKey is the key for the authenticated admin in context
	AdminContextKey ContextKey = "admin"
	// RequestIDContextKey is the key for request ID in context
	RequestIDContextKey ContextKey = "request_id"
)

// Admin credential locations, checked in this order
const (
	AdminTokenHeader = "X-Admin-Token"
	AdminTokenQuery  = "adminToken"
)

// AdminAuth rejects requests that do not carry a valid admin credential
func AdminAuth(auth service.AdminAuthenticator, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractAdminToken(r)
			if token == "" {
				writeErrorResponse(w, r, errors.NewAuthenticationError("unauthorized"), logger)
				return
			}

			ctx := r.Context()
			claims, err := auth.ValidateToken(ctx, token)
			if err != nil {
				writeErrorResponse(w, r, err, logger)
				return
			}

			ctx = context.WithValue(ctx, AdminContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractAdminToken reads the admin credential from the header, the query
// string or a bearer authorization header.
func ExtractAdminToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(AdminTokenHeader)); token != "" {
		return token
	}
	if token := strings.TrimSpace(r.URL.Query().Get(AdminTokenQuery)); token != "" {
		return token
	}

	authHeader := r.Header.Get("Authorization")
	if len(authHeader) > len("Bearer ") && strings.EqualFold(authHeader[:len("Bearer ")], "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

// AdminFromContext returns the admin a request was authenticated as
func AdminFromContext(ctx context.Context) (*domain.AdminClaims, bool) {
	claims, ok := ctx.Value(AdminContextKey).(*domain.AdminClaims)
	return claims, ok
}
