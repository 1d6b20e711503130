package middleware

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"placar/pkg/errors"
	"placar/pkg/logger"
)

// writeErrorResponse writes an {"error": message} body with the error's status
func writeErrorResponse(w http.ResponseWriter, r *http.Request, err error, logger *logger.Logger) {
	status := errors.StatusCode(err)

	logger.Debug("Request refused by middleware",
		zap.String("request_id", GetRequestID(r.Context())),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errors.ErrorResponse{Error: errors.PublicMessage(err)})
}
