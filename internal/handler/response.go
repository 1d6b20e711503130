package handler

import (
	"crypto/md5"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"

	"placar/internal/middleware"
	"placar/pkg/errors"
	"placar/pkg/logger"
)

// Messages for request bodies that cannot be decoded
const (
	MsgInvalidBody     = "invalid request body"
	MsgPayloadTooLarge = "payload too large, try a smaller file"
)

// OKResponse is returned by delete endpoints
type OKResponse struct {
	OK bool `json:"ok"`
}

// decodeJSON reads a JSON body of at most maxBytes into dst. Numbers are
// kept as json.Number so score coercion sees the caller's exact input.
func decodeJSON(w http.ResponseWriter, r *http.Request, maxBytes int64, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	if err := decoder.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return errors.NewPayloadTooLargeError(MsgPayloadTooLarge)
		}
		return errors.NewValidationError(MsgInvalidBody)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError maps err to its status and writes {"error": message}.
// Unexpected failures are logged with their internal cause.
func respondError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	status := errors.StatusCode(err)
	if status >= http.StatusInternalServerError {
		log.WithFields(map[string]interface{}{
			"request_id": middleware.GetRequestID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
		}).WithError(err).Error("Request failed")
	}

	respondJSON(w, status, errors.ErrorResponse{Error: errors.PublicMessage(err)})
}

// respondCached writes data with an ETag, answering 304 when the client
// already holds the same payload.
func respondCached(w http.ResponseWriter, r *http.Request, maxAge int, data interface{}) {
	etag := generateETag(data)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
	respondJSON(w, http.StatusOK, data)
}

func generateETag(data interface{}) string {
	jsonData, _ := json.Marshal(data)
	hash := md5.Sum(jsonData)
	return fmt.Sprintf(`"%x"`, hash)
}
