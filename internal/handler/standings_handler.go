package handler

import (
	"net/http"
	"strconv"
	"strings"

	"placar/internal/service"
	"placar/pkg/errors"
	"placar/pkg/logger"
)

// standingsMaxAge is the Cache-Control max-age for derived statistics
const standingsMaxAge = 10

// MsgInvalidLimit is returned when the scorer limit is not a positive integer
const MsgInvalidLimit = "invalid limit"

// StandingsHandler serves leaderboard and statistics views
type StandingsHandler struct {
	standings service.StandingsReader
	logger    *logger.Logger
}

// NewStandingsHandler creates a new standings handler
func NewStandingsHandler(standings service.StandingsReader, logger *logger.Logger) *StandingsHandler {
	return &StandingsHandler{standings: standings, logger: logger}
}

// Leaderboard handles GET /api/standings/leaderboard?sort=&q=
func (h *StandingsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	rows, err := h.standings.Leaderboard(r.Context(), strings.TrimSpace(query.Get("sort")), query.Get("q"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondCached(w, r, standingsMaxAge, rows)
}

// TopScorers handles GET /api/standings/scorers?q=&limit=
func (h *StandingsHandler) TopScorers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, r, h.logger, errors.NewValidationError(MsgInvalidLimit))
			return
		}
		limit = parsed
	}

	tallies, err := h.standings.TopScorers(r.Context(), query.Get("q"), limit)
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondCached(w, r, standingsMaxAge, tallies)
}

// HeadToHead handles GET /api/standings/head-to-head?a=&b=
func (h *StandingsHandler) HeadToHead(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	h2h, err := h.standings.HeadToHead(r.Context(), query.Get("a"), query.Get("b"))
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondCached(w, r, standingsMaxAge, h2h)
}

// Summary handles GET /api/standings/summary
func (h *StandingsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.standings.Summary(r.Context())
	if err != nil {
		respondError(w, r, h.logger, err)
		return
	}
	respondCached(w, r, standingsMaxAge, summary)
}
