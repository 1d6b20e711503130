// Package validation holds the pure checks applied to match results before
// they are persisted: score coercion, scorer normalization and the
// scorer-sum invariant.
package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"placar/internal/domain"
	apperrors "placar/pkg/errors"
)

// Validation messages surfaced verbatim to API callers
const (
	MsgSelectTwoPlayers = "select two different players"
	MsgInvalidScore     = "invalid score"
	MsgPlayerNotFound   = "player not found"
	MsgScorersExceed    = "scorer goals exceed the reported score"
	MsgNameRequired     = "name is required"
)

// maxScore bounds coerced values so they always fit an int on every platform
const maxScore = math.MaxInt32

// ParseScore coerces a decoded JSON value to a score. It reports false
// unless the value is an integer >= 0. Numeric strings are accepted; nil,
// blank strings, booleans and fractions are not.
func ParseScore(v interface{}) (int, bool) {
	var f float64
	switch n := v.(type) {
	case nil:
		return 0, false
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < 0 || f > maxScore {
		return 0, false
	}
	return int(f), true
}

// ValidateScore reports whether v coerces to an integer >= 0
func ValidateScore(v interface{}) bool {
	_, ok := ParseScore(v)
	return ok
}

// ValidatePair checks that both player ids are present and distinct
func ValidatePair(homeID, awayID string) error {
	if homeID == "" || awayID == "" || homeID == awayID {
		return apperrors.NewValidationError(MsgSelectTwoPlayers)
	}
	return nil
}

// NormalizeScorers keeps only well-formed scorer rows credited to one of the
// two sides. Rows with a blank name, non-positive or fractional goals, or an
// owner outside {homeID, awayID} are dropped without error.
func NormalizeScorers(raw []domain.RawScorer, homeID, awayID string) []domain.Scorer {
	scorers := make([]domain.Scorer, 0, len(raw))
	for _, r := range raw {
		name := strings.TrimSpace(r.Name)
		if name == "" {
			name = strings.TrimSpace(r.ScorerName)
		}
		if name == "" {
			continue
		}

		goals, ok := ParseScore(r.Goals)
		if !ok || goals <= 0 {
			continue
		}

		owner := r.OwnerID
		if owner == "" {
			owner = r.PlayerID
		}
		if owner == "" || (owner != homeID && owner != awayID) {
			continue
		}

		scorers = append(scorers, domain.Scorer{Name: name, Goals: goals, OwnerID: owner})
	}
	return scorers
}

// ValidateScorerSums fails when the goals credited to either side exceed
// that side's score.
func ValidateScorerSums(homeID, awayID string, homeScore, awayScore int, scorers []domain.Scorer) error {
	var sumHome, sumAway int
	for _, s := range scorers {
		switch s.OwnerID {
		case homeID:
			sumHome += s.Goals
		case awayID:
			sumAway += s.Goals
		}
	}

	if sumHome > homeScore || sumAway > awayScore {
		return apperrors.NewValidationError(MsgScorersExceed)
	}
	return nil
}

// NormalizeName trims a player name and rejects blank names
func NormalizeName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", apperrors.NewValidationError(MsgNameRequired)
	}
	return trimmed, nil
}

// SameName compares player names ignoring case
func SameName(a, b string) bool {
	return FoldName(strings.TrimSpace(a)) == FoldName(strings.TrimSpace(b))
}

// FoldName returns the case-folded form used for name ordering and lookups
func FoldName(name string) string {
	return cases.Fold().String(name)
}

// NormalizeSubmitter trims the submitter name, defaulting to the anonymous label
func NormalizeSubmitter(name string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return domain.DefaultSubmitter
}

// NormalizeEvidence keeps an attachment only when it carries a payload
func NormalizeEvidence(e *domain.Evidence) *domain.Evidence {
	if e == nil || strings.TrimSpace(e.Data) == "" {
		return nil
	}
	return &domain.Evidence{Name: e.Name, Data: e.Data}
}
