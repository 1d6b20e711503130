package domain

import (
	"time"
)

// MatchStatusApproved is the only status a persisted match carries
const MatchStatusApproved = "approved"

// DefaultSubmitter is recorded when a suggestion arrives without a submitter name
const DefaultSubmitter = "Anonimo"

// Scorer credits goals to a named scorer on one side of a match
type Scorer struct {
	Name    string `json:"name"`
	Goals   int    `json:"goals"`
	OwnerID string `json:"ownerId"`
}

// RawScorer is a scorer row as submitted by clients, before normalization.
// ScorerName and PlayerID are legacy aliases of Name and OwnerID.
type RawScorer struct {
	Name       string      `json:"name"`
	ScorerName string      `json:"scorerName,omitempty"`
	Goals      interface{} `json:"goals"`
	OwnerID    string      `json:"ownerId"`
	PlayerID   string      `json:"playerId,omitempty"`
}

// Evidence is an inline-encoded image attached to a suggestion
type Evidence struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// Suggestion is a user-submitted match result awaiting admin review
type Suggestion struct {
	ID          string    `json:"id"`
	HomeID      string    `json:"homeId"`
	AwayID      string    `json:"awayId"`
	HomeScore   int       `json:"homeScore"`
	AwayScore   int       `json:"awayScore"`
	Scorers     []Scorer  `json:"scorers"`
	SubmittedBy string    `json:"submittedBy"`
	CreatedAt   time.Time `json:"createdAt"`
	Evidence    *Evidence `json:"evidence"`
}

// Match is an approved match result that counts towards the standings
type Match struct {
	ID          string     `json:"id"`
	HomeID      string     `json:"homeId"`
	AwayID      string     `json:"awayId"`
	HomeScore   int        `json:"homeScore"`
	AwayScore   int        `json:"awayScore"`
	Scorers     []Scorer   `json:"scorers"`
	SubmittedBy string     `json:"submittedBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	Evidence    *Evidence  `json:"evidence"`
	Status      string     `json:"status"`
	ApprovedAt  time.Time  `json:"approvedAt"`
	UpdatedAt   *time.Time `json:"updatedAt"`
}

// Approve converts the suggestion into an approved match. Evidence is not
// carried over.
func (s Suggestion) Approve(now time.Time) Match {
	scorers := make([]Scorer, len(s.Scorers))
	copy(scorers, s.Scorers)

	return Match{
		ID:          s.ID,
		HomeID:      s.HomeID,
		AwayID:      s.AwayID,
		HomeScore:   s.HomeScore,
		AwayScore:   s.AwayScore,
		Scorers:     scorers,
		SubmittedBy: s.SubmittedBy,
		CreatedAt:   s.CreatedAt,
		Evidence:    nil,
		Status:      MatchStatusApproved,
		ApprovedAt:  now,
	}
}

// Involves reports whether the player takes part in the match
func (m Match) Involves(playerID string) bool {
	return m.HomeID == playerID || m.AwayID == playerID
}

// PlayedAt is the time used to order matches chronologically
func (m Match) PlayedAt() time.Time {
	if !m.ApprovedAt.IsZero() {
		return m.ApprovedAt
	}
	return m.CreatedAt
}

// SuggestionRequest is the body of a suggestion submission. Scores stay
// untyped so numeric strings can be coerced during validation.
type SuggestionRequest struct {
	HomeID      string      `json:"homeId"`
	AwayID      string      `json:"awayId"`
	HomeScore   interface{} `json:"homeScore"`
	AwayScore   interface{} `json:"awayScore"`
	Scorers     []RawScorer `json:"scorers"`
	SubmittedBy string      `json:"submittedBy"`
	Evidence    *Evidence   `json:"evidence"`
}

// MatchPatch is the body of a match edit. Zero values mean "keep the
// existing value"; a nil Scorers slice keeps the existing scorer list while
// an empty one clears it.
type MatchPatch struct {
	HomeID      string      `json:"homeId"`
	AwayID      string      `json:"awayId"`
	HomeScore   interface{} `json:"homeScore"`
	AwayScore   interface{} `json:"awayScore"`
	Scorers     []RawScorer `json:"scorers"`
	SubmittedBy string      `json:"submittedBy"`
	Evidence    *Evidence   `json:"evidence"`
}
