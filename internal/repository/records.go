package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"placar/internal/domain"
)

// Row types mirror the persisted table layout shared by every backend:
// lowercase column names, scorers and evidence as JSON documents. Mapping
// to domain types happens only here.

// scorerRecord is a stored scorer. Older rows credit goals through
// playerId instead of ownerId.
type scorerRecord struct {
	Name     string `json:"name"`
	Goals    int    `json:"goals"`
	OwnerID  string `json:"ownerId,omitempty"`
	PlayerID string `json:"playerId,omitempty"`
}

type playerRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type suggestionRow struct {
	ID          string           `json:"id"`
	HomeID      string           `json:"homeid"`
	AwayID      string           `json:"awayid"`
	HomeScore   int              `json:"homescore"`
	AwayScore   int              `json:"awayscore"`
	Scorers     []scorerRecord   `json:"scorers"`
	SubmittedBy string           `json:"submittedby"`
	CreatedAt   time.Time        `json:"createdat"`
	Evidence    *domain.Evidence `json:"evidence"`
}

type matchRow struct {
	suggestionRow
	Status     string     `json:"status"`
	ApprovedAt time.Time  `json:"approvedat"`
	UpdatedAt  *time.Time `json:"updatedat"`
}

func scorersFromRecords(records []scorerRecord) []domain.Scorer {
	scorers := make([]domain.Scorer, 0, len(records))
	for _, r := range records {
		owner := r.OwnerID
		if owner == "" {
			owner = r.PlayerID
		}
		scorers = append(scorers, domain.Scorer{Name: r.Name, Goals: r.Goals, OwnerID: owner})
	}
	return scorers
}

func scorersToRecords(scorers []domain.Scorer) []scorerRecord {
	records := make([]scorerRecord, 0, len(scorers))
	for _, s := range scorers {
		records = append(records, scorerRecord{Name: s.Name, Goals: s.Goals, OwnerID: s.OwnerID})
	}
	return records
}

func (r playerRow) toDomain() domain.Player {
	return domain.Player{ID: r.ID, Name: r.Name}
}

func playerRowFrom(p *domain.Player) playerRow {
	return playerRow{ID: p.ID, Name: p.Name}
}

func (r suggestionRow) toDomain() domain.Suggestion {
	return domain.Suggestion{
		ID:          r.ID,
		HomeID:      r.HomeID,
		AwayID:      r.AwayID,
		HomeScore:   r.HomeScore,
		AwayScore:   r.AwayScore,
		Scorers:     scorersFromRecords(r.Scorers),
		SubmittedBy: r.SubmittedBy,
		CreatedAt:   r.CreatedAt.UTC(),
		Evidence:    r.Evidence,
	}
}

func suggestionRowFrom(s *domain.Suggestion) suggestionRow {
	return suggestionRow{
		ID:          s.ID,
		HomeID:      s.HomeID,
		AwayID:      s.AwayID,
		HomeScore:   s.HomeScore,
		AwayScore:   s.AwayScore,
		Scorers:     scorersToRecords(s.Scorers),
		SubmittedBy: s.SubmittedBy,
		CreatedAt:   s.CreatedAt,
		Evidence:    s.Evidence,
	}
}

func (r matchRow) toDomain() domain.Match {
	var updatedAt *time.Time
	if r.UpdatedAt != nil {
		u := r.UpdatedAt.UTC()
		updatedAt = &u
	}

	return domain.Match{
		ID:          r.ID,
		HomeID:      r.HomeID,
		AwayID:      r.AwayID,
		HomeScore:   r.HomeScore,
		AwayScore:   r.AwayScore,
		Scorers:     scorersFromRecords(r.Scorers),
		SubmittedBy: r.SubmittedBy,
		CreatedAt:   r.CreatedAt.UTC(),
		Evidence:    r.Evidence,
		Status:      r.Status,
		ApprovedAt:  r.ApprovedAt.UTC(),
		UpdatedAt:   updatedAt,
	}
}

func matchRowFrom(m *domain.Match) matchRow {
	return matchRow{
		suggestionRow: suggestionRow{
			ID:          m.ID,
			HomeID:      m.HomeID,
			AwayID:      m.AwayID,
			HomeScore:   m.HomeScore,
			AwayScore:   m.AwayScore,
			Scorers:     scorersToRecords(m.Scorers),
			SubmittedBy: m.SubmittedBy,
			CreatedAt:   m.CreatedAt,
			Evidence:    m.Evidence,
		},
		Status:     m.Status,
		ApprovedAt: m.ApprovedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

// encodeJSONColumn marshals a value for a JSONB parameter. The text form is
// passed so the server infers jsonb instead of bytea.
func encodeJSONColumn(v interface{}) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode json column: %w", err)
	}
	return string(data), nil
}

// decodeScorersColumn unmarshals a scorers JSON column, tolerating NULL
func decodeScorersColumn(data []byte) ([]scorerRecord, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var records []scorerRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode scorers column: %w", err)
	}
	return records, nil
}

// decodeEvidenceColumn unmarshals an evidence JSON column, tolerating NULL
func decodeEvidenceColumn(data []byte) (*domain.Evidence, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var evidence domain.Evidence
	if err := json.Unmarshal(data, &evidence); err != nil {
		return nil, fmt.Errorf("failed to decode evidence column: %w", err)
	}
	return &evidence, nil
}
