package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"placar/internal/domain"
	"placar/pkg/database"
)

const suggestionColumns = `id, homeid, awayid, homescore, awayscore, scorers, submittedby, createdat, evidence`

const matchColumns = suggestionColumns + `, status, approvedat, updatedat`

// uniqueViolation is the SQLSTATE raised by unique indexes
const uniqueViolation = "23505"

// PostgresStore persists records in PostgreSQL through a pgx pool.
// Approval runs in a single transaction.
type PostgresStore struct {
	db *database.PostgresDB
}

// NewPostgresStore creates a store backed by the given pool
func NewPostgresStore(db *database.PostgresDB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Backend names the store implementation
func (s *PostgresStore) Backend() string {
	return "postgres"
}

// Health checks the database connection
func (s *PostgresStore) Health(ctx context.Context) error {
	return s.db.Health(ctx)
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}

// ListPlayers returns every player
func (s *PostgresStore) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT id, name FROM players ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	defer rows.Close()

	players := []domain.Player{}
	for rows.Next() {
		var p domain.Player
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

// GetPlayer retrieves a player by ID
func (s *PostgresStore) GetPlayer(ctx context.Context, id string) (*domain.Player, error) {
	var p domain.Player
	err := s.db.Pool.QueryRow(ctx, `SELECT id, name FROM players WHERE id = $1`, id).Scan(&p.ID, &p.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &p, nil
}

// PlayersExist reports whether every given ID belongs to a player
func (s *PostgresStore) PlayersExist(ctx context.Context, ids ...string) (bool, error) {
	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return true, nil
	}

	var n int
	err := s.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM players WHERE id = ANY($1)`, unique).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check players: %w", err)
	}
	return n == len(unique), nil
}

// CreatePlayer inserts a new player
func (s *PostgresStore) CreatePlayer(ctx context.Context, player *domain.Player) error {
	_, err := s.db.Pool.Exec(ctx, `INSERT INTO players (id, name) VALUES ($1, $2)`, player.ID, player.Name)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

// UpdatePlayer replaces a player's name
func (s *PostgresStore) UpdatePlayer(ctx context.Context, player *domain.Player) (bool, error) {
	tag, err := s.db.Pool.Exec(ctx, `UPDATE players SET name = $2 WHERE id = $1`, player.ID, player.Name)
	if isUniqueViolation(err) {
		return false, ErrDuplicate
	}
	if err != nil {
		return false, fmt.Errorf("failed to update player: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeletePlayer removes a player
func (s *PostgresStore) DeletePlayer(ctx context.Context, id string) (bool, error) {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete player: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// CountPlayerReferences counts suggestions or matches where the player is home or away
func (s *PostgresStore) CountPlayerReferences(ctx context.Context, collection Collection, playerID string) (int, error) {
	var query string
	switch collection {
	case CollectionSuggestions:
		query = `SELECT COUNT(*) FROM suggestions WHERE homeid = $1 OR awayid = $1`
	case CollectionMatches:
		query = `SELECT COUNT(*) FROM matches WHERE homeid = $1 OR awayid = $1`
	default:
		return 0, fmt.Errorf("unsupported reference collection %q", collection)
	}

	var n int
	if err := s.db.Pool.QueryRow(ctx, query, playerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s references: %w", collection, err)
	}
	return n, nil
}

// ListSuggestions returns every pending suggestion, newest first
func (s *PostgresStore) ListSuggestions(ctx context.Context) ([]domain.Suggestion, error) {
	rows, err := s.db.Pool.Query(ctx, `SELECT `+suggestionColumns+` FROM suggestions ORDER BY createdat DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	defer rows.Close()

	suggestions := []domain.Suggestion{}
	for rows.Next() {
		row, err := scanSuggestion(rows)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}
	return suggestions, nil
}

// GetSuggestion retrieves a suggestion by ID
func (s *PostgresStore) GetSuggestion(ctx context.Context, id string) (*domain.Suggestion, error) {
	row, err := scanSuggestion(s.db.Pool.QueryRow(ctx, `SELECT `+suggestionColumns+` FROM suggestions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	sg := row.toDomain()
	return &sg, nil
}

// CreateSuggestion inserts a new suggestion
func (s *PostgresStore) CreateSuggestion(ctx context.Context, suggestion *domain.Suggestion) error {
	row := suggestionRowFrom(suggestion)

	scorers, err := encodeJSONColumn(row.Scorers)
	if err != nil {
		return err
	}
	evidence, err := encodeEvidence(row.Evidence)
	if err != nil {
		return err
	}

	_, err = s.db.Pool.Exec(ctx, `
		INSERT INTO suggestions (`+suggestionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		row.ID, row.HomeID, row.AwayID, row.HomeScore, row.AwayScore,
		scorers, row.SubmittedBy, row.CreatedAt, evidence,
	)
	if err != nil {
		return fmt.Errorf("failed to create suggestion: %w", err)
	}
	return nil
}

// DeleteSuggestion removes a suggestion
func (s *PostgresStore) DeleteSuggestion(ctx context.Context, id string) (bool, error) {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM suggestions WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete suggestion: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ApproveSuggestion locks the suggestion, inserts the match and deletes the
// suggestion in one transaction
func (s *PostgresStore) ApproveSuggestion(ctx context.Context, id string, approve ApproveFunc) (*domain.Match, error) {
	var match *domain.Match

	err := s.db.WithTx(ctx, func(tx pgx.Tx) error {
		row, err := scanSuggestion(tx.QueryRow(ctx,
			`SELECT `+suggestionColumns+` FROM suggestions WHERE id = $1 FOR UPDATE`, id))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}

		m := approve(row.toDomain())
		if err := insertMatch(ctx, tx, &m); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM suggestions WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to remove approved suggestion: %w", err)
		}

		match = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// ListMatches returns every match, most recently approved first
func (s *PostgresStore) ListMatches(ctx context.Context) ([]domain.Match, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT `+matchColumns+` FROM matches ORDER BY approvedat DESC NULLS LAST, createdat DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	matches := []domain.Match{}
	for rows.Next() {
		row, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, row.toDomain())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

// GetMatch retrieves a match by ID
func (s *PostgresStore) GetMatch(ctx context.Context, id string) (*domain.Match, error) {
	row, err := scanMatch(s.db.Pool.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	m := row.toDomain()
	return &m, nil
}

// UpdateMatch replaces a stored match
func (s *PostgresStore) UpdateMatch(ctx context.Context, match *domain.Match) (bool, error) {
	row := matchRowFrom(match)

	scorers, err := encodeJSONColumn(row.Scorers)
	if err != nil {
		return false, err
	}
	evidence, err := encodeEvidence(row.Evidence)
	if err != nil {
		return false, err
	}

	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE matches
		SET homeid = $2, awayid = $3, homescore = $4, awayscore = $5, scorers = $6,
		    submittedby = $7, evidence = $8, status = $9, updatedat = $10
		WHERE id = $1`,
		row.ID, row.HomeID, row.AwayID, row.HomeScore, row.AwayScore, scorers,
		row.SubmittedBy, evidence, row.Status, row.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update match: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteMatch removes a match
func (s *PostgresStore) DeleteMatch(ctx context.Context, id string) (bool, error) {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM matches WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete match: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func insertMatch(ctx context.Context, tx pgx.Tx, match *domain.Match) error {
	row := matchRowFrom(match)

	scorers, err := encodeJSONColumn(row.Scorers)
	if err != nil {
		return err
	}
	evidence, err := encodeEvidence(row.Evidence)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO matches (`+matchColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		row.ID, row.HomeID, row.AwayID, row.HomeScore, row.AwayScore, scorers,
		row.SubmittedBy, row.CreatedAt, evidence, row.Status, row.ApprovedAt, row.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert approved match: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// encodeEvidence maps a missing attachment to NULL instead of a JSON null
func encodeEvidence(e *domain.Evidence) (interface{}, error) {
	if e == nil {
		return nil, nil
	}
	return encodeJSONColumn(e)
}

func scanSuggestion(row pgx.Row) (suggestionRow, error) {
	var (
		r        suggestionRow
		scorers  []byte
		evidence []byte
	)
	err := row.Scan(&r.ID, &r.HomeID, &r.AwayID, &r.HomeScore, &r.AwayScore,
		&scorers, &r.SubmittedBy, &r.CreatedAt, &evidence)
	if errors.Is(err, pgx.ErrNoRows) {
		return r, err
	}
	if err != nil {
		return r, fmt.Errorf("failed to scan suggestion: %w", err)
	}

	if r.Scorers, err = decodeScorersColumn(scorers); err != nil {
		return r, err
	}
	if r.Evidence, err = decodeEvidenceColumn(evidence); err != nil {
		return r, err
	}
	return r, nil
}

func scanMatch(row pgx.Row) (matchRow, error) {
	var (
		r          matchRow
		scorers    []byte
		evidence   []byte
		approvedAt *time.Time
	)
	err := row.Scan(&r.ID, &r.HomeID, &r.AwayID, &r.HomeScore, &r.AwayScore,
		&scorers, &r.SubmittedBy, &r.CreatedAt, &evidence,
		&r.Status, &approvedAt, &r.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return r, err
	}
	if err != nil {
		return r, fmt.Errorf("failed to scan match: %w", err)
	}

	if approvedAt != nil {
		r.ApprovedAt = *approvedAt
	}
	if r.Scorers, err = decodeScorersColumn(scorers); err != nil {
		return r, err
	}
	if r.Evidence, err = decodeEvidenceColumn(evidence); err != nil {
		return r, err
	}
	return r, nil
}
