package repository

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"placar/internal/domain"
	"placar/pkg/logger"
	"placar/pkg/supabase"
)

// SupabaseStore persists records in Supabase tables through the REST API.
// Approval is an insert followed by a delete; a failed delete leaves both
// rows in place and is reported as an error.
type SupabaseStore struct {
	client *supabase.Client
	logger *logger.Logger
}

// NewSupabaseStore creates a store backed by the given Supabase client
func NewSupabaseStore(client *supabase.Client, log *logger.Logger) *SupabaseStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &SupabaseStore{client: client, logger: log}
}

func byID(id string) url.Values {
	return url.Values{"id": {supabase.Eq(id)}}
}

// Backend names the store implementation
func (s *SupabaseStore) Backend() string {
	return "supabase"
}

// Health checks that the REST endpoint is reachable
func (s *SupabaseStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

// Close is a no-op; the HTTP client holds no dedicated resources
func (s *SupabaseStore) Close() error {
	return nil
}

// ListPlayers returns every player
func (s *SupabaseStore) ListPlayers(ctx context.Context) ([]domain.Player, error) {
	var rows []playerRow
	if err := s.client.Select(ctx, string(CollectionPlayers), url.Values{"order": {"name.asc"}}, &rows); err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}

	players := make([]domain.Player, 0, len(rows))
	for _, row := range rows {
		players = append(players, row.toDomain())
	}
	return players, nil
}

// GetPlayer retrieves a player by ID
func (s *SupabaseStore) GetPlayer(ctx context.Context, id string) (*domain.Player, error) {
	var rows []playerRow
	if err := s.client.Select(ctx, string(CollectionPlayers), byID(id), &rows); err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	p := rows[0].toDomain()
	return &p, nil
}

// PlayersExist reports whether every given ID belongs to a player
func (s *SupabaseStore) PlayersExist(ctx context.Context, ids ...string) (bool, error) {
	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return true, nil
	}

	n, err := s.client.Count(ctx, string(CollectionPlayers), url.Values{"id": {supabase.In(unique...)}})
	if err != nil {
		return false, fmt.Errorf("failed to check players: %w", err)
	}
	return n == len(unique), nil
}

// CreatePlayer inserts a new player
func (s *SupabaseStore) CreatePlayer(ctx context.Context, player *domain.Player) error {
	if err := s.client.Insert(ctx, string(CollectionPlayers), playerRowFrom(player), nil); err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create player: %w", err)
	}
	return nil
}

// UpdatePlayer replaces a player's name
func (s *SupabaseStore) UpdatePlayer(ctx context.Context, player *domain.Player) (bool, error) {
	n, err := s.client.Update(ctx, string(CollectionPlayers), byID(player.ID), map[string]string{"name": player.Name})
	if isDuplicate(err) {
		return false, ErrDuplicate
	}
	if err != nil {
		return false, fmt.Errorf("failed to update player: %w", err)
	}
	return n > 0, nil
}

// DeletePlayer removes a player
func (s *SupabaseStore) DeletePlayer(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Delete(ctx, string(CollectionPlayers), byID(id))
	if err != nil {
		return false, fmt.Errorf("failed to delete player: %w", err)
	}
	return n > 0, nil
}

// CountPlayerReferences counts suggestions or matches where the player is home or away
func (s *SupabaseStore) CountPlayerReferences(ctx context.Context, collection Collection, playerID string) (int, error) {
	if collection != CollectionSuggestions && collection != CollectionMatches {
		return 0, fmt.Errorf("unsupported reference collection %q", collection)
	}

	filter := url.Values{"or": {supabase.EitherEq(playerID, "homeid", "awayid")}}
	n, err := s.client.Count(ctx, string(collection), filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s references: %w", collection, err)
	}
	return n, nil
}

// ListSuggestions returns every pending suggestion
func (s *SupabaseStore) ListSuggestions(ctx context.Context) ([]domain.Suggestion, error) {
	var rows []suggestionRow
	if err := s.client.Select(ctx, string(CollectionSuggestions), url.Values{"order": {"createdat.desc"}}, &rows); err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}

	suggestions := make([]domain.Suggestion, 0, len(rows))
	for _, row := range rows {
		suggestions = append(suggestions, row.toDomain())
	}
	return suggestions, nil
}

// GetSuggestion retrieves a suggestion by ID
func (s *SupabaseStore) GetSuggestion(ctx context.Context, id string) (*domain.Suggestion, error) {
	var rows []suggestionRow
	if err := s.client.Select(ctx, string(CollectionSuggestions), byID(id), &rows); err != nil {
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	sg := rows[0].toDomain()
	return &sg, nil
}

// CreateSuggestion inserts a new suggestion
func (s *SupabaseStore) CreateSuggestion(ctx context.Context, suggestion *domain.Suggestion) error {
	if err := s.client.Insert(ctx, string(CollectionSuggestions), suggestionRowFrom(suggestion), nil); err != nil {
		return fmt.Errorf("failed to create suggestion: %w", err)
	}
	return nil
}

// DeleteSuggestion removes a suggestion
func (s *SupabaseStore) DeleteSuggestion(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Delete(ctx, string(CollectionSuggestions), byID(id))
	if err != nil {
		return false, fmt.Errorf("failed to delete suggestion: %w", err)
	}
	return n > 0, nil
}

// ApproveSuggestion inserts the approved match and then removes the suggestion
func (s *SupabaseStore) ApproveSuggestion(ctx context.Context, id string, approve ApproveFunc) (*domain.Match, error) {
	suggestion, err := s.GetSuggestion(ctx, id)
	if err != nil {
		return nil, err
	}
	if suggestion == nil {
		return nil, nil
	}

	match := approve(*suggestion)
	if err := s.client.Insert(ctx, string(CollectionMatches), matchRowFrom(&match), nil); err != nil {
		return nil, fmt.Errorf("failed to insert approved match: %w", err)
	}

	if _, err := s.client.Delete(ctx, string(CollectionSuggestions), byID(id)); err != nil {
		s.logger.WithError(err).WithField("suggestion_id", id).
			Error("Approved match stored but suggestion could not be removed")
		return nil, fmt.Errorf("failed to remove approved suggestion: %w", err)
	}

	return &match, nil
}

// ListMatches returns every match
func (s *SupabaseStore) ListMatches(ctx context.Context) ([]domain.Match, error) {
	var rows []matchRow
	query := url.Values{"order": {"approvedat.desc.nullslast,createdat.desc"}}
	if err := s.client.Select(ctx, string(CollectionMatches), query, &rows); err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	matches := make([]domain.Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, row.toDomain())
	}
	return matches, nil
}

// GetMatch retrieves a match by ID
func (s *SupabaseStore) GetMatch(ctx context.Context, id string) (*domain.Match, error) {
	var rows []matchRow
	if err := s.client.Select(ctx, string(CollectionMatches), byID(id), &rows); err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	m := rows[0].toDomain()
	return &m, nil
}

// UpdateMatch replaces a stored match
func (s *SupabaseStore) UpdateMatch(ctx context.Context, match *domain.Match) (bool, error) {
	n, err := s.client.Update(ctx, string(CollectionMatches), byID(match.ID), matchRowFrom(match))
	if err != nil {
		return false, fmt.Errorf("failed to update match: %w", err)
	}
	return n > 0, nil
}

// DeleteMatch removes a match
func (s *SupabaseStore) DeleteMatch(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Delete(ctx, string(CollectionMatches), byID(id))
	if err != nil {
		return false, fmt.Errorf("failed to delete match: %w", err)
	}
	return n > 0, nil
}

func isDuplicate(err error) bool {
	var apiErr *supabase.Error
	return errors.As(err, &apiErr) && apiErr.Code == uniqueViolation
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
