package repository

import (
	"context"
	"errors"

	"placar/internal/domain"
)

// ErrDuplicate is returned when a write violates a uniqueness constraint
var ErrDuplicate = errors.New("duplicate record")

// Collection names a persisted record collection
type Collection string

const (
	CollectionPlayers     Collection = "players"
	CollectionSuggestions Collection = "suggestions"
	CollectionMatches     Collection = "matches"
)

// ApproveFunc builds the match that replaces an approved suggestion
type ApproveFunc func(s domain.Suggestion) domain.Match

// PlayerRepository defines the interface for player data operations.
// Lookups return (nil, nil) when the record does not exist.
type PlayerRepository interface {
	// ListPlayers returns every player in no particular order
	ListPlayers(ctx context.Context) ([]domain.Player, error)

	// GetPlayer retrieves a player by ID
	GetPlayer(ctx context.Context, id string) (*domain.Player, error)

	// PlayersExist reports whether every given ID belongs to a player
	PlayersExist(ctx context.Context, ids ...string) (bool, error)

	// CreatePlayer inserts a new player
	CreatePlayer(ctx context.Context, player *domain.Player) error

	// UpdatePlayer replaces a player's name, reporting false if it does not exist
	UpdatePlayer(ctx context.Context, player *domain.Player) (bool, error)

	// DeletePlayer removes a player, reporting false if it does not exist
	DeletePlayer(ctx context.Context, id string) (bool, error)

	// CountPlayerReferences counts suggestions or matches where the player is home or away
	CountPlayerReferences(ctx context.Context, collection Collection, playerID string) (int, error)
}

// SuggestionRepository defines the interface for pending suggestion operations
type SuggestionRepository interface {
	// ListSuggestions returns every pending suggestion in no particular order
	ListSuggestions(ctx context.Context) ([]domain.Suggestion, error)

	// GetSuggestion retrieves a suggestion by ID
	GetSuggestion(ctx context.Context, id string) (*domain.Suggestion, error)

	// CreateSuggestion inserts a new suggestion
	CreateSuggestion(ctx context.Context, suggestion *domain.Suggestion) error

	// DeleteSuggestion removes a suggestion, reporting false if it does not exist
	DeleteSuggestion(ctx context.Context, id string) (bool, error)

	// ApproveSuggestion replaces the suggestion with the match built by approve.
	// It returns (nil, nil) when the suggestion does not exist.
	ApproveSuggestion(ctx context.Context, id string, approve ApproveFunc) (*domain.Match, error)
}

// MatchRepository defines the interface for approved match operations
type MatchRepository interface {
	// ListMatches returns every match in no particular order
	ListMatches(ctx context.Context) ([]domain.Match, error)

	// GetMatch retrieves a match by ID
	GetMatch(ctx context.Context, id string) (*domain.Match, error)

	// UpdateMatch replaces a stored match, reporting false if it does not exist
	UpdateMatch(ctx context.Context, match *domain.Match) (bool, error)

	// DeleteMatch removes a match, reporting false if it does not exist
	DeleteMatch(ctx context.Context, id string) (bool, error)
}

// Store is the record store every backend implements
type Store interface {
	PlayerRepository
	SuggestionRepository
	MatchRepository

	// Backend names the store implementation, for logs and health output
	Backend() string

	// Health checks that the underlying storage is reachable
	Health(ctx context.Context) error

	// Close releases the store's resources
	Close() error
}
