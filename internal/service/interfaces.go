package service

import (
	"context"

	"placar/internal/domain"
)

// PlayerManager defines the roster operations exposed over HTTP
type PlayerManager interface {
	// List returns every player ordered by name
	List(ctx context.Context) ([]domain.Player, error)

	// Create adds a player with a unique name
	Create(ctx context.Context, req domain.PlayerRequest) (*domain.Player, error)

	// Rename changes a player's name
	Rename(ctx context.Context, id string, req domain.PlayerRequest) (*domain.Player, error)

	// Delete removes a player that no match or suggestion references
	Delete(ctx context.Context, id string) error
}

// SuggestionManager defines the review queue operations
type SuggestionManager interface {
	// Create validates and stores a submitted result
	Create(ctx context.Context, req domain.SuggestionRequest) (*domain.Suggestion, error)

	// List returns pending suggestions, newest first
	List(ctx context.Context) ([]domain.Suggestion, error)

	// Reject discards a pending suggestion
	Reject(ctx context.Context, id string) error

	// Approve turns a pending suggestion into a match
	Approve(ctx context.Context, id string) (*domain.Match, error)
}

// MatchManager defines the approved match maintenance operations
type MatchManager interface {
	// List returns matches, most recently approved first
	List(ctx context.Context) ([]domain.Match, error)

	// Edit merges a patch into a match and revalidates it
	Edit(ctx context.Context, id string, patch domain.MatchPatch) (*domain.Match, error)

	// Delete removes a match
	Delete(ctx context.Context, id string) error
}

// StandingsReader defines the derived statistics served to clients
type StandingsReader interface {
	Leaderboard(ctx context.Context, sortKey, query string) ([]domain.PlayerStanding, error)
	TopScorers(ctx context.Context, query string, limit int) ([]domain.ScorerTally, error)
	HeadToHead(ctx context.Context, playerA, playerB string) (*domain.HeadToHead, error)
	Summary(ctx context.Context) (*domain.Summary, error)
}

// AdminAuthenticator defines admin login and token checks
type AdminAuthenticator interface {
	// Login exchanges admin credentials for a token
	Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)

	// ValidateToken checks a token presented on an admin request
	ValidateToken(ctx context.Context, token string) (*domain.AdminClaims, error)
}

// Services aggregates all service interfaces
type Services struct {
	Auth        AdminAuthenticator
	Players     PlayerManager
	Suggestions SuggestionManager
	Matches     MatchManager
	Standings   StandingsReader
}
