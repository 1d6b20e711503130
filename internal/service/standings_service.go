package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"placar/internal/domain"
	"placar/internal/repository"
	"placar/internal/standings"
	"placar/internal/validation"
	apperrors "placar/pkg/errors"
)

const msgStandingsStoreFailure = "failed to load standings"

// MsgInvalidSortKey is returned for an unknown leaderboard column
const MsgInvalidSortKey = "invalid sort key"

type StandingsService struct {
	store  repository.Store
	cache  *CacheService
	logger *zap.Logger
}

func NewStandingsService(store repository.Store, cache *CacheService, logger *zap.Logger) *StandingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StandingsService{store: store, cache: cache, logger: logger}
}

// snapshot is the roster and match list standings are derived from
type snapshot struct {
	players []domain.Player
	matches []domain.Match
}

// load reads players and matches concurrently
func (s *StandingsService) load(ctx context.Context) (*snapshot, error) {
	var snap snapshot

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		players, err := s.store.ListPlayers(gctx)
		if err != nil {
			return fmt.Errorf("failed to list players: %w", err)
		}
		snap.players = players
		return nil
	})
	g.Go(func() error {
		matches, err := s.store.ListMatches(gctx)
		if err != nil {
			return fmt.Errorf("failed to list matches: %w", err)
		}
		snap.matches = matches
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, apperrors.NewInternalError(msgStandingsStoreFailure, err)
	}
	return &snap, nil
}

// Leaderboard returns the table sorted by sortKey and filtered by query
func (s *StandingsService) Leaderboard(ctx context.Context, sortKey, query string) ([]domain.PlayerStanding, error) {
	if sortKey == "" {
		sortKey = standings.SortPoints
	}
	if !standings.ValidSortKey(sortKey) {
		return nil, apperrors.NewValidationError(MsgInvalidSortKey)
	}

	rows, err := cachedView(ctx, s.cache, "leaderboard", func(ctx context.Context) ([]domain.PlayerStanding, error) {
		snap, err := s.load(ctx)
		if err != nil {
			return nil, err
		}
		return standings.Leaderboard(snap.players, snap.matches), nil
	})
	if err != nil {
		return nil, err
	}

	rows = standings.FilterByName(rows, query)
	standings.SortLeaderboard(rows, sortKey)
	return rows, nil
}

// TopScorers returns scorer tallies filtered by query, capped at limit
func (s *StandingsService) TopScorers(ctx context.Context, query string, limit int) ([]domain.ScorerTally, error) {
	if limit <= 0 {
		limit = standings.DefaultScorerLimit
	}

	tallies, err := cachedView(ctx, s.cache, "scorers", func(ctx context.Context) ([]domain.ScorerTally, error) {
		matches, err := s.store.ListMatches(ctx)
		if err != nil {
			return nil, apperrors.NewInternalError(msgStandingsStoreFailure, err)
		}
		return standings.TopScorers(matches), nil
	})
	if err != nil {
		return nil, err
	}

	return standings.FilterScorers(tallies, query, limit), nil
}

// HeadToHead compares two distinct players over their shared matches
func (s *StandingsService) HeadToHead(ctx context.Context, playerA, playerB string) (*domain.HeadToHead, error) {
	playerA, playerB = strings.TrimSpace(playerA), strings.TrimSpace(playerB)
	if err := validation.ValidatePair(playerA, playerB); err != nil {
		return nil, err
	}

	h, err := cachedView(ctx, s.cache, "h2h:"+playerA+":"+playerB, func(ctx context.Context) (domain.HeadToHead, error) {
		matches, err := s.store.ListMatches(ctx)
		if err != nil {
			return domain.HeadToHead{}, apperrors.NewInternalError(msgStandingsStoreFailure, err)
		}
		return standings.HeadToHead(playerA, playerB, matches), nil
	})
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Summary returns league-wide totals
func (s *StandingsService) Summary(ctx context.Context) (*domain.Summary, error) {
	summary, err := cachedView(ctx, s.cache, "summary", func(ctx context.Context) (domain.Summary, error) {
		snap, err := s.load(ctx)
		if err != nil {
			return domain.Summary{}, err
		}
		return standings.Summary(snap.players, snap.matches), nil
	})
	if err != nil {
		return nil, err
	}
	return &summary, nil
}
