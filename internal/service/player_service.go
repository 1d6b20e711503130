package service

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"placar/internal/domain"
	"placar/internal/repository"
	"placar/internal/validation"
	apperrors "placar/pkg/errors"
)

// Player roster messages
const (
	MsgPlayerNameTaken     = "player name already exists"
	MsgPlayerInMatches     = "player is used in matches"
	MsgPlayerInSuggestions = "player is used in suggestions"
	msgPlayerStoreFailure  = "failed to access players"
)

type PlayerService struct {
	store  repository.Store
	cache  *CacheService
	logger *zap.Logger
	newID  func() string
}

func NewPlayerService(store repository.Store, cache *CacheService, logger *zap.Logger) *PlayerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlayerService{
		store:  store,
		cache:  cache,
		logger: logger,
		newID:  uuid.NewString,
	}
}

// List returns every player ordered by name, ignoring case
func (s *PlayerService) List(ctx context.Context) ([]domain.Player, error) {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(msgPlayerStoreFailure, err)
	}
	sortPlayers(players)
	return players, nil
}

// Create adds a player whose trimmed name is not already taken
func (s *PlayerService) Create(ctx context.Context, req domain.PlayerRequest) (*domain.Player, error) {
	name, err := validation.NormalizeName(req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	player := &domain.Player{ID: s.newID(), Name: name}
	if err := s.store.CreatePlayer(ctx, player); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewValidationError(MsgPlayerNameTaken)
		}
		return nil, apperrors.NewInternalError(msgPlayerStoreFailure, err)
	}

	s.cache.InvalidateStandings(ctx)
	s.logger.Info("Player created", zap.String("player_id", player.ID))
	return player, nil
}

// Rename changes a player's name under the same rules as Create
func (s *PlayerService) Rename(ctx context.Context, id string, req domain.PlayerRequest) (*domain.Player, error) {
	name, err := validation.NormalizeName(req.Name)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.GetPlayer(ctx, id)
	if err != nil {
		return nil, apperrors.NewInternalError(msgPlayerStoreFailure, err)
	}
	if existing == nil {
		return nil, apperrors.NewNotFoundError(validation.MsgPlayerNotFound)
	}

	if err := s.ensureNameFree(ctx, name, id); err != nil {
		return nil, err
	}

	player := &domain.Player{ID: id, Name: name}
	found, err := s.store.UpdatePlayer(ctx, player)
	if errors.Is(err, repository.ErrDuplicate) {
		return nil, apperrors.NewValidationError(MsgPlayerNameTaken)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(msgPlayerStoreFailure, err)
	}
	if !found {
		return nil, apperrors.NewNotFoundError(validation.MsgPlayerNotFound)
	}

	s.cache.InvalidateStandings(ctx)
	s.logger.Info("Player renamed", zap.String("player_id", id))
	return player, nil
}

// Delete removes a player unless a match or suggestion still references it
func (s *PlayerService) Delete(ctx context.Context, id string) error {
	existing, err := s.store.GetPlayer(ctx, id)
	if err != nil {
		return apperrors.NewInternalError(msgPlayerStoreFailure, err)
	}
	if existing == nil {
		return apperrors.NewNotFoundError(validation.MsgPlayerNotFound)
	}

	references := []struct {
		collection repository.Collection
		message    string
	}{
		{repository.CollectionMatches, MsgPlayerInMatches},
		{repository.CollectionSuggestions, MsgPlayerInSuggestions},
	}
	for _, ref := range references {
		n, err := s.store.CountPlayerReferences(ctx, ref.collection, id)
		if err != nil {
			return apperrors.NewInternalError(msgPlayerStoreFailure, err)
		}
		if n > 0 {
			return apperrors.NewValidationError(ref.message)
		}
	}

	found, err := s.store.DeletePlayer(ctx, id)
	if err != nil {
		return apperrors.NewInternalError(msgPlayerStoreFailure, err)
	}
	if !found {
		return apperrors.NewNotFoundError(validation.MsgPlayerNotFound)
	}

	s.cache.InvalidateStandings(ctx)
	s.logger.Info("Player deleted", zap.String("player_id", id))
	return nil
}

// ensureNameFree fails when another player already uses name, ignoring case
func (s *PlayerService) ensureNameFree(ctx context.Context, name, selfID string) error {
	players, err := s.store.ListPlayers(ctx)
	if err != nil {
		return apperrors.NewInternalError(msgPlayerStoreFailure, err)
	}
	for _, p := range players {
		if p.ID != selfID && validation.SameName(p.Name, name) {
			return apperrors.NewValidationError(MsgPlayerNameTaken)
		}
	}
	return nil
}

func sortPlayers(players []domain.Player) {
	sort.SliceStable(players, func(i, j int) bool {
		return validation.FoldName(players[i].Name) < validation.FoldName(players[j].Name)
	})
}
