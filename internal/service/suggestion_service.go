package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"placar/internal/domain"
	"placar/internal/repository"
	"placar/internal/validation"
	apperrors "placar/pkg/errors"
)

const (
	MsgSuggestionNotFound     = "suggestion not found"
	msgSuggestionStoreFailure = "failed to access suggestions"
)

type SuggestionService struct {
	store  repository.Store
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewSuggestionService(store repository.Store, cache *CacheService, logger *zap.Logger) *SuggestionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionService{
		store:  store,
		cache:  cache,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

// Create validates a submitted result and stores it for review. Checks run
// in order and the first failure is returned; nothing is written on failure.
func (s *SuggestionService) Create(ctx context.Context, req domain.SuggestionRequest) (*domain.Suggestion, error) {
	if err := validation.ValidatePair(req.HomeID, req.AwayID); err != nil {
		return nil, err
	}

	homeScore, okHome := validation.ParseScore(req.HomeScore)
	awayScore, okAway := validation.ParseScore(req.AwayScore)
	if !okHome || !okAway {
		return nil, apperrors.NewValidationError(validation.MsgInvalidScore)
	}

	if err := ensurePlayersExist(ctx, s.store, req.HomeID, req.AwayID); err != nil {
		return nil, err
	}

	scorers := validation.NormalizeScorers(req.Scorers, req.HomeID, req.AwayID)
	if err := validation.ValidateScorerSums(req.HomeID, req.AwayID, homeScore, awayScore, scorers); err != nil {
		return nil, err
	}

	suggestion := &domain.Suggestion{
		ID:          s.newID(),
		HomeID:      req.HomeID,
		AwayID:      req.AwayID,
		HomeScore:   homeScore,
		AwayScore:   awayScore,
		Scorers:     scorers,
		SubmittedBy: validation.NormalizeSubmitter(req.SubmittedBy),
		CreatedAt:   s.now(),
		Evidence:    validation.NormalizeEvidence(req.Evidence),
	}

	if err := s.store.CreateSuggestion(ctx, suggestion); err != nil {
		return nil, apperrors.NewInternalError(msgSuggestionStoreFailure, err)
	}

	s.logger.Info("Suggestion created",
		zap.String("suggestion_id", suggestion.ID),
		zap.String("submitted_by", suggestion.SubmittedBy),
		zap.Bool("has_evidence", suggestion.Evidence != nil))
	return suggestion, nil
}

// List returns pending suggestions, newest first
func (s *SuggestionService) List(ctx context.Context) ([]domain.Suggestion, error) {
	suggestions, err := s.store.ListSuggestions(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(msgSuggestionStoreFailure, err)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].CreatedAt.After(suggestions[j].CreatedAt)
	})
	return suggestions, nil
}

// Reject discards a pending suggestion
func (s *SuggestionService) Reject(ctx context.Context, id string) error {
	found, err := s.store.DeleteSuggestion(ctx, id)
	if err != nil {
		return apperrors.NewInternalError(msgSuggestionStoreFailure, err)
	}
	if !found {
		return apperrors.NewNotFoundError(MsgSuggestionNotFound)
	}

	s.logger.Info("Suggestion rejected", zap.String("suggestion_id", id))
	return nil
}

// Approve replaces a pending suggestion with an approved match carrying the
// same id. The suggestion is not validated again.
func (s *SuggestionService) Approve(ctx context.Context, id string) (*domain.Match, error) {
	approvedAt := s.now()

	match, err := s.store.ApproveSuggestion(ctx, id, func(sg domain.Suggestion) domain.Match {
		return sg.Approve(approvedAt)
	})
	if err != nil {
		return nil, apperrors.NewInternalError("failed to approve suggestion", err)
	}
	if match == nil {
		return nil, apperrors.NewNotFoundError(MsgSuggestionNotFound)
	}

	s.cache.InvalidateStandings(ctx)
	s.logger.Info("Suggestion approved", zap.String("match_id", match.ID))
	return match, nil
}

// ensurePlayersExist fails with a validation error unless both players are on the roster
func ensurePlayersExist(ctx context.Context, store repository.PlayerRepository, homeID, awayID string) error {
	ok, err := store.PlayersExist(ctx, homeID, awayID)
	if err != nil {
		return apperrors.NewInternalError(msgPlayerStoreFailure, err)
	}
	if !ok {
		return apperrors.NewValidationError(validation.MsgPlayerNotFound)
	}
	return nil
}
