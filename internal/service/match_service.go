package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"placar/internal/domain"
	"placar/internal/repository"
	"placar/internal/standings"
	"placar/internal/validation"
	apperrors "placar/pkg/errors"
)

const (
	MsgMatchNotFound     = "match not found"
	msgMatchStoreFailure = "failed to access matches"
)

type MatchService struct {
	store  repository.Store
	cache  *CacheService
	logger *zap.Logger
	now    func() time.Time
}

func NewMatchService(store repository.Store, cache *CacheService, logger *zap.Logger) *MatchService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchService{
		store:  store,
		cache:  cache,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns matches, most recently approved first
func (s *MatchService) List(ctx context.Context) ([]domain.Match, error) {
	matches, err := s.store.ListMatches(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(msgMatchStoreFailure, err)
	}
	standings.SortByPlayedAt(matches)
	return matches, nil
}

// Edit merges patch into the stored match and validates the merged record
// with the same rules and order used at submission.
func (s *MatchService) Edit(ctx context.Context, id string, patch domain.MatchPatch) (*domain.Match, error) {
	existing, err := s.store.GetMatch(ctx, id)
	if err != nil {
		return nil, apperrors.NewInternalError(msgMatchStoreFailure, err)
	}
	if existing == nil {
		return nil, apperrors.NewNotFoundError(MsgMatchNotFound)
	}

	merged := *existing
	if patch.HomeID != "" {
		merged.HomeID = patch.HomeID
	}
	if patch.AwayID != "" {
		merged.AwayID = patch.AwayID
	}
	if err := validation.ValidatePair(merged.HomeID, merged.AwayID); err != nil {
		return nil, err
	}

	homeScore, okHome := mergeScore(patch.HomeScore, existing.HomeScore)
	awayScore, okAway := mergeScore(patch.AwayScore, existing.AwayScore)
	if !okHome || !okAway {
		return nil, apperrors.NewValidationError(validation.MsgInvalidScore)
	}
	merged.HomeScore = homeScore
	merged.AwayScore = awayScore

	if err := ensurePlayersExist(ctx, s.store, merged.HomeID, merged.AwayID); err != nil {
		return nil, err
	}

	if patch.Scorers != nil {
		merged.Scorers = validation.NormalizeScorers(patch.Scorers, merged.HomeID, merged.AwayID)
	}
	if err := validation.ValidateScorerSums(merged.HomeID, merged.AwayID, merged.HomeScore, merged.AwayScore, merged.Scorers); err != nil {
		return nil, err
	}

	if submitter := strings.TrimSpace(patch.SubmittedBy); submitter != "" {
		merged.SubmittedBy = submitter
	}
	if evidence := validation.NormalizeEvidence(patch.Evidence); evidence != nil {
		merged.Evidence = evidence
	}

	updatedAt := s.now()
	merged.UpdatedAt = &updatedAt

	found, err := s.store.UpdateMatch(ctx, &merged)
	if err != nil {
		return nil, apperrors.NewInternalError(msgMatchStoreFailure, err)
	}
	if !found {
		return nil, apperrors.NewNotFoundError(MsgMatchNotFound)
	}

	s.cache.InvalidateStandings(ctx)
	s.logger.Info("Match edited", zap.String("match_id", id))
	return &merged, nil
}

// Delete removes a match
func (s *MatchService) Delete(ctx context.Context, id string) error {
	found, err := s.store.DeleteMatch(ctx, id)
	if err != nil {
		return apperrors.NewInternalError(msgMatchStoreFailure, err)
	}
	if !found {
		return apperrors.NewNotFoundError(MsgMatchNotFound)
	}

	s.cache.InvalidateStandings(ctx)
	s.logger.Info("Match deleted", zap.String("match_id", id))
	return nil
}

// mergeScore keeps current when the patch omits the score
func mergeScore(v interface{}, current int) (int, bool) {
	if v == nil {
		return current, true
	}
	return validation.ParseScore(v)
}
