package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"placar/internal/domain"
	"placar/internal/repository"
	"placar/pkg/logger"
)

// fixedClock returns successive instants one minute apart
func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		t := current
		current = current.Add(time.Minute)
		return t
	}
}

type testEnv struct {
	store       *repository.FileStore
	players     *PlayerService
	suggestions *SuggestionService
	matches     *MatchService
	standings   *StandingsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := repository.NewFileStore(filepath.Join(t.TempDir(), "placar.json"), logger.NewNop())
	require.NoError(t, err)

	clock := fixedClock(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	suggestions := NewSuggestionService(store, nil, nil)
	suggestions.now = clock
	matches := NewMatchService(store, nil, nil)
	matches.now = clock

	return &testEnv{
		store:       store,
		players:     NewPlayerService(store, nil, nil),
		suggestions: suggestions,
		matches:     matches,
		standings:   NewStandingsService(store, nil, nil),
	}
}

func (e *testEnv) addPlayer(t *testing.T, name string) domain.Player {
	t.Helper()
	p, err := e.players.Create(context.Background(), domain.PlayerRequest{Name: name})
	require.NoError(t, err)
	return *p
}

// approvedMatch submits and approves a result, returning the match
func (e *testEnv) approvedMatch(t *testing.T, home, away string, hs, as int, scorers ...domain.RawScorer) domain.Match {
	t.Helper()
	ctx := context.Background()

	s, err := e.suggestions.Create(ctx, domain.SuggestionRequest{
		HomeID:    home,
		AwayID:    away,
		HomeScore: json.Number(strconv.Itoa(hs)),
		AwayScore: json.Number(strconv.Itoa(as)),
		Scorers:   scorers,
	})
	require.NoError(t, err)

	m, err := e.suggestions.Approve(ctx, s.ID)
	require.NoError(t, err)
	return *m
}
