package repository

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placar/internal/domain"
	"placar/pkg/logger"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	path := filepath.Join(t.TempDir(), "data", "placar.json")
	store, err := NewFileStore(path, logger.NewNop())
	require.NoError(t, err)
	return store, path
}

func sampleSuggestion(id string) *domain.Suggestion {
	return &domain.Suggestion{
		ID:          id,
		HomeID:      "p1",
		AwayID:      "p2",
		HomeScore:   2,
		AwayScore:   1,
		Scorers:     []domain.Scorer{{Name: "Xavi", Goals: 2, OwnerID: "p1"}},
		SubmittedBy: "Carlos",
		CreatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Evidence:    &domain.Evidence{Name: "print.png", Data: "data:image/png;base64,AAAA"},
	}
}

func TestNewFileStore_InitializesFile(t *testing.T) {
	_, path := newTestFileStore(t)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"players"`)
}

func TestNewFileStore_RejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "placar.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewFileStore(path, nil)
	assert.Error(t, err)
}

func TestFileStore_Players(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreatePlayer(ctx, &domain.Player{ID: "p1", Name: "Zico"}))
	require.NoError(t, store.CreatePlayer(ctx, &domain.Player{ID: "p2", Name: "Sócrates"}))

	players, err := store.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Len(t, players, 2)

	p, err := store.GetPlayer(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Zico", p.Name)

	missing, err := store.GetPlayer(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	ok, err := store.PlayersExist(ctx, "p1", "p2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.PlayersExist(ctx, "p1", "ghost")
	require.NoError(t, err)
	assert.False(t, ok)

	found, err := store.UpdatePlayer(ctx, &domain.Player{ID: "p1", Name: "Arthur"})
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.UpdatePlayer(ctx, &domain.Player{ID: "ghost", Name: "X"})
	require.NoError(t, err)
	assert.False(t, found)

	found, err = store.DeletePlayer(ctx, "p2")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.DeletePlayer(ctx, "p2")
	require.NoError(t, err)
	assert.False(t, found)

	players, err = store.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Player{{ID: "p1", Name: "Arthur"}}, players)
}

func TestFileStore_ApproveSuggestion(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateSuggestion(ctx, sampleSuggestion("s1")))

	approvedAt := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	match, err := store.ApproveSuggestion(ctx, "s1", func(s domain.Suggestion) domain.Match {
		return s.Approve(approvedAt)
	})
	require.NoError(t, err)
	require.NotNil(t, match)
	assert.Equal(t, "s1", match.ID)
	assert.Nil(t, match.Evidence)

	suggestion, err := store.GetSuggestion(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, suggestion)

	stored, err := store.GetMatch(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, approvedAt, stored.ApprovedAt)
	assert.Equal(t, domain.MatchStatusApproved, stored.Status)
	assert.Equal(t, []domain.Scorer{{Name: "Xavi", Goals: 2, OwnerID: "p1"}}, stored.Scorers)

	again, err := store.ApproveSuggestion(ctx, "s1", func(s domain.Suggestion) domain.Match {
		t.Fatal("approve must not run for a missing suggestion")
		return domain.Match{}
	})
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestFileStore_MatchUpdateDeleteAndReferences(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateSuggestion(ctx, sampleSuggestion("s1")))
	require.NoError(t, store.CreateSuggestion(ctx, sampleSuggestion("s2")))
	_, err := store.ApproveSuggestion(ctx, "s2", func(s domain.Suggestion) domain.Match {
		return s.Approve(time.Now().UTC())
	})
	require.NoError(t, err)

	n, err := store.CountPlayerReferences(ctx, CollectionSuggestions, "p2")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = store.CountPlayerReferences(ctx, CollectionMatches, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = store.CountPlayerReferences(ctx, CollectionMatches, "p3")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = store.CountPlayerReferences(ctx, CollectionPlayers, "p1")
	assert.Error(t, err)

	match, err := store.GetMatch(ctx, "s2")
	require.NoError(t, err)
	match.HomeScore = 5
	updated := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	match.UpdatedAt = &updated

	found, err := store.UpdateMatch(ctx, match)
	require.NoError(t, err)
	assert.True(t, found)

	reloaded, err := store.GetMatch(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 5, reloaded.HomeScore)
	require.NotNil(t, reloaded.UpdatedAt)
	assert.Equal(t, updated, *reloaded.UpdatedAt)

	found, err = store.UpdateMatch(ctx, &domain.Match{ID: "ghost"})
	require.NoError(t, err)
	assert.False(t, found)

	found, err = store.DeleteMatch(ctx, "s2")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = store.DeleteMatch(ctx, "s2")
	require.NoError(t, err)
	assert.False(t, found)

	found, err = store.DeleteSuggestion(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, found)

	suggestions, err := store.ListSuggestions(ctx)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestFileStore_ReadsLegacyScorerOwner(t *testing.T) {
	path := filepath.Join(t.TempDir(), "placar.json")
	legacy := `{
  "players": [{"id": "p1", "name": "Zico"}, {"id": "p2", "name": "Careca"}],
  "suggestions": [],
  "matches": [{
    "id": "m1", "homeid": "p1", "awayid": "p2", "homescore": 1, "awayscore": 0,
    "scorers": [{"name": "Zico", "goals": 1, "playerId": "p1"}],
    "submittedby": "Anonimo", "createdat": "2024-01-01T10:00:00Z",
    "status": "approved", "approvedat": "2024-01-01T11:00:00Z"
  }]
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	store, err := NewFileStore(path, nil)
	require.NoError(t, err)

	matches, err := store.ListMatches(context.Background())
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, []domain.Scorer{{Name: "Zico", Goals: 1, OwnerID: "p1"}}, matches[0].Scorers)
	assert.Nil(t, matches[0].UpdatedAt)
	assert.Nil(t, matches[0].Evidence)
}

func TestFileStore_ConcurrentWrites(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := string(rune('a' + i))
			assert.NoError(t, store.CreatePlayer(ctx, &domain.Player{ID: id, Name: id}))
		}(i)
	}
	wg.Wait()

	players, err := store.ListPlayers(ctx)
	require.NoError(t, err)
	assert.Len(t, players, 20)
}

func TestFileStore_CanceledContext(t *testing.T) {
	store, _ := newTestFileStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.ListPlayers(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
