package standings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placar/internal/domain"
)

var base = time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)

func match(id, home, away string, hs, as int, dayOffset int, scorers ...domain.Scorer) domain.Match {
	return domain.Match{
		ID:         id,
		HomeID:     home,
		AwayID:     away,
		HomeScore:  hs,
		AwayScore:  as,
		Scorers:    scorers,
		Status:     domain.MatchStatusApproved,
		CreatedAt:  base.AddDate(0, 0, dayOffset),
		ApprovedAt: base.AddDate(0, 0, dayOffset).Add(time.Hour),
	}
}

func fixtures() ([]domain.Player, []domain.Match) {
	players := []domain.Player{
		{ID: "a", Name: "Ana"},
		{ID: "b", Name: "Bruno"},
		{ID: "c", Name: "Caio"},
	}
	matches := []domain.Match{
		match("m1", "a", "b", 3, 1, 0,
			domain.Scorer{Name: "Xavi", Goals: 2, OwnerID: "a"},
			domain.Scorer{Name: "Yaya", Goals: 1, OwnerID: "b"}),
		match("m2", "b", "a", 2, 2, 1,
			domain.Scorer{Name: "xavi", Goals: 1, OwnerID: "a"}),
		match("m3", "c", "a", 1, 0, 2),
		match("m4", "a", "ghost", 9, 0, 3),
	}
	return players, matches
}

func rowFor(t *testing.T, rows []domain.PlayerStanding, id string) domain.PlayerStanding {
	for _, r := range rows {
		if r.PlayerID == id {
			return r
		}
	}
	t.Fatalf("no row for %s", id)
	return domain.PlayerStanding{}
}

func TestLeaderboard(t *testing.T) {
	players, matches := fixtures()

	rows := Leaderboard(players, matches)
	require.Len(t, rows, 3)

	ana := rowFor(t, rows, "a")
	assert.Equal(t, 3, ana.Played)
	assert.Equal(t, 1, ana.Wins)
	assert.Equal(t, 1, ana.Draws)
	assert.Equal(t, 1, ana.Losses)
	assert.Equal(t, 4, ana.Points)
	assert.Equal(t, 5, ana.GoalsFor)
	assert.Equal(t, 4, ana.GoalsAgainst)
	assert.Equal(t, 1, ana.GoalDiff)
	assert.Equal(t, 44.4, ana.Efficiency)

	caio := rowFor(t, rows, "c")
	assert.Equal(t, 3, caio.Points)
	assert.Equal(t, 100.0, caio.Efficiency)

	bruno := rowFor(t, rows, "b")
	assert.Equal(t, 1, bruno.Points)
	assert.Equal(t, -2, bruno.GoalDiff)
}

func TestLeaderboard_UnplayedPlayer(t *testing.T) {
	rows := Leaderboard([]domain.Player{{ID: "z", Name: "Zé"}}, nil)
	require.Len(t, rows, 1)
	assert.Equal(t, 0, rows[0].Played)
	assert.Equal(t, 0.0, rows[0].Efficiency)
}

func TestSortLeaderboard(t *testing.T) {
	players, matches := fixtures()
	rows := Leaderboard(players, matches)

	SortLeaderboard(rows, SortPoints)
	assert.Equal(t, []string{"a", "c", "b"}, ids(rows))

	SortLeaderboard(rows, SortEfficiency)
	assert.Equal(t, []string{"c", "a", "b"}, ids(rows))

	SortLeaderboard(rows, "bogus")
	assert.Equal(t, []string{"a", "c", "b"}, ids(rows))
}

func TestSortLeaderboard_TieBreaks(t *testing.T) {
	rows := []domain.PlayerStanding{
		{PlayerID: "1", Name: "beta", Points: 3, GoalDiff: 1},
		{PlayerID: "2", Name: "Alpha", Points: 3, GoalDiff: 1},
		{PlayerID: "3", Name: "gamma", Points: 3, GoalDiff: 4},
	}

	SortLeaderboard(rows, SortPoints)
	assert.Equal(t, []string{"3", "2", "1"}, ids(rows))
}

func TestFilterByName(t *testing.T) {
	players, matches := fixtures()
	rows := Leaderboard(players, matches)

	assert.Len(t, FilterByName(rows, ""), 3)
	filtered := FilterByName(rows, " BRU ")
	require.Len(t, filtered, 1)
	assert.Equal(t, "b", filtered[0].PlayerID)
}

func TestValidSortKey(t *testing.T) {
	assert.True(t, ValidSortKey(SortGoalDiff))
	assert.False(t, ValidSortKey("name"))
}

func TestTopScorers(t *testing.T) {
	_, matches := fixtures()

	got := TopScorers(matches)
	assert.Equal(t, []domain.ScorerTally{
		{Name: "Xavi", OwnerID: "a", Goals: 3},
		{Name: "Yaya", OwnerID: "b", Goals: 1},
	}, got)
}

func TestTopScorers_SameNameDifferentOwner(t *testing.T) {
	matches := []domain.Match{
		match("m1", "a", "b", 1, 1, 0,
			domain.Scorer{Name: "Gol", Goals: 1, OwnerID: "a"},
			domain.Scorer{Name: "Gol", Goals: 1, OwnerID: "b"}),
	}
	assert.Len(t, TopScorers(matches), 2)
}

func TestFilterScorers(t *testing.T) {
	tallies := []domain.ScorerTally{
		{Name: "Xavi", Goals: 5},
		{Name: "Xande", Goals: 4},
		{Name: "Yaya", Goals: 3},
	}

	assert.Len(t, FilterScorers(tallies, "", 0), 3)
	assert.Len(t, FilterScorers(tallies, "", 2), 2)
	assert.Equal(t, []domain.ScorerTally{{Name: "Xande", Goals: 4}}, FilterScorers(tallies, "xan", 10))
}

func TestHeadToHead(t *testing.T) {
	_, matches := fixtures()

	h := HeadToHead("a", "b", matches)
	assert.Equal(t, 2, h.Games)
	assert.Equal(t, 1, h.WinsA)
	assert.Equal(t, 0, h.WinsB)
	assert.Equal(t, 1, h.Draws)
	assert.Equal(t, 5, h.GoalsA)
	assert.Equal(t, 3, h.GoalsB)
	assert.Equal(t, 4.0, h.AvgGoals)

	require.NotNil(t, h.TopScorerA)
	assert.Equal(t, "Xavi", h.TopScorerA.Name)
	assert.Equal(t, 3, h.TopScorerA.Goals)
	require.NotNil(t, h.TopScorerB)
	assert.Equal(t, "Yaya", h.TopScorerB.Name)

	require.Len(t, h.Matches, 2)
	assert.Equal(t, "m2", h.Matches[0].ID)
	assert.Equal(t, "m1", h.Matches[1].ID)
}

func TestHeadToHead_NoGames(t *testing.T) {
	_, matches := fixtures()

	h := HeadToHead("b", "c", matches)
	assert.Equal(t, 0, h.Games)
	assert.Equal(t, 0.0, h.AvgGoals)
	assert.Nil(t, h.TopScorerA)
	assert.Nil(t, h.TopScorerB)
	assert.NotNil(t, h.Matches)
	assert.Empty(t, h.Matches)
}

func TestSummary(t *testing.T) {
	players, matches := fixtures()

	assert.Equal(t, domain.Summary{TotalMatches: 4, TotalGoals: 18, TotalPlayers: 3}, Summary(players, matches))
}

func TestSortByPlayedAt(t *testing.T) {
	older := match("old", "a", "b", 0, 0, 0)
	newer := match("new", "a", "b", 0, 0, 5)
	unapproved := match("created-only", "a", "b", 0, 0, 2)
	unapproved.ApprovedAt = time.Time{}

	list := []domain.Match{older, unapproved, newer}
	SortByPlayedAt(list)

	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "created-only", list[1].ID)
	assert.Equal(t, "old", list[2].ID)
}

func ids(rows []domain.PlayerStanding) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.PlayerID
	}
	return out
}
