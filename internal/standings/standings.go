// Package standings derives league tables and statistics from approved
// matches. Every function is pure and works on the records it is given.
package standings

import (
	"math"
	"sort"
	"strings"

	"placar/internal/domain"
	"placar/internal/validation"
)

// Leaderboard sort keys
const (
	SortPoints       = "points"
	SortPlayed       = "played"
	SortWins         = "wins"
	SortDraws        = "draws"
	SortLosses       = "losses"
	SortGoalsFor     = "goalsFor"
	SortGoalsAgainst = "goalsAgainst"
	SortGoalDiff     = "goalDiff"
	SortEfficiency   = "efficiency"
)

// DefaultScorerLimit caps the top scorer list when no limit is requested
const DefaultScorerLimit = 15

var sortKeys = map[string]func(domain.PlayerStanding) float64{
	SortPoints:       func(s domain.PlayerStanding) float64 { return float64(s.Points) },
	SortPlayed:       func(s domain.PlayerStanding) float64 { return float64(s.Played) },
	SortWins:         func(s domain.PlayerStanding) float64 { return float64(s.Wins) },
	SortDraws:        func(s domain.PlayerStanding) float64 { return float64(s.Draws) },
	SortLosses:       func(s domain.PlayerStanding) float64 { return float64(s.Losses) },
	SortGoalsFor:     func(s domain.PlayerStanding) float64 { return float64(s.GoalsFor) },
	SortGoalsAgainst: func(s domain.PlayerStanding) float64 { return float64(s.GoalsAgainst) },
	SortGoalDiff:     func(s domain.PlayerStanding) float64 { return float64(s.GoalDiff) },
	SortEfficiency:   func(s domain.PlayerStanding) float64 { return s.Efficiency },
}

// ValidSortKey reports whether key names a leaderboard column
func ValidSortKey(key string) bool {
	_, ok := sortKeys[key]
	return ok
}

// Leaderboard builds one row per player in roster order. Matches that
// reference a player missing from the roster are skipped.
func Leaderboard(players []domain.Player, matches []domain.Match) []domain.PlayerStanding {
	rows := make([]domain.PlayerStanding, len(players))
	index := make(map[string]int, len(players))
	for i, p := range players {
		rows[i] = domain.PlayerStanding{PlayerID: p.ID, Name: p.Name}
		index[p.ID] = i
	}

	for _, m := range matches {
		hi, okHome := index[m.HomeID]
		ai, okAway := index[m.AwayID]
		if !okHome || !okAway {
			continue
		}
		home, away := &rows[hi], &rows[ai]

		home.Played++
		away.Played++
		home.GoalsFor += m.HomeScore
		home.GoalsAgainst += m.AwayScore
		away.GoalsFor += m.AwayScore
		away.GoalsAgainst += m.HomeScore

		switch {
		case m.HomeScore > m.AwayScore:
			home.Wins++
			away.Losses++
			home.Points += 3
		case m.HomeScore < m.AwayScore:
			away.Wins++
			home.Losses++
			away.Points += 3
		default:
			home.Draws++
			away.Draws++
			home.Points++
			away.Points++
		}
	}

	for i := range rows {
		rows[i].GoalDiff = rows[i].GoalsFor - rows[i].GoalsAgainst
		if rows[i].Played > 0 {
			rows[i].Efficiency = roundOne(float64(rows[i].Points) / float64(rows[i].Played*3) * 100)
		}
	}
	return rows
}

// SortLeaderboard orders rows descending by key, then by goal difference,
// then by name. Unknown keys fall back to points.
func SortLeaderboard(rows []domain.PlayerStanding, key string) {
	value, ok := sortKeys[key]
	if !ok {
		value = sortKeys[SortPoints]
	}

	sort.SliceStable(rows, func(i, j int) bool {
		vi, vj := value(rows[i]), value(rows[j])
		if vi != vj {
			return vi > vj
		}
		if rows[i].GoalDiff != rows[j].GoalDiff {
			return rows[i].GoalDiff > rows[j].GoalDiff
		}
		return validation.FoldName(rows[i].Name) < validation.FoldName(rows[j].Name)
	})
}

// FilterByName keeps rows whose name contains term, ignoring case
func FilterByName(rows []domain.PlayerStanding, term string) []domain.PlayerStanding {
	needle := validation.FoldName(strings.TrimSpace(term))
	if needle == "" {
		return rows
	}

	out := make([]domain.PlayerStanding, 0, len(rows))
	for _, r := range rows {
		if strings.Contains(validation.FoldName(r.Name), needle) {
			out = append(out, r)
		}
	}
	return out
}

// TopScorers totals goals per scorer name and owning side, highest first
func TopScorers(matches []domain.Match) []domain.ScorerTally {
	totals := map[string]*domain.ScorerTally{}
	var order []string

	for _, m := range matches {
		for _, s := range m.Scorers {
			name := strings.TrimSpace(s.Name)
			if name == "" || s.Goals <= 0 {
				continue
			}
			key := validation.FoldName(name) + "|" + s.OwnerID
			t, ok := totals[key]
			if !ok {
				t = &domain.ScorerTally{Name: name, OwnerID: s.OwnerID}
				totals[key] = t
				order = append(order, key)
			}
			t.Goals += s.Goals
		}
	}

	out := make([]domain.ScorerTally, 0, len(order))
	for _, key := range order {
		out = append(out, *totals[key])
	}
	sortTallies(out)
	return out
}

// FilterScorers keeps tallies whose name contains term and truncates to limit.
// A limit of zero or less means no limit.
func FilterScorers(tallies []domain.ScorerTally, term string, limit int) []domain.ScorerTally {
	needle := validation.FoldName(strings.TrimSpace(term))

	out := make([]domain.ScorerTally, 0, len(tallies))
	for _, t := range tallies {
		if needle != "" && !strings.Contains(validation.FoldName(t.Name), needle) {
			continue
		}
		out = append(out, t)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// HeadToHead summarizes the matches played between a and b in either orientation
func HeadToHead(a, b string, matches []domain.Match) domain.HeadToHead {
	h := domain.HeadToHead{PlayerA: a, PlayerB: b, Matches: []domain.Match{}}

	totalGoals := 0
	for _, m := range matches {
		aIsHome := m.HomeID == a && m.AwayID == b
		if !aIsHome && !(m.HomeID == b && m.AwayID == a) {
			continue
		}

		scoreA, scoreB := m.HomeScore, m.AwayScore
		if !aIsHome {
			scoreA, scoreB = m.AwayScore, m.HomeScore
		}

		h.Games++
		h.GoalsA += scoreA
		h.GoalsB += scoreB
		totalGoals += scoreA + scoreB
		switch {
		case scoreA > scoreB:
			h.WinsA++
		case scoreA < scoreB:
			h.WinsB++
		default:
			h.Draws++
		}
		h.Matches = append(h.Matches, m)
	}

	if h.Games > 0 {
		h.AvgGoals = roundOne(float64(totalGoals) / float64(h.Games))
	}
	h.TopScorerA = topScorerFor(h.Matches, a)
	h.TopScorerB = topScorerFor(h.Matches, b)
	SortByPlayedAt(h.Matches)

	return h
}

// Summary returns the headline totals
func Summary(players []domain.Player, matches []domain.Match) domain.Summary {
	s := domain.Summary{TotalMatches: len(matches), TotalPlayers: len(players)}
	for _, m := range matches {
		s.TotalGoals += m.HomeScore + m.AwayScore
	}
	return s
}

// SortByPlayedAt orders matches newest first by approval time, falling back to creation time
func SortByPlayedAt(matches []domain.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		ti, tj := matches[i].PlayedAt(), matches[j].PlayedAt()
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
}

// topScorerFor returns the scorer with most goals credited to ownerID, or nil
func topScorerFor(matches []domain.Match, ownerID string) *domain.ScorerTally {
	var owned []domain.Match
	for _, m := range matches {
		var scorers []domain.Scorer
		for _, s := range m.Scorers {
			if s.OwnerID == ownerID {
				scorers = append(scorers, s)
			}
		}
		if len(scorers) > 0 {
			owned = append(owned, domain.Match{Scorers: scorers})
		}
	}

	tallies := TopScorers(owned)
	if len(tallies) == 0 {
		return nil
	}
	top := tallies[0]
	return &top
}

func sortTallies(tallies []domain.ScorerTally) {
	sort.SliceStable(tallies, func(i, j int) bool {
		if tallies[i].Goals != tallies[j].Goals {
			return tallies[i].Goals > tallies[j].Goals
		}
		return validation.FoldName(tallies[i].Name) < validation.FoldName(tallies[j].Name)
	})
}

func roundOne(v float64) float64 {
	return math.Round(v*10) / 10
}
