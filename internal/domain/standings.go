package domain

// PlayerStanding is one leaderboard row
type PlayerStanding struct {
	PlayerID     string  `json:"playerId"`
	Name         string  `json:"name"`
	Points       int     `json:"points"`
	Played       int     `json:"played"`
	Wins         int     `json:"wins"`
	Draws        int     `json:"draws"`
	Losses       int     `json:"losses"`
	GoalsFor     int     `json:"goalsFor"`
	GoalsAgainst int     `json:"goalsAgainst"`
	GoalDiff     int     `json:"goalDiff"`
	Efficiency   float64 `json:"efficiency"`
}

// ScorerTally is the total goals credited to a scorer name on one owner's side
type ScorerTally struct {
	Name    string `json:"name"`
	OwnerID string `json:"ownerId"`
	Goals   int    `json:"goals"`
}

// HeadToHead summarizes every match played between two players
type HeadToHead struct {
	PlayerA    string       `json:"playerA"`
	PlayerB    string       `json:"playerB"`
	Games      int          `json:"games"`
	WinsA      int          `json:"winsA"`
	WinsB      int          `json:"winsB"`
	Draws      int          `json:"draws"`
	GoalsA     int          `json:"goalsA"`
	GoalsB     int          `json:"goalsB"`
	TopScorerA *ScorerTally `json:"topScorerA"`
	TopScorerB *ScorerTally `json:"topScorerB"`
	AvgGoals   float64      `json:"avgGoals"`
	Matches    []Match      `json:"matches"`
}

// Summary holds headline totals across the whole league
type Summary struct {
	TotalMatches int `json:"totalMatches"`
	TotalGoals   int `json:"totalGoals"`
	TotalPlayers int `json:"totalPlayers"`
}
