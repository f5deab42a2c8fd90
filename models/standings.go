package models

// StandingsRow is a derived table line. Rows are rebuilt from the match list on
// every change and never patched in place.
type StandingsRow struct {
	TeamID         string `json:"team_id"`
	TeamName       string `json:"team_name"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`

	// Set during qualification selection only.
	Qualified bool `json:"qualified"`
	BestThird bool `json:"best_third"`
}

const (
	PointsForWin  = 3
	PointsForDraw = 1
	PointsForLoss = 0
)
