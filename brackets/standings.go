package brackets

import (
	"sort"
	"strings"

	"github.com/Dosada05/knockout-cup/models"
)

// ComputeStandings builds a group table from scratch. Only played matches with
// both scores count. Rows are ordered by points, goal difference, goals for,
// head-to-head between the two tied teams and finally by name, so the result is
// fully ordered for any input with distinct names.
func ComputeStandings(teams []models.Team, matches []*models.Match) []models.StandingsRow {
	rows := make([]models.StandingsRow, len(teams))
	index := make(map[string]*models.StandingsRow, len(teams))
	for i, team := range teams {
		rows[i] = models.StandingsRow{TeamID: team.ID, TeamName: team.Name}
		index[team.ID] = &rows[i]
	}

	for _, match := range matches {
		if !countsForTable(match) {
			continue
		}
		home := index[match.HomeTeamID]
		away := index[match.AwayTeamID]
		if home == nil || away == nil {
			continue
		}
		applyResult(home, *match.HomeScore, *match.AwayScore)
		applyResult(away, *match.AwayScore, *match.HomeScore)
	}

	for i := range rows {
		rows[i].GoalDifference = rows[i].GoalsFor - rows[i].GoalsAgainst
	}

	SortStandings(rows, matches)
	return rows
}

// SortStandings orders rows in place using the official tie-break sequence.
// Rows are pre-sorted by name so the head-to-head step, which is not
// transitive across three or more teams, still yields a deterministic order.
func SortStandings(rows []models.StandingsRow, matches []*models.Match) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].TeamName < rows[j].TeamName
	})
	sort.SliceStable(rows, func(i, j int) bool {
		return compareRows(rows[i], rows[j], matches) < 0
	})
}

// compareRows returns a negative number when a ranks above b.
func compareRows(a, b models.StandingsRow, matches []*models.Match) int {
	if a.Points != b.Points {
		return b.Points - a.Points
	}
	if a.GoalDifference != b.GoalDifference {
		return b.GoalDifference - a.GoalDifference
	}
	if a.GoalsFor != b.GoalsFor {
		return b.GoalsFor - a.GoalsFor
	}
	if h2h := headToHead(a.TeamID, b.TeamID, matches); h2h != 0 {
		return -h2h
	}
	return strings.Compare(a.TeamName, b.TeamName)
}

// headToHead sums +1 per win and -1 per loss of teamA against teamB over the
// played matches between exactly these two teams.
func headToHead(teamA, teamB string, matches []*models.Match) int {
	score := 0
	for _, match := range matches {
		if !countsForTable(match) || !match.HasTeam(teamA) || !match.HasTeam(teamB) {
			continue
		}
		switch match.WinnerID {
		case teamA:
			score++
		case teamB:
			score--
		}
	}
	return score
}

func countsForTable(m *models.Match) bool {
	return m.Played && m.HomeScore != nil && m.AwayScore != nil
}

func applyResult(row *models.StandingsRow, scored, conceded int) {
	row.Played++
	row.GoalsFor += scored
	row.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		row.Won++
		row.Points += models.PointsForWin
	case scored == conceded:
		row.Drawn++
		row.Points += models.PointsForDraw
	default:
		row.Lost++
		row.Points += models.PointsForLoss
	}
}
