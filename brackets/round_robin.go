package brackets

import (
	"fmt"

	"github.com/Dosada05/knockout-cup/models"
)

// fixturePattern is the three-matchday rotation for a group of four, as
// (matchday, home position, away position) with 1-based positions. Every team
// is at home at least once and away at least once.
var fixturePattern = [6][3]int{
	{1, 1, 4},
	{1, 2, 3},
	{2, 1, 2},
	{2, 3, 4},
	{3, 3, 1},
	{3, 4, 2},
}

// RoundRobinFixtures creates the six group matches for exactly four teams.
func RoundRobinFixtures(groupID string, teamIDs []string) ([]*models.Match, error) {
	if len(teamIDs) != models.TeamsPerGroup {
		return nil, fmt.Errorf("%w: group %s has %d teams, need %d", ErrInvalidTeamCount, groupID, len(teamIDs), models.TeamsPerGroup)
	}

	matches := make([]*models.Match, 0, len(fixturePattern))
	for i, fixture := range fixturePattern {
		matches = append(matches, &models.Match{
			ID:         fmt.Sprintf("%s%d", groupID, i+1),
			HomeTeamID: teamIDs[fixture[1]-1],
			AwayTeamID: teamIDs[fixture[2]-1],
			Context:    models.GroupContext{GroupID: groupID, Matchday: fixture[0]},
		})
	}
	return matches, nil
}
