package brackets

import (
	"fmt"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Dosada05/knockout-cup/models"
)

var fixedNow = time.Date(2026, 6, 11, 18, 0, 0, 0, time.UTC)

func teamNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("Team %02d", i+1)
	}
	return names
}

func newTestTournament(t *testing.T, groupCount int, opts ...Option) *Tournament {
	t.Helper()
	opts = append([]Option{WithShuffler(NoShuffle), WithClock(func() time.Time { return fixedNow })}, opts...)
	tour, err := NewTournament("Test Cup", groupCount, teamNames(groupCount*models.TeamsPerGroup), opts...)
	require.NoError(t, err)
	return tour
}

// teamNumber turns "T12" into 12.
func teamNumber(t *testing.T, id string) int {
	t.Helper()
	n, err := strconv.Atoi(strings.TrimPrefix(id, "T"))
	require.NoError(t, err)
	return n
}

// favourLowerIDs plays every group match 1-0 for the team with the lower id, so
// each group finishes in draw order with the same goal record per position.
func favourLowerIDs(t *testing.T, tour *Tournament) {
	t.Helper()
	for _, g := range tour.groups {
		for _, m := range g.Matches {
			home, away := 1, 0
			if teamNumber(t, m.HomeTeamID) > teamNumber(t, m.AwayTeamID) {
				home, away = 0, 1
			}
			require.NoError(t, tour.UpdateMatchResult(m.ID, MatchResult{Home: home, Away: away}))
		}
	}
}

func regulation(home, away int) MatchResult {
	return MatchResult{Home: home, Away: away}
}

func matchTeams(t *testing.T, tour *Tournament, matchID string) (string, string) {
	t.Helper()
	m, ok := tour.Match(matchID)
	require.True(t, ok, "match %s", matchID)
	return m.HomeTeamID, m.AwayTeamID
}

func newTestGroup(names ...string) (*Group, *Roster) {
	roster := NewRoster()
	ids := make([]string, len(names))
	for i, n := range names {
		ids[i] = fmt.Sprintf("T%d", i+1)
		roster.Add(models.Team{ID: ids[i], Name: n, GroupID: "A"})
	}
	return NewGroup("A", ids, roster), roster
}
