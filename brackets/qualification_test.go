package brackets

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/knockout-cup/models"
)

// playedGroups builds count completed groups. Every group finishes in id order
// and the third-placed team of group g beats fourth place by g+1 goals, so
// thirds of later groups rank higher.
func playedGroups(t *testing.T, count int) []*Group {
	t.Helper()
	roster := NewRoster()
	groups := make([]*Group, count)
	for g := 0; g < count; g++ {
		letter := groupLetter(g)
		ids := make([]string, models.TeamsPerGroup)
		for i := range ids {
			n := g*models.TeamsPerGroup + i + 1
			ids[i] = fmt.Sprintf("T%d", n)
			roster.Add(models.Team{ID: ids[i], Name: fmt.Sprintf("Team %02d", n), GroupID: letter})
		}
		groups[g] = NewGroup(letter, ids, roster)
		require.NoError(t, groups[g].GenerateMatches())
		for i, m := range groups[g].Matches {
			margin := 1
			if i == 3 {
				margin = g + 1
			}
			home, away := margin, 0
			if teamNumber(t, m.HomeTeamID) > teamNumber(t, m.AwayTeamID) {
				home, away = 0, margin
			}
			require.NoError(t, groups[g].UpdateMatchResult(m.ID, home, away))
		}
	}
	return groups
}

func qualifierIDs(qs []Qualifier) []string {
	ids := make([]string, len(qs))
	for i, q := range qs {
		ids[i] = q.TeamID
	}
	return ids
}

func TestSelectQualifiers(t *testing.T) {
	tests := []struct {
		groups     int
		winners    []string
		runnersUp  []string
		bestThirds []string
		count      int
	}{
		{groups: 1, winners: []string{"T1"}, runnersUp: []string{"T2"}, count: 4},
		{groups: 2, winners: []string{"T1", "T5"}, runnersUp: []string{"T2", "T6"}, count: 8},
		{groups: 3, winners: []string{"T1", "T5", "T9"}, runnersUp: []string{"T2", "T6", "T10"},
			bestThirds: []string{"T11", "T7"}, count: 8},
		{groups: 4, winners: []string{"T1", "T5", "T9", "T13"}, runnersUp: []string{"T2", "T6", "T10", "T14"}, count: 8},
		{groups: 6, winners: []string{"T1", "T5", "T9", "T13", "T17", "T21"},
			runnersUp:  []string{"T2", "T6", "T10", "T14", "T18", "T22"},
			bestThirds: []string{"T23", "T19", "T15", "T11"}, count: 16},
		{groups: 8, winners: []string{"T1", "T5", "T9", "T13", "T17", "T21", "T25", "T29"},
			runnersUp: []string{"T2", "T6", "T10", "T14", "T18", "T22", "T26", "T30"}, count: 16},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d groups", tt.groups), func(t *testing.T) {
			groups := playedGroups(t, tt.groups)
			q, err := SelectQualifiers(groups)
			require.NoError(t, err)

			assert.Equal(t, tt.winners, qualifierIDs(q.Winners))
			assert.Equal(t, tt.runnersUp, qualifierIDs(q.RunnersUp))
			assert.Equal(t, tt.count, q.Count())
			if tt.bestThirds == nil {
				assert.Empty(t, q.BestThirds)
			} else {
				assert.Equal(t, tt.bestThirds, qualifierIDs(q.BestThirds))
			}
		})
	}
}

func TestSelectQualifiers_MarksStandings(t *testing.T) {
	groups := playedGroups(t, 3)
	_, err := SelectQualifiers(groups)
	require.NoError(t, err)

	// Group A's third is the worst of the three and stays out.
	a := groups[0].Standings
	assert.True(t, a[0].Qualified)
	assert.True(t, a[1].Qualified)
	assert.True(t, a[2].BestThird)
	assert.False(t, a[2].Qualified)
	assert.False(t, a[3].Qualified)

	c := groups[2].Standings
	assert.True(t, c[2].BestThird)
	assert.True(t, c[2].Qualified)
}

func TestSelectQualifiers_WholeTableForTwoGroups(t *testing.T) {
	groups := playedGroups(t, 2)
	q, err := SelectQualifiers(groups)
	require.NoError(t, err)

	assert.Equal(t, []string{"T3", "T7"}, qualifierIDs(q.ThirdPlaced))
	assert.Equal(t, []string{"T4", "T8"}, qualifierIDs(q.FourthPlaced))
	for _, g := range groups {
		for _, row := range g.Standings {
			assert.True(t, row.Qualified, row.TeamID)
		}
	}
}

func TestSelectQualifiers_Errors(t *testing.T) {
	t.Run("unsupported group count", func(t *testing.T) {
		_, err := SelectQualifiers(playedGroups(t, 5))
		assert.ErrorIs(t, err, ErrUnsupportedGroupCount)
	})

	t.Run("unfinished group", func(t *testing.T) {
		groups := playedGroups(t, 4)
		groups[2].Matches[5].Clear()
		_, err := SelectQualifiers(groups)
		assert.ErrorIs(t, err, ErrGroupsNotCompleted)
	})
}

func TestQualifiers_Record(t *testing.T) {
	q, err := SelectQualifiers(playedGroups(t, 3))
	require.NoError(t, err)

	rec := q.Record()
	require.Len(t, rec.BestThirds, 2)
	assert.Equal(t, models.QualifierRef{TeamID: "T11", GroupID: "C", Position: 3}, rec.BestThirds[0])
	assert.Equal(t, models.QualifierRef{TeamID: "T1", GroupID: "A", Position: 1}, rec.Winners[0])
	assert.Nil(t, rec.ThirdPlaced)
}
