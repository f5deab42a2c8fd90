package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/knockout-cup/models"
)

func TestRoundRobinFixtures(t *testing.T) {
	matches, err := RoundRobinFixtures("C", []string{"T9", "T10", "T11", "T12"})
	require.NoError(t, err)
	require.Len(t, matches, 6)

	pairs := make(map[[2]string]bool)
	home := make(map[string]int)
	away := make(map[string]int)
	perMatchday := make(map[int]map[string]bool)

	for i, m := range matches {
		assert.Equal(t, "C"+string(rune('1'+i)), m.ID)
		ctx, ok := m.Context.(models.GroupContext)
		require.True(t, ok)
		assert.Equal(t, "C", ctx.GroupID)

		key := [2]string{m.HomeTeamID, m.AwayTeamID}
		if m.AwayTeamID < m.HomeTeamID {
			key = [2]string{m.AwayTeamID, m.HomeTeamID}
		}
		assert.False(t, pairs[key], "pair %v scheduled twice", key)
		pairs[key] = true

		home[m.HomeTeamID]++
		away[m.AwayTeamID]++

		if perMatchday[ctx.Matchday] == nil {
			perMatchday[ctx.Matchday] = make(map[string]bool)
		}
		assert.False(t, perMatchday[ctx.Matchday][m.HomeTeamID])
		assert.False(t, perMatchday[ctx.Matchday][m.AwayTeamID])
		perMatchday[ctx.Matchday][m.HomeTeamID] = true
		perMatchday[ctx.Matchday][m.AwayTeamID] = true
	}

	assert.Len(t, pairs, 6)
	assert.Len(t, perMatchday, 3)
	for _, id := range []string{"T9", "T10", "T11", "T12"} {
		assert.GreaterOrEqual(t, home[id], 1, "%s never at home", id)
		assert.GreaterOrEqual(t, away[id], 1, "%s never away", id)
		assert.Equal(t, 3, home[id]+away[id])
	}
}

func TestRoundRobinFixtures_WrongSize(t *testing.T) {
	_, err := RoundRobinFixtures("A", []string{"T1", "T2", "T3"})
	assert.ErrorIs(t, err, ErrInvalidTeamCount)
}

func TestGroup_UpdateMatchResult(t *testing.T) {
	g, _ := newTestGroup("One", "Two", "Three", "Four")
	require.NoError(t, g.GenerateMatches())

	t.Run("unknown match", func(t *testing.T) {
		err := g.UpdateMatchResult("B1", 1, 0)
		assert.ErrorIs(t, err, ErrMatchNotFound)
	})

	t.Run("negative score leaves table untouched", func(t *testing.T) {
		err := g.UpdateMatchResult("A1", -1, 0)
		assert.ErrorIs(t, err, models.ErrNegativeScore)
		assert.False(t, g.Match("A1").Played)
	})

	t.Run("draw has no winner", func(t *testing.T) {
		require.NoError(t, g.UpdateMatchResult("A2", 2, 2))
		m := g.Match("A2")
		assert.True(t, m.Played)
		assert.Empty(t, m.WinnerID)
	})
}

func TestGroup_IsCompleted(t *testing.T) {
	g, _ := newTestGroup("One", "Two", "Three", "Four")
	assert.False(t, g.IsCompleted(), "no fixtures yet")

	require.NoError(t, g.GenerateMatches())
	for i, m := range g.Matches {
		assert.False(t, g.IsCompleted())
		require.NoError(t, g.UpdateMatchResult(m.ID, i, 0))
	}
	assert.True(t, g.IsCompleted())

	g.ClearResults()
	assert.False(t, g.IsCompleted())
	for _, row := range g.Standings {
		assert.Zero(t, row.Played)
	}
}

func TestGroup_MarkQualifiedTeams(t *testing.T) {
	g, _ := newTestGroup("One", "Two", "Three", "Four")
	require.NoError(t, g.GenerateMatches())

	g.MarkQualifiedTeams(2, true)
	assert.True(t, g.Standings[0].Qualified)
	assert.True(t, g.Standings[1].Qualified)
	assert.False(t, g.Standings[2].Qualified)
	assert.True(t, g.Standings[2].BestThird)
	assert.False(t, g.Standings[3].Qualified)
	assert.False(t, g.Standings[3].BestThird)

	g.MarkQualifiedTeams(2, false)
	assert.False(t, g.Standings[2].BestThird)
}
