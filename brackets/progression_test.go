package brackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/knockout-cup/models"
)

func quarterfinalBracket() []*models.Round {
	first := make([]pairing, 4)
	for i := range first {
		first[i] = pairing{
			home: &Qualifier{TeamID: "H" + string(rune('1'+i))},
			away: &Qualifier{TeamID: "A" + string(rune('1'+i))},
		}
	}
	return buildRounds([]models.RoundName{models.Quarterfinals, models.Semifinals, models.Final}, first)
}

func decide(t *testing.T, rounds []*models.Round, r, i, home, away int) string {
	t.Helper()
	require.NoError(t, rounds[r].Matches[i].UpdateResult(home, away))
	champion, err := Advance(rounds, r, i)
	require.NoError(t, err)
	return champion
}

func TestAdvance_SlotParity(t *testing.T) {
	rounds := quarterfinalBracket()

	decide(t, rounds, 0, 0, 1, 0)
	decide(t, rounds, 0, 1, 0, 2)
	decide(t, rounds, 0, 2, 3, 1)
	decide(t, rounds, 0, 3, 0, 1)

	sf := rounds[1].Matches
	assert.Equal(t, "H1", sf[0].HomeTeamID)
	assert.Equal(t, "A2", sf[0].AwayTeamID)
	assert.Equal(t, "H3", sf[1].HomeTeamID)
	assert.Equal(t, "A4", sf[1].AwayTeamID)
	assert.Empty(t, rounds[2].Matches[0].HomeTeamID)
}

func TestAdvance_FinalReturnsChampion(t *testing.T) {
	rounds := quarterfinalBracket()
	for i := 0; i < 4; i++ {
		assert.Empty(t, decide(t, rounds, 0, i, 1, 0))
	}
	assert.Empty(t, decide(t, rounds, 1, 0, 0, 1))
	assert.Empty(t, decide(t, rounds, 1, 1, 2, 0))

	final := rounds[2].Matches[0]
	assert.Equal(t, "H2", final.HomeTeamID)
	assert.Equal(t, "H3", final.AwayTeamID)
	assert.Equal(t, "H3", decide(t, rounds, 2, 0, 0, 4))
}

func TestAdvance_Unresolved(t *testing.T) {
	rounds := quarterfinalBracket()

	_, err := Advance(rounds, 0, 0)
	assert.ErrorIs(t, err, ErrKnockoutUnresolved)

	require.NoError(t, rounds[0].Matches[0].UpdateResult(1, 1))
	_, err = Advance(rounds, 0, 0)
	assert.ErrorIs(t, err, ErrKnockoutUnresolved)
	assert.Empty(t, rounds[1].Matches[0].HomeTeamID)
}

func TestAdvance_OutOfRange(t *testing.T) {
	rounds := quarterfinalBracket()

	_, err := Advance(rounds, 3, 0)
	assert.ErrorIs(t, err, ErrMatchNotFound)
	_, err = Advance(rounds, 0, 4)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestAdvance_ChangedWinnerVacatesDownstream(t *testing.T) {
	rounds := quarterfinalBracket()
	for i := 0; i < 4; i++ {
		decide(t, rounds, 0, i, 1, 0)
	}
	decide(t, rounds, 1, 0, 2, 0)
	decide(t, rounds, 1, 1, 1, 0)
	require.Equal(t, "H1", rounds[2].Matches[0].HomeTeamID)

	// A1 now wins the first quarterfinal instead of H1.
	decide(t, rounds, 0, 0, 0, 1)

	sf := rounds[1].Matches[0]
	assert.Equal(t, "A1", sf.HomeTeamID)
	assert.Equal(t, "H2", sf.AwayTeamID)
	assert.False(t, sf.Played)
	assert.Nil(t, sf.HomeScore)
	assert.Empty(t, sf.WinnerID)

	final := rounds[2].Matches[0]
	assert.Empty(t, final.HomeTeamID)
	assert.Equal(t, "H3", final.AwayTeamID)

	// The other semifinal keeps its result.
	assert.True(t, rounds[1].Matches[1].Played)
}

func TestAdvance_SameWinnerKeepsDownstream(t *testing.T) {
	rounds := quarterfinalBracket()
	decide(t, rounds, 0, 0, 1, 0)
	decide(t, rounds, 0, 1, 1, 0)
	decide(t, rounds, 1, 0, 1, 0)

	decide(t, rounds, 0, 0, 4, 0)
	assert.True(t, rounds[1].Matches[0].Played)
	assert.Equal(t, "H1", rounds[2].Matches[0].HomeTeamID)
}
