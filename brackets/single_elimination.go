package brackets

import (
	"fmt"

	"github.com/Dosada05/knockout-cup/models"
)

// buildRounds lays out a single-elimination tree. The first round holds the
// seeded pairings in slot order; every later round has ceil(n/2) placeholder
// matches of the previous one, with both sides TBD.
func buildRounds(names []models.RoundName, first []pairing) []*models.Round {
	rounds := make([]*models.Round, 0, len(names))

	size := len(first)
	for r, name := range names {
		if r > 0 {
			size = (size + 1) / 2
		}
		round := &models.Round{Name: name, Matches: make([]*models.Match, size)}
		for slot := 0; slot < size; slot++ {
			m := &models.Match{
				ID:      fmt.Sprintf("%s-%d", name.Short(), slot+1),
				Context: models.KnockoutContext{Round: name, RoundIndex: r, Slot: slot},
			}
			if r == 0 {
				m.HomeTeamID = first[slot].home.TeamID
				m.AwayTeamID = first[slot].away.TeamID
			}
			round.Matches[slot] = m
		}
		rounds = append(rounds, round)

		if size == 1 {
			break
		}
	}
	return rounds
}

// locateKnockoutMatch finds a match by id and returns its round and slot.
func locateKnockoutMatch(rounds []*models.Round, matchID string) (int, int, bool) {
	for r, round := range rounds {
		for i, m := range round.Matches {
			if m.ID == matchID {
				return r, i, true
			}
		}
	}
	return 0, 0, false
}
