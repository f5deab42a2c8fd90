package brackets

import (
	"fmt"

	"github.com/Dosada05/knockout-cup/models"
)

// Advance moves the winner of rounds[roundIndex].Matches[matchIndex] into the
// next round: slot matchIndex/2, home side for an even index and away side for
// an odd one. When the match is the final it returns the champion id instead.
//
// If the slot already held a different team whose next match had been played,
// that match and everything it fed are cleared.
func Advance(rounds []*models.Round, roundIndex, matchIndex int) (string, error) {
	if roundIndex < 0 || roundIndex >= len(rounds) {
		return "", fmt.Errorf("%w: round index %d", ErrMatchNotFound, roundIndex)
	}
	round := rounds[roundIndex]
	if matchIndex < 0 || matchIndex >= len(round.Matches) {
		return "", fmt.Errorf("%w: slot %d in %s", ErrMatchNotFound, matchIndex, round.Name)
	}
	match := round.Matches[matchIndex]
	if !match.Played || match.WinnerID == "" {
		return "", fmt.Errorf("%w: %s", ErrKnockoutUnresolved, match.ID)
	}

	if roundIndex == len(rounds)-1 {
		return match.WinnerID, nil
	}

	next := rounds[roundIndex+1]
	nextIndex := matchIndex / 2
	if nextIndex >= len(next.Matches) {
		return "", fmt.Errorf("%w: %s has no slot %d", ErrMatchNotFound, next.Name, nextIndex)
	}
	target := next.Matches[nextIndex]

	slot := &target.HomeTeamID
	if matchIndex%2 == 1 {
		slot = &target.AwayTeamID
	}
	if *slot == match.WinnerID {
		return "", nil
	}
	*slot = match.WinnerID
	if target.Played {
		target.Clear()
		vacate(rounds, roundIndex+1, nextIndex)
	}
	return "", nil
}

// vacate empties the next-round slot fed by rounds[roundIndex].Matches[matchIndex]
// and keeps going while it runs into played matches.
func vacate(rounds []*models.Round, roundIndex, matchIndex int) {
	for roundIndex < len(rounds)-1 {
		next := rounds[roundIndex+1]
		nextIndex := matchIndex / 2
		if nextIndex >= len(next.Matches) {
			return
		}
		target := next.Matches[nextIndex]
		if matchIndex%2 == 0 {
			target.HomeTeamID = ""
		} else {
			target.AwayTeamID = ""
		}
		if !target.Played {
			return
		}
		target.Clear()
		roundIndex, matchIndex = roundIndex+1, nextIndex
	}
}
