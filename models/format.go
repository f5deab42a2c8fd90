package models

// GroupFormat describes how a group count turns into a knockout bracket.
type GroupFormat struct {
	GroupCount int `json:"group_count"`
	// DirectPerGroup is how many places of each group table advance outright.
	DirectPerGroup int `json:"direct_per_group"`
	// BestThirds is how many third-placed teams advance on cross-group ranking.
	BestThirds int       `json:"best_thirds"`
	FirstRound RoundName `json:"first_round"`
}

// TeamsPerGroup is fixed; other group sizes are not supported.
const TeamsPerGroup = 4

var groupFormats = map[int]GroupFormat{
	1: {GroupCount: 1, DirectPerGroup: 4, FirstRound: Semifinals},
	2: {GroupCount: 2, DirectPerGroup: 4, FirstRound: Quarterfinals},
	3: {GroupCount: 3, DirectPerGroup: 2, BestThirds: 2, FirstRound: Quarterfinals},
	4: {GroupCount: 4, DirectPerGroup: 2, FirstRound: Quarterfinals},
	6: {GroupCount: 6, DirectPerGroup: 2, BestThirds: 4, FirstRound: RoundOf16},
	8: {GroupCount: 8, DirectPerGroup: 2, FirstRound: RoundOf16},
}

func LookupGroupFormat(groupCount int) (GroupFormat, bool) {
	f, ok := groupFormats[groupCount]
	return f, ok
}

// UsesBestThirds is true only for 3 and 6 groups.
func (f GroupFormat) UsesBestThirds() bool {
	return f.BestThirds > 0
}

// Rounds lists the knockout rounds from the first round to the final.
func (f GroupFormat) Rounds() []RoundName {
	all := []RoundName{RoundOf16, Quarterfinals, Semifinals, Final}
	for i, name := range all {
		if name == f.FirstRound {
			return all[i:]
		}
	}
	return nil
}
