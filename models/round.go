package models

type RoundName string

const (
	RoundOf16     RoundName = "Round of 16"
	Quarterfinals RoundName = "Quarterfinals"
	Semifinals    RoundName = "Semifinals"
	Final         RoundName = "Final"
)

// Short is the prefix used for knockout match identifiers.
func (n RoundName) Short() string {
	switch n {
	case RoundOf16:
		return "R16"
	case Quarterfinals:
		return "QF"
	case Semifinals:
		return "SF"
	case Final:
		return "F"
	default:
		return "KO"
	}
}

// Round is one knockout round. The position of a match in Matches is its
// bracket slot: slots i and i+1 (i even) feed slot i/2 of the next round.
type Round struct {
	Name    RoundName
	Matches []*Match
}

func (r *Round) Completed() bool {
	for _, m := range r.Matches {
		if !m.Played {
			return false
		}
	}
	return true
}
