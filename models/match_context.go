package models

// MatchContext tells where a fixture lives: a group matchday or a knockout
// bracket slot. The interface is sealed; GroupContext and KnockoutContext are
// the only implementations.
type MatchContext interface {
	matchContext()
}

type GroupContext struct {
	GroupID  string
	Matchday int
}

type KnockoutContext struct {
	Round      RoundName
	RoundIndex int
	Slot       int
}

func (GroupContext) matchContext()    {}
func (KnockoutContext) matchContext() {}
