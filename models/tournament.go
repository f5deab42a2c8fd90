package models

import "time"

// Stage is the progression phase of a tournament. Stages only move forward,
// except for an explicit reset that returns to StageGroup.
type Stage string

const (
	StageSetup    Stage = "setup"
	StageGroup    Stage = "group"
	StageKnockout Stage = "knockout"
	StageComplete Stage = "complete"
)

var stageOrder = map[Stage]int{
	StageSetup:    0,
	StageGroup:    1,
	StageKnockout: 2,
	StageComplete: 3,
}

// Before reports whether s comes strictly earlier than other.
func (s Stage) Before(other Stage) bool {
	return stageOrder[s] < stageOrder[other]
}

func (s Stage) Valid() bool {
	_, ok := stageOrder[s]
	return ok
}

type TournamentStatus string

const (
	StatusActive    TournamentStatus = "active"
	StatusCompleted TournamentStatus = "completed"
)

// TournamentSummary is the listing view of a stored tournament.
type TournamentSummary struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	GroupCount int              `json:"group_count"`
	Stage      Stage            `json:"stage"`
	Status     TournamentStatus `json:"status"`
	ChampionID string           `json:"champion_id,omitempty"`
	UpdatedAt  time.Time        `json:"updated_at"`
}
