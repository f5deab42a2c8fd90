package models

import (
	"encoding/json"
	"time"
)

type EventType string

const (
	EventTournamentCreated   EventType = "tournamentCreated"
	EventTournamentLoaded    EventType = "tournamentLoaded"
	EventMatchUpdated        EventType = "matchUpdated"
	EventGroupStageCompleted EventType = "groupStageCompleted"
	EventTournamentCompleted EventType = "tournamentCompleted"
	EventStageChanged        EventType = "stageChanged"
	EventTournamentReset     EventType = "tournamentReset"
)

// Event is an immutable entry of the tournament audit log. Payload holds one of
// the *Payload types below encoded as JSON.
type Event struct {
	Seq       int64           `json:"seq"`
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// Decode unmarshals the payload into dst.
func (e Event) Decode(dst interface{}) error {
	return json.Unmarshal(e.Payload, dst)
}

type TournamentCreatedPayload struct {
	TournamentID string `json:"tournament_id"`
	Name         string `json:"name"`
	GroupCount   int    `json:"group_count"`
}

type TournamentLoadedPayload struct {
	TournamentID string `json:"tournament_id"`
}

// MatchUpdatedPayload carries GroupID for group matches and Stage "knockout"
// for bracket matches.
type MatchUpdatedPayload struct {
	MatchID  string `json:"match_id"`
	GroupID  string `json:"group_id,omitempty"`
	Stage    Stage  `json:"stage,omitempty"`
	WinnerID string `json:"winner_id,omitempty"`
}

type GroupStageCompletedPayload struct {
	Qualifiers QualifiersRecord `json:"qualifiers"`
}

type TournamentCompletedPayload struct {
	WinnerID   string `json:"winner_id"`
	WinnerName string `json:"winner_name"`
}

type StageChangedPayload struct {
	PreviousStage Stage `json:"previous_stage"`
	NewStage      Stage `json:"new_stage"`
}

type TournamentResetPayload struct {
	TournamentID string `json:"tournament_id"`
}
