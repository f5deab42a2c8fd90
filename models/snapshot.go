package models

import (
	"fmt"
	"time"
)

// TournamentSnapshot is the serialized form of a tournament: plain nested data
// with no behavior, safe to round-trip through JSON.
type TournamentSnapshot struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	GroupCount int               `json:"group_count"`
	Stage      Stage             `json:"stage"`
	Status     TournamentStatus  `json:"status"`
	ChampionID string            `json:"champion_id,omitempty"`
	Teams      []Team            `json:"teams"`
	Groups     []GroupRecord     `json:"groups"`
	Rounds     []RoundRecord     `json:"rounds"`
	Qualifiers *QualifiersRecord `json:"qualifiers,omitempty"`
	Events     []Event           `json:"events"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

func (s *TournamentSnapshot) Summary() TournamentSummary {
	return TournamentSummary{
		ID:         s.ID,
		Name:       s.Name,
		GroupCount: s.GroupCount,
		Stage:      s.Stage,
		Status:     s.Status,
		ChampionID: s.ChampionID,
		UpdatedAt:  s.UpdatedAt,
	}
}

type GroupRecord struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	TeamIDs   []string       `json:"team_ids"`
	Matches   []MatchRecord  `json:"matches"`
	Standings []StandingsRow `json:"standings"`
}

type RoundRecord struct {
	Name    RoundName     `json:"name"`
	Matches []MatchRecord `json:"matches"`
}

type QualifierRef struct {
	TeamID   string `json:"team_id"`
	GroupID  string `json:"group_id"`
	Position int    `json:"position"`
}

type QualifiersRecord struct {
	Winners      []QualifierRef `json:"winners"`
	RunnersUp    []QualifierRef `json:"runners_up"`
	BestThirds   []QualifierRef `json:"best_thirds,omitempty"`
	ThirdPlaced  []QualifierRef `json:"third_placed,omitempty"`
	FourthPlaced []QualifierRef `json:"fourth_placed,omitempty"`
}

const (
	contextGroup    = "group"
	contextKnockout = "knockout"
)

// MatchRecord flattens the match context into a discriminator plus the fields
// of whichever variant is active.
type MatchRecord struct {
	ID         string     `json:"id"`
	HomeTeamID string     `json:"home_team_id"`
	AwayTeamID string     `json:"away_team_id"`
	HomeScore  *int       `json:"home_score"`
	AwayScore  *int       `json:"away_score"`
	Played     bool       `json:"played"`
	WinnerID   string     `json:"winner_id"`
	Context    string     `json:"context"`
	GroupID    string     `json:"group_id,omitempty"`
	Matchday   int        `json:"matchday,omitempty"`
	Round      RoundName  `json:"round,omitempty"`
	RoundIndex int        `json:"round_index"`
	Slot       int        `json:"slot"`
	ExtraTime  *ExtraTime `json:"extra_time,omitempty"`
	Penalties  *Penalties `json:"penalties,omitempty"`
}

func NewMatchRecord(m *Match) MatchRecord {
	c := m.Clone()
	rec := MatchRecord{
		ID:         c.ID,
		HomeTeamID: c.HomeTeamID,
		AwayTeamID: c.AwayTeamID,
		HomeScore:  c.HomeScore,
		AwayScore:  c.AwayScore,
		Played:     c.Played,
		WinnerID:   c.WinnerID,
		ExtraTime:  c.ExtraTime,
		Penalties:  c.Penalties,
	}
	switch ctx := c.Context.(type) {
	case GroupContext:
		rec.Context = contextGroup
		rec.GroupID = ctx.GroupID
		rec.Matchday = ctx.Matchday
	case KnockoutContext:
		rec.Context = contextKnockout
		rec.Round = ctx.Round
		rec.RoundIndex = ctx.RoundIndex
		rec.Slot = ctx.Slot
	}
	return rec
}

func (r MatchRecord) ToMatch() (*Match, error) {
	m := &Match{
		ID:         r.ID,
		HomeTeamID: r.HomeTeamID,
		AwayTeamID: r.AwayTeamID,
		HomeScore:  r.HomeScore,
		AwayScore:  r.AwayScore,
		Played:     r.Played,
		WinnerID:   r.WinnerID,
		ExtraTime:  r.ExtraTime,
		Penalties:  r.Penalties,
	}
	switch r.Context {
	case contextGroup:
		m.Context = GroupContext{GroupID: r.GroupID, Matchday: r.Matchday}
	case contextKnockout:
		m.Context = KnockoutContext{Round: r.Round, RoundIndex: r.RoundIndex, Slot: r.Slot}
	default:
		return nil, fmt.Errorf("match %s: unknown context %q", r.ID, r.Context)
	}
	if m.Played && (m.HomeScore == nil || m.AwayScore == nil) {
		return nil, fmt.Errorf("match %s: played without scores", r.ID)
	}
	if m.Played && m.IsKnockout() && m.WinnerID == "" {
		return nil, fmt.Errorf("match %s: played knockout match has no winner", r.ID)
	}
	return m.Clone(), nil
}
