package models

import (
	"errors"
	"fmt"
)

var (
	ErrNegativeScore     = errors.New("scores must be non-negative integers")
	ErrLevelPenalties    = errors.New("a penalty shootout cannot end level")
	ErrNotKnockoutMatch  = errors.New("operation is only valid for knockout matches")
	ErrRegulationMissing = errors.New("regulation result must be recorded first")
)

// ScorePair is a home/away score as submitted by a client.
type ScorePair struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

func (p ScorePair) Validate() error {
	if p.Home < 0 || p.Away < 0 {
		return fmt.Errorf("%w: got %d-%d", ErrNegativeScore, p.Home, p.Away)
	}
	return nil
}

type ExtraTime struct {
	Played    bool `json:"played"`
	HomeScore int  `json:"home_score"`
	AwayScore int  `json:"away_score"`
}

type Penalties struct {
	Played    bool   `json:"played"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	WinnerID  string `json:"winner_id"`
}

// Match is a single fixture. An empty HomeTeamID or AwayTeamID is a TBD slot
// waiting for a previous knockout result. An empty WinnerID on a played group
// match means a draw; a played knockout match always has a winner.
type Match struct {
	ID         string
	HomeTeamID string
	AwayTeamID string
	HomeScore  *int
	AwayScore  *int
	Played     bool
	WinnerID   string
	Context    MatchContext
	ExtraTime  *ExtraTime
	Penalties  *Penalties
}

func (m *Match) IsKnockout() bool {
	_, ok := m.Context.(KnockoutContext)
	return ok
}

// Ready reports whether both sides of the fixture are known.
func (m *Match) Ready() bool {
	return m.HomeTeamID != "" && m.AwayTeamID != ""
}

func (m *Match) HasTeam(teamID string) bool {
	return teamID != "" && (m.HomeTeamID == teamID || m.AwayTeamID == teamID)
}

// UpdateResult records the regulation score. Any earlier extra time or penalty
// record is discarded, so a re-entered result starts from a clean state.
func (m *Match) UpdateResult(homeScore, awayScore int) error {
	if err := (ScorePair{Home: homeScore, Away: awayScore}).Validate(); err != nil {
		return err
	}
	home, away := homeScore, awayScore
	m.HomeScore = &home
	m.AwayScore = &away
	m.Played = true
	m.ExtraTime = nil
	m.Penalties = nil
	m.WinnerID = m.pickWinner(home, away)
	return nil
}

// UpdateExtraTimeResult adds the extra-time goals to the regulation score and
// recomputes the winner from the aggregate. An empty winner afterwards means a
// shootout is still needed.
func (m *Match) UpdateExtraTimeResult(homeScore, awayScore int) error {
	if !m.IsKnockout() {
		return ErrNotKnockoutMatch
	}
	if !m.Played || m.HomeScore == nil || m.AwayScore == nil {
		return ErrRegulationMissing
	}
	if err := (ScorePair{Home: homeScore, Away: awayScore}).Validate(); err != nil {
		return err
	}
	m.ExtraTime = &ExtraTime{Played: true, HomeScore: homeScore, AwayScore: awayScore}
	m.Penalties = nil
	home, away := m.AggregateScore()
	m.WinnerID = m.pickWinner(home, away)
	return nil
}

// UpdatePenaltyResult settles the match on penalties.
func (m *Match) UpdatePenaltyResult(homeScore, awayScore int) error {
	if !m.IsKnockout() {
		return ErrNotKnockoutMatch
	}
	if !m.Played || m.HomeScore == nil || m.AwayScore == nil {
		return ErrRegulationMissing
	}
	if err := (ScorePair{Home: homeScore, Away: awayScore}).Validate(); err != nil {
		return err
	}
	if homeScore == awayScore {
		return fmt.Errorf("%w: got %d-%d", ErrLevelPenalties, homeScore, awayScore)
	}
	winner := m.pickWinner(homeScore, awayScore)
	m.Penalties = &Penalties{Played: true, HomeScore: homeScore, AwayScore: awayScore, WinnerID: winner}
	m.WinnerID = winner
	return nil
}

// AggregateScore is regulation plus extra time.
func (m *Match) AggregateScore() (int, int) {
	var home, away int
	if m.HomeScore != nil {
		home = *m.HomeScore
	}
	if m.AwayScore != nil {
		away = *m.AwayScore
	}
	if m.ExtraTime != nil && m.ExtraTime.Played {
		home += m.ExtraTime.HomeScore
		away += m.ExtraTime.AwayScore
	}
	return home, away
}

// Clear returns the match to its unplayed state. Team slots are kept.
func (m *Match) Clear() {
	m.HomeScore = nil
	m.AwayScore = nil
	m.Played = false
	m.WinnerID = ""
	m.ExtraTime = nil
	m.Penalties = nil
}

// LoserID is the beaten side of a decided match.
func (m *Match) LoserID() string {
	switch m.WinnerID {
	case "":
		return ""
	case m.HomeTeamID:
		return m.AwayTeamID
	default:
		return m.HomeTeamID
	}
}

func (m *Match) Clone() *Match {
	c := *m
	if m.HomeScore != nil {
		v := *m.HomeScore
		c.HomeScore = &v
	}
	if m.AwayScore != nil {
		v := *m.AwayScore
		c.AwayScore = &v
	}
	if m.ExtraTime != nil {
		et := *m.ExtraTime
		c.ExtraTime = &et
	}
	if m.Penalties != nil {
		p := *m.Penalties
		c.Penalties = &p
	}
	return &c
}

func (m *Match) pickWinner(home, away int) string {
	switch {
	case home > away:
		return m.HomeTeamID
	case away > home:
		return m.AwayTeamID
	default:
		return ""
	}
}
