package brackets

import (
	"fmt"

	"github.com/Dosada05/knockout-cup/models"
)

// Group is a round-robin group of four teams. Standings are derived from
// Matches and rebuilt in full after every result.
type Group struct {
	ID        string
	Name      string
	TeamIDs   []string
	Matches   []*models.Match
	Standings []models.StandingsRow

	roster *Roster
}

func NewGroup(id string, teamIDs []string, roster *Roster) *Group {
	g := &Group{
		ID:      id,
		Name:    "Group " + id,
		TeamIDs: append([]string(nil), teamIDs...),
		roster:  roster,
	}
	g.RecalculateStandings()
	return g
}

// GenerateMatches replaces the fixture list with the fixed six-match rotation.
func (g *Group) GenerateMatches() error {
	matches, err := RoundRobinFixtures(g.ID, g.TeamIDs)
	if err != nil {
		return err
	}
	g.Matches = matches
	g.RecalculateStandings()
	return nil
}

func (g *Group) Match(matchID string) *models.Match {
	for _, m := range g.Matches {
		if m.ID == matchID {
			return m
		}
	}
	return nil
}

// UpdateMatchResult records a score and rebuilds the table. It returns
// ErrMatchNotFound for a match outside this group.
func (g *Group) UpdateMatchResult(matchID string, homeScore, awayScore int) error {
	m := g.Match(matchID)
	if m == nil {
		return fmt.Errorf("%w: %s in group %s", ErrMatchNotFound, matchID, g.ID)
	}
	if err := m.UpdateResult(homeScore, awayScore); err != nil {
		return err
	}
	g.RecalculateStandings()
	return nil
}

func (g *Group) RecalculateStandings() {
	g.Standings = ComputeStandings(g.roster.Teams(g.TeamIDs), g.Matches)
}

func (g *Group) IsCompleted() bool {
	if len(g.Matches) != len(fixturePattern) {
		return false
	}
	for _, m := range g.Matches {
		if !m.Played {
			return false
		}
	}
	return true
}

// MarkQualifiedTeams flags the top directCount rows as qualified and, when
// includeBestThird is set, flags third place as a best-third candidate.
func (g *Group) MarkQualifiedTeams(directCount int, includeBestThird bool) {
	for i := range g.Standings {
		g.Standings[i].Qualified = i < directCount
		g.Standings[i].BestThird = includeBestThird && i == 2
	}
}

// ClearResults wipes every result while keeping the fixtures.
func (g *Group) ClearResults() {
	for _, m := range g.Matches {
		m.Clear()
	}
	g.RecalculateStandings()
}

// Row returns the standings row at position (0-based).
func (g *Group) Row(position int) (models.StandingsRow, bool) {
	if position < 0 || position >= len(g.Standings) {
		return models.StandingsRow{}, false
	}
	return g.Standings[position], true
}

func (g *Group) record() models.GroupRecord {
	rec := models.GroupRecord{
		ID:        g.ID,
		Name:      g.Name,
		TeamIDs:   append([]string(nil), g.TeamIDs...),
		Matches:   make([]models.MatchRecord, len(g.Matches)),
		Standings: append([]models.StandingsRow(nil), g.Standings...),
	}
	for i, m := range g.Matches {
		rec.Matches[i] = models.NewMatchRecord(m)
	}
	return rec
}
