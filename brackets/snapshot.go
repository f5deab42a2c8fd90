package brackets

import (
	"fmt"

	"github.com/Dosada05/knockout-cup/models"
)

// Snapshot returns the full serializable state, event log included.
func (t *Tournament) Snapshot() *models.TournamentSnapshot {
	s := &models.TournamentSnapshot{
		ID:         t.ID,
		Name:       t.Name,
		GroupCount: t.GroupCount,
		Stage:      t.Stage,
		Status:     t.Status,
		ChampionID: t.ChampionID,
		Teams:      t.roster.All(),
		Groups:     make([]models.GroupRecord, len(t.groups)),
		Rounds:     roundRecords(t.rounds),
		Qualifiers: t.Qualifiers(),
		Events:     append([]models.Event(nil), t.events...),
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
	for i, g := range t.groups {
		s.Groups[i] = g.record()
	}
	return s
}

func roundRecords(rounds []*models.Round) []models.RoundRecord {
	if rounds == nil {
		return nil
	}
	out := make([]models.RoundRecord, len(rounds))
	for i, r := range rounds {
		out[i] = models.RoundRecord{Name: r.Name, Matches: make([]models.MatchRecord, len(r.Matches))}
		for j, m := range r.Matches {
			out[i].Matches[j] = models.NewMatchRecord(m)
		}
	}
	return out
}

// Restore rebuilds a tournament from a snapshot. Standings are recomputed from
// the stored matches rather than trusted. A tournamentLoaded event is appended.
func Restore(s *models.TournamentSnapshot, opts ...Option) (*Tournament, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}
	format, ok := models.LookupGroupFormat(s.GroupCount)
	if !ok {
		return nil, fmt.Errorf("%w: group count %d", ErrInvalidSnapshot, s.GroupCount)
	}
	if !s.Stage.Valid() || s.Stage == models.StageSetup {
		return nil, fmt.Errorf("%w: stage %q", ErrInvalidSnapshot, s.Stage)
	}
	if len(s.Groups) != s.GroupCount {
		return nil, fmt.Errorf("%w: %d groups recorded, expected %d", ErrInvalidSnapshot, len(s.Groups), s.GroupCount)
	}
	hasBracket := s.Stage == models.StageKnockout || s.Stage == models.StageComplete
	if hasBracket != (len(s.Rounds) > 0) {
		return nil, fmt.Errorf("%w: stage %s with %d knockout rounds", ErrInvalidSnapshot, s.Stage, len(s.Rounds))
	}
	if (s.Stage == models.StageComplete) != (s.ChampionID != "") {
		return nil, fmt.Errorf("%w: stage %s with champion %q", ErrInvalidSnapshot, s.Stage, s.ChampionID)
	}

	t := newTournament(opts)
	t.ID = s.ID
	t.Name = s.Name
	t.GroupCount = s.GroupCount
	t.Stage = s.Stage
	t.Status = s.Status
	t.ChampionID = s.ChampionID
	t.CreatedAt = s.CreatedAt
	t.UpdatedAt = s.UpdatedAt

	for _, team := range s.Teams {
		t.roster.Add(team)
	}

	for _, rec := range s.Groups {
		if len(rec.TeamIDs) != models.TeamsPerGroup || len(rec.Matches) != len(fixturePattern) {
			return nil, fmt.Errorf("%w: group %s has %d teams and %d matches",
				ErrInvalidSnapshot, rec.ID, len(rec.TeamIDs), len(rec.Matches))
		}
		g := &Group{ID: rec.ID, Name: rec.Name, TeamIDs: append([]string(nil), rec.TeamIDs...), roster: t.roster}
		for _, mr := range rec.Matches {
			m, err := mr.ToMatch()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
			}
			g.Matches = append(g.Matches, m)
		}
		g.RecalculateStandings()
		t.groups = append(t.groups, g)
	}

	if hasBracket {
		for _, rr := range s.Rounds {
			round := &models.Round{Name: rr.Name}
			for _, mr := range rr.Matches {
				m, err := mr.ToMatch()
				if err != nil {
					return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
				}
				round.Matches = append(round.Matches, m)
			}
			t.rounds = append(t.rounds, round)
		}
	}

	if s.Qualifiers != nil {
		q := *s.Qualifiers
		t.qualifiers = &q
		remarkQualified(t.groups, format, q)
	}

	t.events = append(t.events, s.Events...)
	for _, e := range t.events {
		if e.Seq > t.lastSeq {
			t.lastSeq = e.Seq
		}
	}

	t.emit(models.EventTournamentLoaded, models.TournamentLoadedPayload{TournamentID: t.ID})
	t.flush()
	return t, nil
}

func remarkQualified(groups []*Group, format models.GroupFormat, q models.QualifiersRecord) {
	best := make(map[string]bool, len(q.BestThirds))
	for _, ref := range q.BestThirds {
		best[ref.TeamID] = true
	}
	for _, g := range groups {
		g.MarkQualifiedTeams(format.DirectPerGroup, format.UsesBestThirds())
		for i := range g.Standings {
			if best[g.Standings[i].TeamID] {
				g.Standings[i].Qualified = true
			}
		}
	}
}
