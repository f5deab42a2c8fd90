package brackets

import (
	"fmt"

	"github.com/Dosada05/knockout-cup/models"
)

// Qualifier is a team that advanced from the group stage, tagged with the
// group it came from.
type Qualifier struct {
	TeamID   string
	TeamName string
	GroupID  string
	Position int
	Row      models.StandingsRow
}

type Qualifiers struct {
	Winners    []Qualifier
	RunnersUp  []Qualifier
	BestThirds []Qualifier
	// Filled only for formats where the whole group table advances.
	ThirdPlaced  []Qualifier
	FourthPlaced []Qualifier
}

func (q *Qualifiers) Count() int {
	return len(q.Winners) + len(q.RunnersUp) + len(q.BestThirds) + len(q.ThirdPlaced) + len(q.FourthPlaced)
}

// SelectQualifiers picks group winners, runners-up and, for 3 and 6 groups,
// the best third-placed teams. Thirds are ranked with the standings order; the
// head-to-head step never decides here because thirds of different groups have
// not met.
func SelectQualifiers(groups []*Group) (*Qualifiers, error) {
	format, ok := models.LookupGroupFormat(len(groups))
	if !ok {
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedGroupCount, len(groups))
	}
	for _, g := range groups {
		if !g.IsCompleted() {
			return nil, fmt.Errorf("%w: group %s has unplayed matches", ErrGroupsNotCompleted, g.ID)
		}
	}

	q := &Qualifiers{}
	thirds := make([]models.StandingsRow, 0, len(groups))
	thirdGroup := make(map[string]*Group, len(groups))

	for _, g := range groups {
		g.MarkQualifiedTeams(format.DirectPerGroup, format.UsesBestThirds())

		q.Winners = append(q.Winners, qualifierAt(g, 0))
		q.RunnersUp = append(q.RunnersUp, qualifierAt(g, 1))
		if format.DirectPerGroup >= 4 {
			q.ThirdPlaced = append(q.ThirdPlaced, qualifierAt(g, 2))
			q.FourthPlaced = append(q.FourthPlaced, qualifierAt(g, 3))
		}
		if format.UsesBestThirds() {
			row, _ := g.Row(2)
			thirds = append(thirds, row)
			thirdGroup[row.TeamID] = g
		}
	}

	if format.UsesBestThirds() {
		SortStandings(thirds, nil)
		for i := 0; i < format.BestThirds && i < len(thirds); i++ {
			g := thirdGroup[thirds[i].TeamID]
			g.Standings[2].Qualified = true
			q.BestThirds = append(q.BestThirds, qualifierAt(g, 2))
		}
	}

	return q, nil
}

func qualifierAt(g *Group, position int) Qualifier {
	row, _ := g.Row(position)
	return Qualifier{
		TeamID:   row.TeamID,
		TeamName: row.TeamName,
		GroupID:  g.ID,
		Position: position + 1,
		Row:      row,
	}
}

func (q *Qualifiers) Record() models.QualifiersRecord {
	return models.QualifiersRecord{
		Winners:      refs(q.Winners),
		RunnersUp:    refs(q.RunnersUp),
		BestThirds:   refs(q.BestThirds),
		ThirdPlaced:  refs(q.ThirdPlaced),
		FourthPlaced: refs(q.FourthPlaced),
	}
}

func refs(qs []Qualifier) []models.QualifierRef {
	if len(qs) == 0 {
		return nil
	}
	out := make([]models.QualifierRef, len(qs))
	for i, q := range qs {
		out[i] = models.QualifierRef{TeamID: q.TeamID, GroupID: q.GroupID, Position: q.Position}
	}
	return out
}
