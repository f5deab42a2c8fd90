package brackets

import "github.com/Dosada05/knockout-cup/models"

// Roster is the team arena of a tournament. Groups and matches refer to teams
// by id only; names are resolved here when needed.
type Roster struct {
	teams map[string]*models.Team
	order []string
}

func NewRoster() *Roster {
	return &Roster{teams: make(map[string]*models.Team)}
}

func (r *Roster) Add(team models.Team) {
	if _, exists := r.teams[team.ID]; !exists {
		r.order = append(r.order, team.ID)
	}
	t := team
	r.teams[team.ID] = &t
}

func (r *Roster) Team(id string) (models.Team, bool) {
	t, ok := r.teams[id]
	if !ok {
		return models.Team{}, false
	}
	return *t, true
}

// Name returns the display name of a team, or "TBD" for an empty slot.
func (r *Roster) Name(id string) string {
	if t, ok := r.teams[id]; ok {
		return t.Name
	}
	return "TBD"
}

// SetColor is the only mutation allowed on a registered team.
func (r *Roster) SetColor(id, color string) bool {
	t, ok := r.teams[id]
	if !ok {
		return false
	}
	t.Color = color
	return true
}

// Teams resolves ids in the given order, skipping unknown ones.
func (r *Roster) Teams(ids []string) []models.Team {
	out := make([]models.Team, 0, len(ids))
	for _, id := range ids {
		if t, ok := r.teams[id]; ok {
			out = append(out, *t)
		}
	}
	return out
}

func (r *Roster) All() []models.Team {
	return r.Teams(r.order)
}

func (r *Roster) Len() int {
	return len(r.order)
}
