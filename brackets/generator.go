package brackets

import (
	"fmt"

	"github.com/Dosada05/knockout-cup/models"
)

// BracketGenerator turns group-stage qualifiers into the knockout rounds of one
// format. The first round carries the seeded pairings; later rounds are TBD
// placeholders filled by progression.
type BracketGenerator interface {
	GenerateBracket(q *Qualifiers) ([]*models.Round, error)

	GetName() string
}

// GeneratorFor dispatches on the number of groups.
func GeneratorFor(groupCount int) (BracketGenerator, error) {
	format, ok := models.LookupGroupFormat(groupCount)
	if !ok {
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedGroupCount, groupCount)
	}
	var seed seeder
	switch groupCount {
	case 1:
		seed = seedSingleGroup
	case 2:
		seed = seedTwoGroups
	case 3:
		seed = seedThreeGroups
	case 4:
		seed = seedFourGroups
	case 6, 8:
		seed = seedRoundOf16
	}
	return &formatGenerator{format: format, seed: seed}, nil
}

// GenerateKnockout is a shortcut for GeneratorFor(groupCount).GenerateBracket(q).
func GenerateKnockout(q *Qualifiers, groupCount int) ([]*models.Round, error) {
	gen, err := GeneratorFor(groupCount)
	if err != nil {
		return nil, err
	}
	return gen.GenerateBracket(q)
}

type pairing struct {
	home *Qualifier
	away *Qualifier
}

func (p pairing) valid() bool {
	return p.home != nil && p.away != nil
}

type seeder func(q *Qualifiers) []pairing

type formatGenerator struct {
	format models.GroupFormat
	seed   seeder
}

func (g *formatGenerator) GetName() string {
	return fmt.Sprintf("%dGroups", g.format.GroupCount)
}

func (g *formatGenerator) GenerateBracket(q *Qualifiers) ([]*models.Round, error) {
	if q == nil {
		return nil, fmt.Errorf("%s: %w", g.GetName(), ErrNotEnoughQualifiers)
	}
	pairings := g.seed(q)
	first := make([]pairing, 0, len(pairings))
	for _, p := range pairings {
		// A slot without both sides is dropped rather than treated as an error.
		if p.valid() {
			first = append(first, p)
		}
	}
	if len(first) == 0 {
		return nil, fmt.Errorf("%s: %w (have %d)", g.GetName(), ErrNotEnoughQualifiers, q.Count())
	}
	return buildRounds(g.format.Rounds(), first), nil
}

// seedSingleGroup: 1st v 4th, 2nd v 3rd.
func seedSingleGroup(q *Qualifiers) []pairing {
	return []pairing{
		{home: at(q.Winners, 0), away: at(q.FourthPlaced, 0)},
		{home: at(q.RunnersUp, 0), away: at(q.ThirdPlaced, 0)},
	}
}

// seedTwoGroups: winners meet the other group's runner-up, thirds meet the
// other group's fourth. Each winner sits in a different half.
func seedTwoGroups(q *Qualifiers) []pairing {
	return []pairing{
		{home: at(q.Winners, 0), away: at(q.RunnersUp, 1)},
		{home: at(q.ThirdPlaced, 1), away: at(q.FourthPlaced, 0)},
		{home: at(q.Winners, 1), away: at(q.RunnersUp, 0)},
		{home: at(q.ThirdPlaced, 0), away: at(q.FourthPlaced, 1)},
	}
}

// seedThreeGroups: the two best thirds face winners A and B, runners-up B and
// C meet, winner C faces runner-up A.
func seedThreeGroups(q *Qualifiers) []pairing {
	thirds := assignAvoidingRematch(q.Winners[:min(2, len(q.Winners))], q.BestThirds)
	return []pairing{
		pairAt(thirds, 0),
		{home: at(q.RunnersUp, 1), away: at(q.RunnersUp, 2)},
		pairAt(thirds, 1),
		{home: at(q.Winners, 2), away: at(q.RunnersUp, 0)},
	}
}

// seedFourGroups: winner[i] v runnerUp[3-i].
func seedFourGroups(q *Qualifiers) []pairing {
	out := make([]pairing, 0, 4)
	for i := 0; i < 4; i++ {
		out = append(out, pairing{home: at(q.Winners, i), away: at(q.RunnersUp, 3-i)})
	}
	return out
}

// seedRoundOf16 covers 6 and 8 groups. Slots 0-3 are winner[i] v
// runnerUp[3-i]. The other eight qualifiers are paired avoiding same-group
// games: with eight groups winners 4-7 face runners-up 7-4, with six groups
// winners and runners-up of groups 5 and 6 face the best thirds.
func seedRoundOf16(q *Qualifiers) []pairing {
	out := seedFourGroups(q)

	var upper, lower []Qualifier
	if len(q.BestThirds) > 0 {
		upper = append(upper, tail(q.Winners, 4)...)
		upper = append(upper, tail(q.RunnersUp, 4)...)
		lower = q.BestThirds
	} else {
		upper = tail(q.Winners, 4)
		for i := len(q.RunnersUp) - 1; i >= 4; i-- {
			lower = append(lower, q.RunnersUp[i])
		}
	}
	for len(upper) < 4 {
		upper = append(upper, Qualifier{})
	}
	return append(out, assignAvoidingRematch(upper, lower)...)
}

// assignAvoidingRematch pairs upper[i] with a permutation of lower, taking the
// first permutation (in lexicographic index order) where no pair shares a
// group. Without such a permutation the identity order is used.
func assignAvoidingRematch(upper, lower []Qualifier) []pairing {
	perm := findPermutation(upper, lower, make([]bool, len(lower)), nil)
	if perm == nil {
		perm = make([]int, min(len(upper), len(lower)))
		for i := range perm {
			perm[i] = i
		}
	}

	out := make([]pairing, len(upper))
	for i := range upper {
		out[i] = pairing{home: ref(upper[i])}
		if i < len(perm) {
			out[i].away = ref(lower[perm[i]])
		}
	}
	return out
}

func findPermutation(upper, lower []Qualifier, used []bool, chosen []int) []int {
	k := len(chosen)
	if k == len(upper) || k == len(lower) {
		return append([]int(nil), chosen...)
	}
	for i := range lower {
		if used[i] || sameGroup(upper[k], lower[i]) {
			continue
		}
		used[i] = true
		if found := findPermutation(upper, lower, used, append(chosen, i)); found != nil {
			return found
		}
		used[i] = false
	}
	return nil
}

func sameGroup(a, b Qualifier) bool {
	return a.TeamID != "" && b.TeamID != "" && a.GroupID == b.GroupID
}

func at(qs []Qualifier, i int) *Qualifier {
	if i < 0 || i >= len(qs) {
		return nil
	}
	return ref(qs[i])
}

func ref(q Qualifier) *Qualifier {
	if q.TeamID == "" {
		return nil
	}
	return &q
}

func pairAt(ps []pairing, i int) pairing {
	if i < len(ps) {
		return ps[i]
	}
	return pairing{}
}

func tail(qs []Qualifier, from int) []Qualifier {
	if from >= len(qs) {
		return nil
	}
	return append([]Qualifier(nil), qs[from:]...)
}
