package brackets

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Dosada05/knockout-cup/models"
)

// Observer receives tournament events in sequence order once the mutation that
// produced them has finished.
type Observer func(models.Event)

// MatchResult is a validated result submission. ExtraTime and Penalties are
// only accepted for knockout matches that are level at that point.
type MatchResult struct {
	Home      int
	Away      int
	ExtraTime *models.ScorePair
	Penalties *models.ScorePair
}

func (r MatchResult) Validate() error {
	if err := (models.ScorePair{Home: r.Home, Away: r.Away}).Validate(); err != nil {
		return err
	}
	if r.ExtraTime != nil {
		if err := r.ExtraTime.Validate(); err != nil {
			return fmt.Errorf("extra time: %w", err)
		}
	}
	if r.Penalties != nil {
		if err := r.Penalties.Validate(); err != nil {
			return fmt.Errorf("penalties: %w", err)
		}
		if r.Penalties.Home == r.Penalties.Away {
			return fmt.Errorf("%w: got %d-%d", models.ErrLevelPenalties, r.Penalties.Home, r.Penalties.Away)
		}
	}
	return nil
}

// Tournament is the root aggregate: it owns the groups, the knockout rounds and
// the event log, and is the only thing that mutates them. It is not safe for
// concurrent use; callers serialize UpdateMatchResult and Reset.
type Tournament struct {
	ID         string
	Name       string
	GroupCount int
	Stage      models.Stage
	Status     models.TournamentStatus
	ChampionID string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	roster     *Roster
	groups     []*Group
	rounds     []*models.Round
	qualifiers *models.QualifiersRecord

	events  []models.Event
	pending []models.Event
	lastSeq int64

	observers    map[int]Observer
	observerIDs  []int
	nextObserver int

	now     func() time.Time
	shuffle func([]string)
}

type Option func(*Tournament)

// WithShuffler replaces the random team draw, mostly for tests.
func WithShuffler(fn func(names []string)) Option {
	return func(t *Tournament) { t.shuffle = fn }
}

func WithClock(fn func() time.Time) Option {
	return func(t *Tournament) { t.now = fn }
}

func WithID(id string) Option {
	return func(t *Tournament) { t.ID = id }
}

// NoShuffle keeps teams in submission order.
func NoShuffle(names []string) {}

func defaultShuffle(names []string) {
	rand.Shuffle(len(names), func(i, j int) { names[i], names[j] = names[j], names[i] })
}

func newTournament(opts []Option) *Tournament {
	t := &Tournament{
		ID:        uuid.NewString(),
		Stage:     models.StageSetup,
		Status:    models.StatusActive,
		roster:    NewRoster(),
		observers: make(map[int]Observer),
		now:       time.Now,
		shuffle:   defaultShuffle,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// NewTournament draws the teams into groups of four and generates the group
// fixtures. The tournament starts in the group stage.
func NewTournament(name string, groupCount int, teamNames []string, opts ...Option) (*Tournament, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTournamentNameEmpty
	}
	if _, ok := models.LookupGroupFormat(groupCount); !ok {
		return nil, fmt.Errorf("%w: got %d", ErrUnsupportedGroupCount, groupCount)
	}
	if len(teamNames) != groupCount*models.TeamsPerGroup {
		return nil, fmt.Errorf("%w: %d groups need %d teams, got %d",
			ErrInvalidTeamCount, groupCount, groupCount*models.TeamsPerGroup, len(teamNames))
	}
	names := make([]string, len(teamNames))
	for i, n := range teamNames {
		names[i] = strings.TrimSpace(n)
		if names[i] == "" {
			return nil, fmt.Errorf("%w: position %d", ErrEmptyTeamName, i+1)
		}
	}

	t := newTournament(opts)
	t.Name = name
	t.GroupCount = groupCount
	t.CreatedAt = t.now().UTC()
	t.UpdatedAt = t.CreatedAt

	t.shuffle(names)
	for i, n := range names {
		t.roster.Add(models.Team{
			ID:      fmt.Sprintf("T%d", i+1),
			Name:    n,
			GroupID: groupLetter(i / models.TeamsPerGroup),
		})
	}
	for g := 0; g < groupCount; g++ {
		ids := make([]string, 0, models.TeamsPerGroup)
		for i := g * models.TeamsPerGroup; i < (g+1)*models.TeamsPerGroup; i++ {
			ids = append(ids, fmt.Sprintf("T%d", i+1))
		}
		group := NewGroup(groupLetter(g), ids, t.roster)
		if err := group.GenerateMatches(); err != nil {
			return nil, err
		}
		t.groups = append(t.groups, group)
	}

	t.emit(models.EventTournamentCreated, models.TournamentCreatedPayload{
		TournamentID: t.ID, Name: t.Name, GroupCount: t.GroupCount,
	})
	t.transition(models.StageGroup)
	t.flush()
	return t, nil
}

func groupLetter(i int) string {
	return string(rune('A' + i))
}

// UpdateMatchResult is the single write path for results. Only matches of the
// active stage accept results. Validation happens before anything changes, so a
// rejected call leaves the tournament untouched.
func (t *Tournament) UpdateMatchResult(matchID string, result MatchResult) error {
	if err := result.Validate(); err != nil {
		return err
	}

	switch t.Stage {
	case models.StageGroup:
		if err := t.updateGroupMatch(matchID, result); err != nil {
			return err
		}
	case models.StageKnockout:
		if err := t.updateKnockoutMatch(matchID, result); err != nil {
			return err
		}
	default:
		if t.findMatch(matchID) == nil {
			return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		return fmt.Errorf("%w: tournament is in stage %s", ErrStageClosed, t.Stage)
	}

	t.UpdatedAt = t.now().UTC()
	t.flush()
	return nil
}

func (t *Tournament) updateGroupMatch(matchID string, result MatchResult) error {
	group := t.groupOfMatch(matchID)
	if group == nil {
		if t.findMatch(matchID) != nil {
			return fmt.Errorf("%w: %s is not a group match", ErrStageClosed, matchID)
		}
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	if result.ExtraTime != nil {
		return ErrExtraTimeNotAllowed
	}
	if result.Penalties != nil {
		return ErrPenaltiesNotAllowed
	}
	if err := group.UpdateMatchResult(matchID, result.Home, result.Away); err != nil {
		return err
	}

	m := group.Match(matchID)
	t.emit(models.EventMatchUpdated, models.MatchUpdatedPayload{
		MatchID: matchID, GroupID: group.ID, WinnerID: m.WinnerID,
	})

	if t.allGroupsCompleted() {
		return t.completeGroupStage()
	}
	return nil
}

func (t *Tournament) updateKnockoutMatch(matchID string, result MatchResult) error {
	roundIndex, matchIndex, ok := locateKnockoutMatch(t.rounds, matchID)
	if !ok {
		if t.findMatch(matchID) != nil {
			return fmt.Errorf("%w: %s is not a knockout match", ErrStageClosed, matchID)
		}
		return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
	}
	match := t.rounds[roundIndex].Matches[matchIndex]
	if !match.Ready() {
		return fmt.Errorf("%w: %s", ErrMatchNotReady, matchID)
	}

	// Dry run on a copy so an unresolved result never reaches the bracket.
	decided := match.Clone()
	if err := applyKnockoutResult(decided, result); err != nil {
		return err
	}
	*match = *decided

	championID, err := Advance(t.rounds, roundIndex, matchIndex)
	if err != nil {
		return err
	}
	t.emit(models.EventMatchUpdated, models.MatchUpdatedPayload{
		MatchID: matchID, Stage: models.StageKnockout, WinnerID: match.WinnerID,
	})

	if championID != "" {
		t.complete(championID)
	}
	return nil
}

func applyKnockoutResult(m *models.Match, result MatchResult) error {
	if err := m.UpdateResult(result.Home, result.Away); err != nil {
		return err
	}
	if result.ExtraTime != nil {
		if m.WinnerID != "" {
			return ErrExtraTimeNotAllowed
		}
		if err := m.UpdateExtraTimeResult(result.ExtraTime.Home, result.ExtraTime.Away); err != nil {
			return err
		}
	}
	if result.Penalties != nil {
		if m.WinnerID != "" {
			return ErrPenaltiesNotAllowed
		}
		if err := m.UpdatePenaltyResult(result.Penalties.Home, result.Penalties.Away); err != nil {
			return err
		}
	}
	if m.WinnerID == "" {
		return fmt.Errorf("%w: %s", ErrKnockoutUnresolved, m.ID)
	}
	return nil
}

func (t *Tournament) completeGroupStage() error {
	q, err := SelectQualifiers(t.groups)
	if err != nil {
		return err
	}
	rounds, err := GenerateKnockout(q, t.GroupCount)
	if err != nil {
		return err
	}
	rec := q.Record()
	t.rounds = rounds
	t.qualifiers = &rec

	t.emit(models.EventGroupStageCompleted, models.GroupStageCompletedPayload{Qualifiers: rec})
	t.transition(models.StageKnockout)
	return nil
}

func (t *Tournament) complete(championID string) {
	t.ChampionID = championID
	t.Status = models.StatusCompleted
	t.emit(models.EventTournamentCompleted, models.TournamentCompletedPayload{
		WinnerID: championID, WinnerName: t.roster.Name(championID),
	})
	t.transition(models.StageComplete)
}

// transition only ever moves forward.
func (t *Tournament) transition(to models.Stage) {
	if !t.Stage.Before(to) {
		return
	}
	from := t.Stage
	t.Stage = to
	t.emit(models.EventStageChanged, models.StageChangedPayload{PreviousStage: from, NewStage: to})
}

// Reset wipes every result, drops the bracket and returns to the group stage.
func (t *Tournament) Reset() {
	for _, g := range t.groups {
		g.ClearResults()
	}
	t.rounds = nil
	t.qualifiers = nil
	t.ChampionID = ""
	t.Status = models.StatusActive

	from := t.Stage
	t.Stage = models.StageGroup
	t.emit(models.EventTournamentReset, models.TournamentResetPayload{TournamentID: t.ID})
	if from != models.StageGroup {
		t.emit(models.EventStageChanged, models.StageChangedPayload{PreviousStage: from, NewStage: models.StageGroup})
	}
	t.UpdatedAt = t.now().UTC()
	t.flush()
}

func (t *Tournament) allGroupsCompleted() bool {
	for _, g := range t.groups {
		if !g.IsCompleted() {
			return false
		}
	}
	return len(t.groups) > 0
}

func (t *Tournament) groupOfMatch(matchID string) *Group {
	for _, g := range t.groups {
		if g.Match(matchID) != nil {
			return g
		}
	}
	return nil
}

func (t *Tournament) findMatch(matchID string) *models.Match {
	if g := t.groupOfMatch(matchID); g != nil {
		return g.Match(matchID)
	}
	if r, i, ok := locateKnockoutMatch(t.rounds, matchID); ok {
		return t.rounds[r].Matches[i]
	}
	return nil
}

// Match returns a copy of any group or knockout match.
func (t *Tournament) Match(matchID string) (*models.Match, bool) {
	m := t.findMatch(matchID)
	if m == nil {
		return nil, false
	}
	return m.Clone(), true
}

// Standings returns a copy of one group table.
func (t *Tournament) Standings(groupID string) ([]models.StandingsRow, error) {
	for _, g := range t.groups {
		if g.ID == groupID {
			return append([]models.StandingsRow(nil), g.Standings...), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, groupID)
}

func (t *Tournament) GroupIDs() []string {
	ids := make([]string, len(t.groups))
	for i, g := range t.groups {
		ids[i] = g.ID
	}
	return ids
}

// Bracket returns the knockout rounds, or nil before the group stage ends.
func (t *Tournament) Bracket() []models.RoundRecord {
	return roundRecords(t.rounds)
}

func (t *Tournament) Qualifiers() *models.QualifiersRecord {
	if t.qualifiers == nil {
		return nil
	}
	q := *t.qualifiers
	return &q
}

func (t *Tournament) Teams() []models.Team {
	return t.roster.All()
}

func (t *Tournament) Team(id string) (models.Team, bool) {
	return t.roster.Team(id)
}

// Champion is set once the final has a winner.
func (t *Tournament) Champion() (models.Team, bool) {
	if t.ChampionID == "" {
		return models.Team{}, false
	}
	return t.roster.Team(t.ChampionID)
}

// EventsSince returns the log entries with a sequence number above seq.
func (t *Tournament) EventsSince(seq int64) []models.Event {
	for i, e := range t.events {
		if e.Seq > seq {
			return append([]models.Event(nil), t.events[i:]...)
		}
	}
	return []models.Event{}
}

func (t *Tournament) LastSeq() int64 {
	return t.lastSeq
}

// Register adds an observer and returns the id to unregister it with.
func (t *Tournament) Register(o Observer) int {
	t.nextObserver++
	id := t.nextObserver
	t.observers[id] = o
	t.observerIDs = append(t.observerIDs, id)
	return id
}

func (t *Tournament) Unregister(id int) bool {
	if _, ok := t.observers[id]; !ok {
		return false
	}
	delete(t.observers, id)
	for i, v := range t.observerIDs {
		if v == id {
			t.observerIDs = append(t.observerIDs[:i], t.observerIDs[i+1:]...)
			break
		}
	}
	return true
}

func (t *Tournament) emit(eventType models.EventType, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		// Payloads are plain structs of strings and ints.
		panic(fmt.Sprintf("brackets: marshal %s payload: %v", eventType, err))
	}
	t.lastSeq++
	e := models.Event{
		Seq:       t.lastSeq,
		Type:      eventType,
		Payload:   raw,
		Timestamp: t.now().UTC(),
	}
	t.events = append(t.events, e)
	t.pending = append(t.pending, e)
}

// flush delivers pending events once the aggregate is consistent again.
func (t *Tournament) flush() {
	pending := t.pending
	t.pending = nil
	for _, e := range pending {
		for _, id := range append([]int(nil), t.observerIDs...) {
			if o, ok := t.observers[id]; ok {
				o(e)
			}
		}
	}
}
