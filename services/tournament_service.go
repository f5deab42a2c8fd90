package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/knockout-cup/brackets"
	"github.com/Dosada05/knockout-cup/models"
	"github.com/Dosada05/knockout-cup/repositories"
	"github.com/Dosada05/knockout-cup/storage"
)

// Notifier fans tournament events out to websocket rooms. *brackets.Hub
// implements it.
type Notifier interface {
	BroadcastToRoom(roomID string, message interface{})
}

type CreateTournamentInput struct {
	Name       string   `json:"name"`
	GroupCount int      `json:"group_count"`
	Teams      []string `json:"teams"`
}

// MatchResultInput is a submitted result. ExtraTime and Penalties only apply to
// knockout matches level after regulation (and extra time).
type MatchResultInput struct {
	HomeScore int               `json:"home_score"`
	AwayScore int               `json:"away_score"`
	ExtraTime *models.ScorePair `json:"extra_time,omitempty"`
	Penalties *models.ScorePair `json:"penalties,omitempty"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.TournamentSnapshot, error)
	Get(ctx context.Context, id string) (*models.TournamentSnapshot, error)
	Exists(ctx context.Context, id string) error
	List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.TournamentSummary, error)
	Delete(ctx context.Context, id string) error
	UpdateMatchResult(ctx context.Context, id, matchID string, input MatchResultInput) (*models.MatchRecord, error)
	Reset(ctx context.Context, id string) (*models.TournamentSnapshot, error)
	Standings(ctx context.Context, id, groupID string) ([]models.StandingsRow, error)
	Bracket(ctx context.Context, id string) ([]models.RoundRecord, error)
	Champion(ctx context.Context, id string) (models.Team, error)
	Events(ctx context.Context, id string, since int64) ([]models.Event, error)
}

// entry serializes every operation on one tournament. A nil t means the
// tournament has not been loaded from the repository yet.
type entry struct {
	mu      sync.Mutex
	t       *brackets.Tournament
	deleted bool
}

type tournamentService struct {
	repo     repositories.TournamentRepository
	notifier Notifier
	archive  *storage.SnapshotArchive
	logger   *zap.Logger
	opts     []brackets.Option

	mu    sync.Mutex
	cache map[string]*entry
}

// NewTournamentService wires the progression engine to persistence and
// notifications. archive may be nil, which disables archiving of completed
// tournaments. opts are applied to every created or restored tournament.
func NewTournamentService(
	repo repositories.TournamentRepository,
	notifier Notifier,
	archive *storage.SnapshotArchive,
	logger *zap.Logger,
	opts ...brackets.Option,
) TournamentService {
	return &tournamentService{
		repo:     repo,
		notifier: notifier,
		archive:  archive,
		logger:   logger,
		opts:     opts,
		cache:    make(map[string]*entry),
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.TournamentSnapshot, error) {
	t, err := brackets.NewTournament(input.Name, input.GroupCount, input.Teams, s.opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	s.attach(t)

	e := &entry{t: t}
	e.mu.Lock()
	defer e.mu.Unlock()

	s.mu.Lock()
	s.cache[t.ID] = e
	s.mu.Unlock()

	snapshot := t.Snapshot()
	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.logger.Error("failed to save new tournament", zap.String("tournament_id", t.ID), zap.Error(err))
		e.deleted = true
		s.mu.Lock()
		delete(s.cache, t.ID)
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	s.logger.Info("tournament created",
		zap.String("tournament_id", t.ID),
		zap.String("name", t.Name),
		zap.Int("group_count", t.GroupCount),
	)
	return snapshot, nil
}

func (s *tournamentService) Get(ctx context.Context, id string) (*models.TournamentSnapshot, error) {
	var snapshot *models.TournamentSnapshot
	err := s.withTournament(ctx, id, func(t *brackets.Tournament) error {
		snapshot = t.Snapshot()
		return nil
	})
	return snapshot, err
}

// Exists loads the tournament if needed and returns ErrTournamentNotFound when
// there is no such tournament.
func (s *tournamentService) Exists(ctx context.Context, id string) error {
	return s.withTournament(ctx, id, func(*brackets.Tournament) error { return nil })
}

func (s *tournamentService) List(ctx context.Context, filter repositories.ListTournamentsFilter) ([]models.TournamentSummary, error) {
	summaries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	return summaries, nil
}

func (s *tournamentService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	e := s.cache[id]
	s.mu.Unlock()

	if e != nil {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.deleted {
			return ErrTournamentNotFound
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	if e != nil {
		e.deleted = true
	}
	s.mu.Lock()
	if s.cache[id] == e {
		delete(s.cache, id)
	}
	s.mu.Unlock()

	s.removeArchive(ctx, id)
	s.logger.Info("tournament deleted", zap.String("tournament_id", id))
	return nil
}

func (s *tournamentService) UpdateMatchResult(ctx context.Context, id, matchID string, input MatchResultInput) (*models.MatchRecord, error) {
	var record *models.MatchRecord
	err := s.withTournament(ctx, id, func(t *brackets.Tournament) error {
		err := t.UpdateMatchResult(matchID, brackets.MatchResult{
			Home:      input.HomeScore,
			Away:      input.AwayScore,
			ExtraTime: input.ExtraTime,
			Penalties: input.Penalties,
		})
		if err != nil {
			return err
		}

		m, _ := t.Match(matchID)
		rec := models.NewMatchRecord(m)
		record = &rec

		s.logger.Debug("match result recorded",
			zap.String("tournament_id", id),
			zap.String("match_id", matchID),
			zap.String("winner_id", m.WinnerID),
			zap.String("stage", string(t.Stage)),
		)
		return s.persist(ctx, t)
	})
	if err != nil && !errors.Is(err, ErrPersistenceFailed) {
		return nil, err
	}
	return record, err
}

func (s *tournamentService) Reset(ctx context.Context, id string) (*models.TournamentSnapshot, error) {
	var snapshot *models.TournamentSnapshot
	err := s.withTournament(ctx, id, func(t *brackets.Tournament) error {
		wasCompleted := t.Status == models.StatusCompleted
		t.Reset()
		snapshot = t.Snapshot()
		if err := s.save(ctx, snapshot); err != nil {
			return err
		}
		if wasCompleted {
			s.removeArchive(ctx, id)
		}
		s.logger.Info("tournament reset", zap.String("tournament_id", id))
		return nil
	})
	return snapshot, err
}

func (s *tournamentService) Standings(ctx context.Context, id, groupID string) ([]models.StandingsRow, error) {
	var rows []models.StandingsRow
	err := s.withTournament(ctx, id, func(t *brackets.Tournament) error {
		var err error
		rows, err = t.Standings(groupID)
		return err
	})
	return rows, err
}

func (s *tournamentService) Bracket(ctx context.Context, id string) ([]models.RoundRecord, error) {
	var rounds []models.RoundRecord
	err := s.withTournament(ctx, id, func(t *brackets.Tournament) error {
		rounds = t.Bracket()
		return nil
	})
	if rounds == nil && err == nil {
		rounds = []models.RoundRecord{}
	}
	return rounds, err
}

func (s *tournamentService) Champion(ctx context.Context, id string) (models.Team, error) {
	var champion models.Team
	err := s.withTournament(ctx, id, func(t *brackets.Tournament) error {
		team, ok := t.Champion()
		if !ok {
			return ErrChampionNotDecided
		}
		champion = team
		return nil
	})
	return champion, err
}

func (s *tournamentService) Events(ctx context.Context, id string, since int64) ([]models.Event, error) {
	var events []models.Event
	err := s.withTournament(ctx, id, func(t *brackets.Tournament) error {
		events = t.EventsSince(since)
		return nil
	})
	return events, err
}

// withTournament runs fn while holding the tournament's lock, loading it from
// the repository on first use.
func (s *tournamentService) withTournament(ctx context.Context, id string, fn func(t *brackets.Tournament) error) error {
	e, err := s.acquire(ctx, id)
	if err != nil {
		return err
	}
	defer e.mu.Unlock()
	return fn(e.t)
}

// acquire returns the locked cache entry of a tournament.
func (s *tournamentService) acquire(ctx context.Context, id string) (*entry, error) {
	s.mu.Lock()
	e, ok := s.cache[id]
	if !ok {
		e = &entry{}
		s.cache[id] = e
	}
	s.mu.Unlock()

	e.mu.Lock()
	if e.deleted {
		e.mu.Unlock()
		return nil, ErrTournamentNotFound
	}
	if e.t != nil {
		return e, nil
	}

	t, err := s.load(ctx, id)
	if err != nil {
		s.mu.Lock()
		if s.cache[id] == e {
			delete(s.cache, id)
		}
		s.mu.Unlock()
		e.mu.Unlock()
		return nil, err
	}
	e.t = t
	return e, nil
}

func (s *tournamentService) load(ctx context.Context, id string) (*brackets.Tournament, error) {
	snapshot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		s.logger.Error("failed to load tournament", zap.String("tournament_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}

	t, err := brackets.Restore(snapshot, s.opts...)
	if err != nil {
		s.logger.Error("stored tournament is not restorable", zap.String("tournament_id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	s.attach(t)
	s.logger.Debug("tournament loaded", zap.String("tournament_id", id), zap.Int64("last_seq", t.LastSeq()))
	return t, nil
}

// attach forwards every event of t to the tournament's websocket room.
func (s *tournamentService) attach(t *brackets.Tournament) {
	room := brackets.RoomForTournament(t.ID)
	t.Register(func(e models.Event) {
		s.notifier.BroadcastToRoom(room, brackets.WebSocketMessage{
			Type:    string(e.Type),
			Payload: e,
			RoomID:  room,
		})
	})
}

// persist saves the tournament. A completed tournament is archived at the same
// time; archive failures are logged but do not fail the request.
func (s *tournamentService) persist(ctx context.Context, t *brackets.Tournament) error {
	snapshot := t.Snapshot()
	if s.archive == nil || t.Stage != models.StageComplete {
		return s.save(ctx, snapshot)
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.save(gCtx, snapshot)
	})
	g.Go(func() error {
		result, err := s.archive.Store(gCtx, snapshot)
		if err != nil {
			s.logger.Error("failed to archive completed tournament", zap.String("tournament_id", t.ID), zap.Error(err))
			return nil
		}
		s.logger.Info("completed tournament archived",
			zap.String("tournament_id", t.ID),
			zap.String("location", result.Location),
		)
		return nil
	})
	return g.Wait()
}

func (s *tournamentService) save(ctx context.Context, snapshot *models.TournamentSnapshot) error {
	if err := s.repo.Save(ctx, snapshot); err != nil {
		s.logger.Error("failed to save tournament", zap.String("tournament_id", snapshot.ID), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrPersistenceFailed, err)
	}
	return nil
}

func (s *tournamentService) removeArchive(ctx context.Context, id string) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Remove(ctx, id); err != nil {
		s.logger.Warn("failed to remove tournament archive", zap.String("tournament_id", id), zap.Error(err))
	}
}
