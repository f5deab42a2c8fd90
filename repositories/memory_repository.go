package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/Dosada05/knockout-cup/models"
)

// memoryTournamentRepository keeps snapshots as encoded JSON so callers never
// share memory with the stored copy. Used when no DATABASE_URL is configured.
type memoryTournamentRepository struct {
	mu      sync.RWMutex
	records map[string][]byte
	summary map[string]models.TournamentSummary
}

func NewMemoryTournamentRepository() TournamentRepository {
	return &memoryTournamentRepository{
		records: make(map[string][]byte),
		summary: make(map[string]models.TournamentSummary),
	}
}

func (r *memoryTournamentRepository) Save(ctx context.Context, s *models.TournamentSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTournamentSnapshotInvalid, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[s.ID] = body
	r.summary[s.ID] = s.Summary()
	return nil
}

func (r *memoryTournamentRepository) GetByID(ctx context.Context, id string) (*models.TournamentSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	body, ok := r.records[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrTournamentNotFound
	}

	s := &models.TournamentSnapshot{}
	if err := json.Unmarshal(body, s); err != nil {
		return nil, fmt.Errorf("%w: tournament %s: %v", ErrTournamentSnapshotInvalid, id, err)
	}
	return s, nil
}

func (r *memoryTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.TournamentSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var wanted map[string]bool
	if len(filter.IDs) > 0 {
		wanted = make(map[string]bool, len(filter.IDs))
		for _, id := range filter.IDs {
			wanted[id] = true
		}
	}

	r.mu.RLock()
	summaries := make([]models.TournamentSummary, 0, len(r.summary))
	for id, s := range r.summary {
		if filter.Status != nil && s.Status != *filter.Status {
			continue
		}
		if wanted != nil && !wanted[id] {
			continue
		}
		summaries = append(summaries, s)
	}
	r.mu.RUnlock()

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].UpdatedAt.Equal(summaries[j].UpdatedAt) {
			return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
		}
		return summaries[i].ID < summaries[j].ID
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(summaries) {
			return []models.TournamentSummary{}, nil
		}
		summaries = summaries[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(summaries) {
		summaries = summaries[:filter.Limit]
	}
	return summaries, nil
}

func (r *memoryTournamentRepository) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return ErrTournamentNotFound
	}
	delete(r.records, id)
	delete(r.summary, id)
	return nil
}
