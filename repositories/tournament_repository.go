package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Dosada05/knockout-cup/models"
)

var (
	ErrTournamentNotFound        = errors.New("tournament not found")
	ErrTournamentSnapshotInvalid = errors.New("tournament snapshot could not be stored or decoded")
)

type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type ListTournamentsFilter struct {
	Status *models.TournamentStatus
	IDs    []string
	Limit  int
	Offset int
}

// TournamentRepository persists whole tournament snapshots. Save is an upsert.
type TournamentRepository interface {
	Save(ctx context.Context, snapshot *models.TournamentSnapshot) error
	GetByID(ctx context.Context, id string) (*models.TournamentSnapshot, error)
	List(ctx context.Context, filter ListTournamentsFilter) ([]models.TournamentSummary, error)
	Delete(ctx context.Context, id string) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTournamentRepository) Save(ctx context.Context, s *models.TournamentSnapshot) error {
	executor := r.getExecutor(nil)

	body, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTournamentSnapshotInvalid, err)
	}

	query := `
		INSERT INTO tournaments (
			id, name, group_count, stage, status, champion_id, snapshot, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			stage = EXCLUDED.stage,
			status = EXCLUDED.status,
			champion_id = EXCLUDED.champion_id,
			snapshot = EXCLUDED.snapshot,
			updated_at = EXCLUDED.updated_at`

	_, err = executor.ExecContext(ctx, query,
		s.ID, s.Name, s.GroupCount, s.Stage, s.Status, nullableString(s.ChampionID), body, s.CreatedAt, s.UpdatedAt,
	)
	return r.handleTournamentError(err)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.TournamentSnapshot, error) {
	executor := r.getExecutor(nil)
	query := `SELECT snapshot FROM tournaments WHERE id = $1`

	var body []byte
	err := executor.QueryRowContext(ctx, query, id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	s := &models.TournamentSnapshot{}
	if err := json.Unmarshal(body, s); err != nil {
		return nil, fmt.Errorf("%w: tournament %s: %v", ErrTournamentSnapshotInvalid, id, err)
	}
	return s, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter ListTournamentsFilter) ([]models.TournamentSummary, error) {
	executor := r.getExecutor(nil)
	query := `
		SELECT id, name, group_count, stage, status, champion_id, updated_at
		FROM tournaments
		WHERE 1=1`

	args := []interface{}{}
	argID := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}
	if len(filter.IDs) > 0 {
		query += fmt.Sprintf(" AND id = ANY($%d)", argID)
		args = append(args, pq.Array(filter.IDs))
		argID++
	}

	query += " ORDER BY updated_at DESC, id"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	defer rows.Close()

	summaries := []models.TournamentSummary{}
	for rows.Next() {
		var s models.TournamentSummary
		var champion sql.NullString
		if err := rows.Scan(&s.ID, &s.Name, &s.GroupCount, &s.Stage, &s.Status, &champion, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		s.ChampionID = champion.String
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournament rows: %w", err)
	}
	return summaries, nil
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id string) error {
	executor := r.getExecutor(nil)
	query := `DELETE FROM tournaments WHERE id = $1`
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return r.handleTournamentError(err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) handleTournamentError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "22P02", "23502", "23514": // invalid_text_representation, not_null_violation, check_violation
			return fmt.Errorf("%w: %s", ErrTournamentSnapshotInvalid, pqErr.Message)
		}
	}
	return err
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
