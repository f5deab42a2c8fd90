package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/knockout-cup/models"
)

func newMockRepo(t *testing.T) (TournamentRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresTournamentRepository(db), mock
}

func TestPostgresRepository_Save(t *testing.T) {
	repo, mock := newMockRepo(t)
	s := snapshot("a", models.StatusActive, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	body, err := json.Marshal(s)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tournaments")).
		WithArgs("a", "Cup a", 1, models.StageGroup, models.StatusActive, sql.NullString{}, body, s.CreatedAt, s.UpdatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Save(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_SaveMapsDataErrors(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tournaments")).
		WillReturnError(&pq.Error{Code: "23502", Message: "null value in column \"name\""})

	err := repo.Save(context.Background(), snapshot("a", models.StatusActive, time.Now()))
	assert.ErrorIs(t, err, ErrTournamentSnapshotInvalid)
}

func TestPostgresRepository_GetByID(t *testing.T) {
	repo, mock := newMockRepo(t)
	s := snapshot("a", models.StatusActive, time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC))
	body, err := json.Marshal(s)
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT snapshot FROM tournaments WHERE id = $1")).
		WithArgs("a").
		WillReturnRows(sqlmock.NewRows([]string{"snapshot"}).AddRow(body))

	got, err := repo.GetByID(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, s, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_GetByIDErrors(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT snapshot").WithArgs("x").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), "x")
		assert.ErrorIs(t, err, ErrTournamentNotFound)
	})

	t.Run("corrupt snapshot", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectQuery("SELECT snapshot").WithArgs("x").
			WillReturnRows(sqlmock.NewRows([]string{"snapshot"}).AddRow([]byte("{not json")))

		_, err := repo.GetByID(context.Background(), "x")
		assert.ErrorIs(t, err, ErrTournamentSnapshotInvalid)
	})

	t.Run("driver failure", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		boom := errors.New("connection reset")
		mock.ExpectQuery("SELECT snapshot").WithArgs("x").WillReturnError(boom)

		_, err := repo.GetByID(context.Background(), "x")
		assert.ErrorIs(t, err, boom)
	})
}

func TestPostgresRepository_List(t *testing.T) {
	repo, mock := newMockRepo(t)
	updated := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	status := models.StatusCompleted

	mock.ExpectQuery(regexp.QuoteMeta("AND status = $1 AND id = ANY($2) ORDER BY updated_at DESC, id LIMIT $3 OFFSET $4")).
		WithArgs(status, pq.Array([]string{"a", "b"}), 10, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "group_count", "stage", "status", "champion_id", "updated_at"}).
			AddRow("a", "Cup a", 4, "complete", "completed", "T3", updated).
			AddRow("b", "Cup b", 1, "complete", "completed", nil, updated))

	list, err := repo.List(context.Background(), ListTournamentsFilter{Status: &status, IDs: []string{"a", "b"}, Limit: 10, Offset: 5})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.TournamentSummary{
		ID: "a", Name: "Cup a", GroupCount: 4, Stage: models.StageComplete,
		Status: models.StatusCompleted, ChampionID: "T3", UpdatedAt: updated,
	}, list[0])
	assert.Empty(t, list[1].ChampionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepository_Delete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tournaments WHERE id = $1")).
			WithArgs("a").WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.Delete(context.Background(), "a"))
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock := newMockRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tournaments")).
			WithArgs("a").WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.Delete(context.Background(), "a"), ErrTournamentNotFound)
	})
}
