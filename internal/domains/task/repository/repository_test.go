package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"innkeep/infras/otel/mocks"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/task/model"
	"innkeep/internal/domains/task/repository"
	"innkeep/shared"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) (repository.Task, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func TestClaim(t *testing.T) {
	at := time.Date(2026, 2, 16, 11, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		affected int64
	}{
		{name: "winner takes the task", affected: 1},
		{name: "loser matches nothing", affected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepository(t)

			mock.ExpectExec(regexp.QuoteMeta(
				"UPDATE tasks SET status = $1, housekeeper_id = $2, modified_at = $3, modified_by = $4 "+
					"WHERE id = $5 AND status = $6 AND housekeeper_id IS NULL",
			)).
				WithArgs(model.StatusAccepted, "hk-1", at, "hk-1", "task-1", model.StatusPending).
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			affected, err := repo.Claim(context.Background(), "task-1", "hk-1", at)
			require.NoError(t, err)
			assert.Equal(t, tt.affected, affected)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestComplete(t *testing.T) {
	repo, mock := newRepository(t)

	at := time.Date(2026, 2, 16, 13, 30, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("WHERE id = $6 AND status = $7 AND housekeeper_id = $8")).
		WithArgs(model.StatusCompleted, "https://cdn.example/tasks/a.jpg", at, at, "hk-1", "task-1", model.StatusAccepted, "hk-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Complete(context.Background(), "task-1", "hk-1", "https://cdn.example/tasks/a.jpg", at)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReject(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectExec(regexp.QuoteMeta("housekeeper_id = NULL, image_url = NULL, completed_at = NULL")).
		WithArgs(model.StatusPending, sqlmock.AnyArg(), "admin-1", "task-1", model.StatusCompleted).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.Reject(context.Background(), "task-1", "admin-1", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet_JoinsRoomAndHousekeeper(t *testing.T) {
	repo, mock := newRepository(t)

	mock.ExpectPrepare(regexp.QuoteMeta("staff.full_name AS housekeeper_name")).
		ExpectQuery().
		WithArgs("task-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id", "status", "room_number", "housekeeper_name"}).
			AddRow("task-1", "room-101", model.StatusAccepted, "101", "Mei"))

	task, err := repo.Get(context.Background(), shared.FilterByID("task-1", model.FieldID, model.TableName))
	require.NoError(t, err)

	assert.Equal(t, "101", task.RoomNumber)
	require.NotNil(t, task.HousekeeperName)
	assert.Equal(t, "Mei", *task.HousekeeperName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
