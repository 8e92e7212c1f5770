package repository_test

import (
	"context"
	"regexp"
	"testing"

	"innkeep/infras/otel/mocks"
	"innkeep/infras/postgres"
	"innkeep/internal/domains/booking/model"
	"innkeep/internal/domains/booking/repository"
	"innkeep/shared/daterange"
	gDto "innkeep/shared/dto"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) (repository.Booking, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	conn := sqlx.NewDb(db, "postgres")

	return repository.New(&postgres.Connection{Read: conn, Write: conn}, mocks.NewOtel()), mock
}

func TestExist_RoomOverlap(t *testing.T) {
	rng, err := daterange.Parse("2026-02-16", "2026-02-18")
	require.NoError(t, err)

	tests := []struct {
		name  string
		found bool
	}{
		{name: "conflict", found: true},
		{name: "free", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newRepository(t)

			mock.ExpectPrepare(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM bookings")).
				ExpectQuery().
				WithArgs(model.StatusCancelled, "2026-02-18", "2026-02-16", "room-1").
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.found))

			exist, err := repo.Exist(context.Background(), model.RoomOverlapFilter("room-1", rng))
			require.NoError(t, err)
			assert.Equal(t, tt.found, exist)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestExist_RoomOverlapIsHalfOpen(t *testing.T) {
	rng, err := daterange.Parse("2026-02-16", "2026-02-18")
	require.NoError(t, err)

	repo, mock := newRepository(t)

	// An existing stay checking out on the 16th, or checking in on the 18th, must not match.
	mock.ExpectPrepare(regexp.QuoteMeta(
		"WHERE (bookings.status != $1 AND bookings.check_in_date < $2 AND bookings.check_out_date > $3 AND bookings.room_id = $4)",
	)).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err = repo.Exist(context.Background(), model.RoomOverlapFilter("room-1", rng))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAll_Checkouts(t *testing.T) {
	rng, err := daterange.Parse("2026-02-14", "2026-02-16")
	require.NoError(t, err)

	repo, mock := newRepository(t)

	mock.ExpectPrepare(regexp.QuoteMeta(
		"WHERE (bookings.status != $1 AND bookings.check_out_date >= $2 AND bookings.check_out_date <= $3)",
	)).
		ExpectQuery().
		WithArgs(model.StatusCancelled, "2026-02-14", "2026-02-16").
		WillReturnRows(sqlmock.NewRows([]string{"id", "room_id"}).AddRow("booking-1", "room-1"))

	bookings, err := repo.GetAll(context.Background(), gDto.QueryParams{}, model.CheckoutFilter(rng.Start, rng.End), model.FieldID, model.FieldRoomID)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "room-1", bookings[0].RoomID)
	require.NoError(t, mock.ExpectationsWereMet())
}
