package booking

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-RentalService/internal/domain"
	"github.com/m04kA/SMC-RentalService/pkg/dbmetrics"
)

var selectColumns = "SELECT " + strings.Join(columns, ", ") + " FROM bookings"

func day(s string) time.Time {
	d, _ := time.Parse(domain.DateFormat, s)
	return d
}

func newMock(t *testing.T) (*Repository, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(db), db, mock
}

// inTx открывает транзакцию на моке и кладёт её в контекст, как это делает txmanager
func inTx(t *testing.T, db *sql.DB, mock sqlmock.Sqlmock) context.Context {
	t.Helper()
	mock.ExpectBegin()
	tx, err := db.Begin()
	require.NoError(t, err)
	return dbmetrics.WithTx(context.Background(), &dbmetrics.SqlTxWrapper{Tx: tx})
}

// exact полное совпадение запроса
func exact(query string) string {
	return "^" + regexp.QuoteMeta(query) + "$"
}

func bookingRows() *sqlmock.Rows {
	created := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows(columns).
		AddRow(int64(11), int64(7), "Anna", nil, nil, 2, 0,
			day("2025-06-05"), day("2025-06-08"), int64(36000), "CONFIRMED",
			nil, nil, nil, created, created)
}

func TestRepository_GetOverlapping(t *testing.T) {
	const overlap = " WHERE unit_id = $1 AND checkin < $2 AND checkout > $3 AND status IN ($4,$5)" +
		" ORDER BY checkin ASC, id ASC"

	tests := []struct {
		name  string
		inTx  bool
		query string
	}{
		{name: "outside transaction", inTx: false, query: selectColumns + overlap},
		{name: "inside transaction locks rows", inTx: true, query: selectColumns + overlap + " FOR UPDATE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, db, mock := newMock(t)
			ctx := context.Background()
			if tt.inTx {
				ctx = inTx(t, db, mock)
			}

			// полуинтервал: checkin < end и checkout > start
			mock.ExpectQuery(exact(tt.query)).
				WithArgs(int64(7), "2025-06-08", "2025-06-05", "PENDING", "CONFIRMED").
				WillReturnRows(bookingRows())

			got, err := repo.GetOverlapping(ctx, 7, day("2025-06-05"), day("2025-06-08"), domain.ActiveStatuses)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, int64(11), got[0].ID)
			assert.Equal(t, domain.StatusConfirmed, got[0].Status)
			assert.Equal(t, day("2025-06-05"), got[0].Checkin)
			assert.Nil(t, got[0].GuestEmail)
			assert.Nil(t, got[0].CancelledAt)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_GetOverlapping_ConfirmedOnly(t *testing.T) {
	repo, _, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("AND status IN ($4)")).
		WithArgs(int64(7), "2025-06-08", "2025-06-05", "CONFIRMED").
		WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.GetOverlapping(context.Background(), 7, day("2025-06-05"), day("2025-06-08"),
		[]domain.BookingStatus{domain.StatusConfirmed})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetByID(t *testing.T) {
	t.Run("found outside transaction", func(t *testing.T) {
		repo, _, mock := newMock(t)
		mock.ExpectQuery(exact(selectColumns + " WHERE id = $1")).
			WithArgs(int64(11)).
			WillReturnRows(bookingRows())

		got, err := repo.GetByID(context.Background(), 11)
		require.NoError(t, err)
		assert.Equal(t, "Anna", got.GuestName)
		assert.Equal(t, int64(36000), got.Total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("locked inside transaction", func(t *testing.T) {
		repo, db, mock := newMock(t)
		ctx := inTx(t, db, mock)
		mock.ExpectQuery(exact(selectColumns + " WHERE id = $1 FOR UPDATE")).
			WithArgs(int64(11)).
			WillReturnRows(bookingRows())

		_, err := repo.GetByID(ctx, 11)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		repo, _, mock := newMock(t)
		mock.ExpectQuery(exact(selectColumns + " WHERE id = $1")).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows(columns))

		_, err := repo.GetByID(context.Background(), 404)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestRepository_Create(t *testing.T) {
	repo, _, mock := newMock(t)
	created := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`^INSERT INTO bookings \(unit_id,.*,checkin,checkout,total,status,notes\) VALUES \(\$1,.*\$11\) RETURNING id, created_at, updated_at$`).
		WithArgs(int64(7), "Anna", nil, nil, 2, 1, "2025-06-05", "2025-06-08", int64(36000), "PENDING", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(12), created, created))

	got, err := repo.Create(context.Background(), &domain.Booking{
		UnitID:    7,
		GuestName: "Anna",
		Adults:    2,
		Children:  1,
		Checkin:   day("2025-06-05"),
		Checkout:  day("2025-06-08"),
		Total:     36000,
		Status:    domain.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.ID)
	assert.Equal(t, created, got.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateStatus(t *testing.T) {
	query := exact("UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2")

	t.Run("updated", func(t *testing.T) {
		repo, _, mock := newMock(t)
		mock.ExpectExec(query).WithArgs("CONFIRMED", int64(11)).WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.UpdateStatus(context.Background(), 11, domain.StatusConfirmed))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		repo, _, mock := newMock(t)
		mock.ExpectExec(query).WithArgs("CONFIRMED", int64(404)).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(context.Background(), 404, domain.StatusConfirmed)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestRepository_QueryErrorsWrapped(t *testing.T) {
	repo, _, mock := newMock(t)
	cause := errors.New("connection reset by peer")

	mock.ExpectQuery("FROM bookings").WillReturnError(cause)

	_, err := repo.GetByUnit(context.Background(), domain.BookingsFilter{UnitID: 7})
	assert.ErrorIs(t, err, ErrExecQuery)
	assert.ErrorIs(t, err, cause)
}

func TestRepository_GetByUnitFilter(t *testing.T) {
	repo, _, mock := newMock(t)
	from, to := day("2025-06-01"), day("2025-07-01")

	mock.ExpectQuery(exact(selectColumns+" WHERE unit_id = $1 AND checkout > $2 AND checkin < $3 ORDER BY checkin ASC, id ASC")).
		WithArgs(int64(7), "2025-06-01", "2025-07-01").
		WillReturnRows(bookingRows())

	got, err := repo.GetByUnit(context.Background(), domain.BookingsFilter{
		UnitID:           7,
		From:             &from,
		To:               &to,
		IncludeCancelled: true,
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
