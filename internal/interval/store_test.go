package interval

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var intervalColumns = []string{"id", "hall_id", "start_time", "end_time", "is_free", "created_at"}

func setupMock(t *testing.T) (*Store, *sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })

	return NewStore(), sqlxDB, mock
}

func TestCountActiveBookingsQuery(t *testing.T) {
	r := rng(9, 0, 11, 0)

	query, args, err := CountActiveBookingsQuery("hall-1", r)
	require.NoError(t, err)

	assert.Contains(t, query, `COUNT(*) AS "count"`)
	assert.Contains(t, query, `FROM "bookings" INNER JOIN "intervals"`)
	assert.Contains(t, query, `"intervals"."hall_id" = $1`)
	assert.Contains(t, query, `"intervals"."start_time" < $2`)
	assert.Contains(t, query, `"intervals"."end_time" > $3`)
	assert.Equal(t, []interface{}{"hall-1", r.End, r.Start}, args)
}

func TestCreate(t *testing.T) {
	store, db, mock := setupMock(t)
	r := rng(9, 0, 11, 0)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO intervals (hall_id, start_time, end_time, is_free) VALUES ($1, $2, $3, $4) RETURNING id, hall_id, start_time, end_time, is_free, created_at")).
		WithArgs("hall-1", r.Start, r.End, false).
		WillReturnRows(sqlmock.NewRows(intervalColumns).AddRow(int64(5), "hall-1", r.Start, r.End, false, now))

	iv, err := store.Create(context.Background(), db, "hall-1", r, false)
	require.NoError(t, err)
	assert.Equal(t, int64(5), iv.ID)
	assert.False(t, iv.IsFree)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	store, db, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, hall_id, start_time, end_time, is_free, created_at FROM intervals WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(intervalColumns))

	_, err := store.GetByID(context.Background(), db, 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecomputeFree(t *testing.T) {
	store, db, mock := setupMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE intervals SET is_free = NOT EXISTS (SELECT 1 FROM bookings WHERE interval_id = $1) WHERE id = $1 RETURNING is_free")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"is_free"}).AddRow(true))

	free, err := store.RecomputeFree(context.Background(), db, 7)
	require.NoError(t, err)
	assert.True(t, free)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE intervals SET is_free")).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"is_free"}))

	_, err = store.RecomputeFree(context.Background(), db, 8)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByHall(t *testing.T) {
	store, db, mock := setupMock(t)
	from := at(0, 0)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, hall_id, start_time, end_time, is_free, created_at FROM intervals WHERE hall_id = $1 AND start_time >= $2 ORDER BY start_time ASC")).
		WithArgs("hall-2", from).
		WillReturnRows(sqlmock.NewRows(intervalColumns).
			AddRow(int64(1), "hall-2", at(9, 0), at(11, 0), true, from).
			AddRow(int64(2), "hall-2", at(13, 0), at(14, 0), false, from))

	list, err := store.ListByHall(context.Background(), db, "hall-2", from)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.True(t, list[0].IsFree)
}

func TestCountActiveBookings(t *testing.T) {
	store, db, mock := setupMock(t)
	r := rng(10, 0, 10, 30)

	mock.ExpectQuery(`SELECT COUNT\(\*\) AS "count" FROM "bookings"`).
		WithArgs("hall-1", r.End, r.Start).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := store.CountActiveBookings(context.Background(), db, "hall-1", r)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
