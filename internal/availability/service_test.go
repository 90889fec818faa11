package availability

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"hallbook/internal/booking"
	"hallbook/internal/db"
	"hallbook/internal/interval"
	"hallbook/internal/metrics"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockHalls struct{ mock.Mock }

func (m *MockHalls) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

const testTimeout = 100 * time.Millisecond

var (
	from = time.Date(2026, 10, 20, 9, 0, 0, 0, time.UTC)
	to   = time.Date(2026, 10, 20, 12, 0, 0, 0, time.UTC)
)

func newService(t *testing.T, halls HallChecker) (Service, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	dbx := sqlx.NewDb(sqlDB, "sqlmock")
	t.Cleanup(func() { dbx.Close() })

	txm, err := db.NewTxManager(dbx, db.WithTimeout(testTimeout))
	require.NoError(t, err)

	return NewService(txm, halls, interval.NewStore()), mock
}

func expectCount(mock sqlmock.Sqlmock, n int) {
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) AS "count" FROM "bookings"`)).
		WithArgs("hall-1", to, from).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(n))
}

func TestQueryAvailability_Free(t *testing.T) {
	halls := new(MockHalls)
	halls.On("Exists", mock.Anything, "hall-1").Return(true, nil)
	svc, sqlMock := newService(t, halls)
	before := testutil.ToFloat64(metrics.AvailabilityQueriesTotal.WithLabelValues("available"))

	expectCount(sqlMock, 0)

	res, err := svc.QueryAvailability(context.Background(), " hall-1 ", from, to)
	require.NoError(t, err)
	assert.Equal(t, &Result{HallID: "hall-1", Start: from, End: to, IsAvailable: true}, res)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AvailabilityQueriesTotal.WithLabelValues("available")))
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestQueryAvailability_Taken(t *testing.T) {
	halls := new(MockHalls)
	halls.On("Exists", mock.Anything, "hall-1").Return(true, nil)
	svc, sqlMock := newService(t, halls)

	expectCount(sqlMock, 2)

	res, err := svc.QueryAvailability(context.Background(), "hall-1", from, to)
	require.NoError(t, err)
	assert.False(t, res.IsAvailable)
	assert.Equal(t, 2, res.ConflictCount)
}

func TestQueryAvailability_IsIdempotent(t *testing.T) {
	halls := new(MockHalls)
	halls.On("Exists", mock.Anything, "hall-1").Return(true, nil)
	svc, sqlMock := newService(t, halls)

	expectCount(sqlMock, 1)
	expectCount(sqlMock, 1)

	first, err := svc.QueryAvailability(context.Background(), "hall-1", from, to)
	require.NoError(t, err)
	second, err := svc.QueryAvailability(context.Background(), "hall-1", from, to)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

func TestQueryAvailability_InvalidWindow(t *testing.T) {
	tests := []struct {
		name  string
		hall  string
		start time.Time
		end   time.Time
		field string
	}{
		{"missing hall", "", from, to, "hall_id"},
		{"missing start", "hall-1", time.Time{}, to, "from"},
		{"empty window", "hall-1", from, from, "to"},
		{"reversed window", "hall-1", to, from, "to"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			halls := new(MockHalls)
			svc, sqlMock := newService(t, halls)

			_, err := svc.QueryAvailability(context.Background(), tt.hall, tt.start, tt.end)
			var verr *booking.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			halls.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything)
			assert.NoError(t, sqlMock.ExpectationsWereMet())
		})
	}
}

func TestQueryAvailability_UnknownHall(t *testing.T) {
	halls := new(MockHalls)
	halls.On("Exists", mock.Anything, "hall-9").Return(false, nil)
	svc, _ := newService(t, halls)

	_, err := svc.QueryAvailability(context.Background(), "hall-9", from, to)
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

func TestQueryAvailability_StoreUnavailable(t *testing.T) {
	halls := new(MockHalls)
	halls.On("Exists", mock.Anything, "hall-1").Return(true, nil)
	svc, sqlMock := newService(t, halls)

	sqlMock.ExpectQuery(`SELECT COUNT`).WillReturnError(&pq.Error{Code: "57P03"})

	_, err := svc.QueryAvailability(context.Background(), "hall-1", from, to)
	assert.ErrorIs(t, err, db.ErrStoreUnavailable)
}

func TestQueryAvailability_SlowCountTimesOut(t *testing.T) {
	halls := new(MockHalls)
	halls.On("Exists", mock.Anything, "hall-1").Return(true, nil)
	svc, sqlMock := newService(t, halls)
	before := testutil.ToFloat64(metrics.AvailabilityQueriesTotal.WithLabelValues("error"))

	sqlMock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) AS "count" FROM "bookings"`)).
		WillDelayFor(8 * time.Second).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	start := time.Now()
	_, err := svc.QueryAvailability(context.Background(), "hall-1", from, to)

	assert.ErrorIs(t, err, db.ErrTimeout)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AvailabilityQueriesTotal.WithLabelValues("error")))
}

func TestQueryAvailability_HallLookupUnderDeadline(t *testing.T) {
	halls := new(MockHalls)
	halls.On("Exists", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), "hall-1").Return(true, nil)
	svc, sqlMock := newService(t, halls)

	expectCount(sqlMock, 0)

	_, err := svc.QueryAvailability(context.Background(), "hall-1", from, to)
	require.NoError(t, err)
	halls.AssertExpectations(t)
}
