package booking

import (
	"context"
	"regexp"
	"testing"
	"time"

	"hallbook/internal/events"
	"hallbook/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) expectLockedBooking(ownerID int) {
	f.mock.ExpectBegin()
	f.mock.ExpectQuery(regexp.QuoteMeta(`WHERE b.id = $1 FOR UPDATE OF b`)).
		WithArgs(int64(1)).
		WillReturnRows(recordRow(1, ownerID, slotStart, slotEnd))
}

func TestCancelBooking_Owner(t *testing.T) {
	f := newFixture(t)

	f.expectLockedBooking(3)
	f.mock.ExpectExec(regexp.QuoteMeta(lockSQL)).
		WithArgs("hall:hall-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM bookings WHERE id = $1`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectQuery(regexp.QuoteMeta(recompute)).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"is_free"}).AddRow(true))
	f.mock.ExpectCommit()

	err := f.svc.CancelBooking(context.Background(), 1, Requester{UserID: 3, Role: user.RoleUser})
	require.NoError(t, err)

	require.Len(t, f.notifier.cancelled, 1)
	assert.Equal(t, int64(1), f.notifier.cancelled[0].BookingID)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, events.TypeBookingCancelled, f.publisher.events[0].Type)
	payload, ok := f.publisher.events[0].Payload.(events.BookingPayload)
	require.True(t, ok)
	assert.Equal(t, 3, payload.CancelledBy)
}

func TestCancelBooking_AdminCancelsAnyBooking(t *testing.T) {
	f := newFixture(t)

	f.expectLockedBooking(3)
	f.mock.ExpectExec(regexp.QuoteMeta(lockSQL)).WillReturnResult(sqlmock.NewResult(0, 0))
	f.mock.ExpectExec(`DELETE FROM bookings`).WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectQuery(regexp.QuoteMeta(recompute)).
		WillReturnRows(sqlmock.NewRows([]string{"is_free"}).AddRow(true))
	f.mock.ExpectCommit()

	err := f.svc.CancelBooking(context.Background(), 1, Requester{UserID: 1, Role: user.RoleAdmin})
	assert.NoError(t, err)
}

func TestCancelBooking_OtherUserForbidden(t *testing.T) {
	f := newFixture(t)

	f.expectLockedBooking(3)
	f.mock.ExpectRollback()

	err := f.svc.CancelBooking(context.Background(), 1, Requester{UserID: 4, Role: user.RoleUser})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, f.notifier.cancelled)
	assert.Empty(t, f.publisher.events)
}

func TestCancelBooking_NotFound(t *testing.T) {
	f := newFixture(t)

	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`FOR UPDATE OF b`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(recordColumns))
	f.mock.ExpectRollback()

	err := f.svc.CancelBooking(context.Background(), 1, Requester{UserID: 3, Role: user.RoleUser})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCancelBooking_InvalidID(t *testing.T) {
	f := newFixture(t)

	err := f.svc.CancelBooking(context.Background(), 0, Requester{UserID: 3, Role: user.RoleUser})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRequesterCanManage(t *testing.T) {
	rec := &Record{Booking: Booking{ID: 1, UserID: 3, CreatedAt: time.Now()}}

	assert.True(t, Requester{UserID: 3, Role: user.RoleUser}.CanManage(rec))
	assert.True(t, Requester{UserID: 9, Role: user.RoleAdmin}.CanManage(rec))
	assert.False(t, Requester{UserID: 4, Role: user.RoleUser}.CanManage(rec))
	assert.False(t, Requester{UserID: 0}.CanManage(&Record{}))
}
