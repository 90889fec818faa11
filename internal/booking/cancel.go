package booking

import (
	"context"

	"hallbook/internal/db"
	"hallbook/internal/events"
	"hallbook/internal/hall"
	"hallbook/internal/metrics"

	"github.com/jmoiron/sqlx"
)

// CancelBooking deletes the booking and refreshes its interval's free flag
// in one transaction. Only the owner or an admin may cancel.
func (s *service) CancelBooking(ctx context.Context, bookingID int64, requester Requester) error {
	if bookingID <= 0 {
		metrics.RecordCancellation("invalid")
		return invalid("booking_id", "booking id must be positive")
	}

	var rec *Record
	err := s.txm.WithinTx(ctx, func(ctx context.Context, tx *sqlx.Tx) error {
		r, err := s.repo.GetForUpdate(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		if !requester.CanManage(r) {
			return ErrForbidden
		}

		if err := db.LockKey(ctx, tx, hall.LockKey(r.HallID)); err != nil {
			return err
		}

		if err := s.repo.Delete(ctx, tx, r.ID); err != nil {
			return err
		}

		if _, err := s.intervals.RecomputeFree(ctx, tx, r.IntervalID); err != nil {
			return err
		}

		rec = r
		return nil
	})
	if err != nil {
		metrics.RecordCancellation(outcome(err))
		return err
	}

	metrics.RecordCancellation("cancelled")
	s.log.Info("booking cancelled", "booking_id", rec.ID, "hall_id", rec.HallID, "by", requester.UserID)

	s.afterCommit(ctx, events.TypeBookingCancelled, rec, requester.UserID)
	return nil
}
