// Package availability answers "is this hall free in this window" without
// taking locks. Answers are advisory; only booking creation decides.
package availability

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hallbook/internal/booking"
	"hallbook/internal/db"
	"hallbook/internal/interval"
	"hallbook/internal/metrics"

	"github.com/jmoiron/sqlx"
)

type Result struct {
	HallID        string    `json:"hall_id"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	IsAvailable   bool      `json:"is_available"`
	ConflictCount int       `json:"conflict_count"`
}

type Service interface {
	QueryAvailability(ctx context.Context, hallID string, start, end time.Time) (*Result, error)
}

type HallChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

type BookingCounter interface {
	CountActiveBookings(ctx context.Context, q sqlx.QueryerContext, hallID string, r interval.Range) (int, error)
}

type service struct {
	txm     *db.TxManager
	halls   HallChecker
	counter BookingCounter
}

// NewService builds the availability reader. Lookups run under txm's
// default deadline and never open a transaction.
func NewService(txm *db.TxManager, halls HallChecker, counter BookingCounter) Service {
	return &service{txm: txm, halls: halls, counter: counter}
}

func (s *service) QueryAvailability(ctx context.Context, hallID string, start, end time.Time) (*Result, error) {
	res, err := s.query(ctx, hallID, start, end)
	switch {
	case err != nil:
		metrics.RecordAvailabilityQuery(resultLabel(err))
	case res.IsAvailable:
		metrics.RecordAvailabilityQuery("available")
	default:
		metrics.RecordAvailabilityQuery("taken")
	}
	return res, err
}

func (s *service) query(ctx context.Context, hallID string, start, end time.Time) (*Result, error) {
	hallID = strings.TrimSpace(hallID)
	if hallID == "" {
		return nil, &booking.ValidationError{Field: "hall_id", Message: "hall is required"}
	}

	r := interval.Range{Start: start, End: end}
	switch err := r.Validate(); {
	case errors.Is(err, interval.ErrEmptyRange):
		return nil, &booking.ValidationError{Field: "from", Message: "window start and end are required"}
	case errors.Is(err, interval.ErrInvalidRange):
		return nil, &booking.ValidationError{Field: "to", Message: "window end must be after its start"}
	}

	var n int
	err := s.txm.Run(ctx, func(ctx context.Context, q *sqlx.DB) error {
		exists, err := s.halls.Exists(ctx, hallID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: hall %s", booking.ErrNotFound, hallID)
		}

		n, err = s.counter.CountActiveBookings(ctx, q, hallID, r)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		HallID:        hallID,
		Start:         start,
		End:           end,
		IsAvailable:   n == 0,
		ConflictCount: n,
	}, nil
}

func resultLabel(err error) string {
	switch {
	case errors.Is(err, booking.ErrValidation):
		return "invalid"
	case errors.Is(err, booking.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
