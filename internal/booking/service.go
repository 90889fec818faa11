package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"hallbook/internal/db"
	"hallbook/internal/events"
	"hallbook/internal/hall"
	"hallbook/internal/interval"
	"hallbook/internal/metrics"
	"hallbook/internal/notify"

	"github.com/jmoiron/sqlx"
)

const sideEffectTimeout = 5 * time.Second

type Service interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*Record, error)
	CancelBooking(ctx context.Context, bookingID int64, requester Requester) error
	GetBooking(ctx context.Context, id int64) (*Record, error)
	ListBookingsForUser(ctx context.Context, userID int) ([]Record, error)
	ListBookingsForHall(ctx context.Context, hallID string) ([]Record, error)
}

type HallLookup interface {
	GetByID(ctx context.Context, q sqlx.QueryerContext, id string) (*hall.Hall, error)
}

type IntervalStore interface {
	Create(ctx context.Context, q sqlx.QueryerContext, hallID string, r interval.Range, free bool) (*interval.Interval, error)
	RecomputeFree(ctx context.Context, q sqlx.QueryerContext, id int64) (bool, error)
	CountActiveBookings(ctx context.Context, q sqlx.QueryerContext, hallID string, r interval.Range) (int, error)
}

type Notifier interface {
	BookingConfirmed(ctx context.Context, n notify.BookingNotice) error
	BookingCancelled(ctx context.Context, n notify.BookingNotice) error
}

// Policy holds the booking rules that depend on deployment settings.
type Policy struct {
	Location            *time.Location
	EnforceOpeningHours bool
}

func DefaultPolicy() Policy {
	return Policy{Location: time.UTC, EnforceOpeningHours: true}
}

type Option func(*service)

func WithNotifier(n Notifier) Option {
	return func(s *service) { s.notifier = n }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *service) { s.events = p }
}

func WithPolicy(p Policy) Option {
	return func(s *service) {
		if p.Location == nil {
			p.Location = time.UTC
		}
		s.policy = p
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *service) { s.log = l }
}

type service struct {
	txm       *db.TxManager
	repo      Repository
	intervals IntervalStore
	halls     HallLookup
	notifier  Notifier
	events    events.Publisher
	policy    Policy
	log       *slog.Logger

	// afterIntervalInsert runs between the interval and booking inserts.
	afterIntervalInsert func(ctx context.Context) error
}

func NewService(txm *db.TxManager, repo Repository, intervals IntervalStore, halls HallLookup, opts ...Option) Service {
	s := &service{
		txm:       txm,
		repo:      repo,
		intervals: intervals,
		halls:     halls,
		events:    events.NopPublisher{},
		policy:    DefaultPolicy(),
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBooking reserves [in.Start, in.End) on the hall for the user. The
// overlap check and both inserts run in one transaction holding the hall's
// advisory lock. The check runs after the lock is granted, so it sees every
// booking committed by the previous holder and two overlapping requests can
// never both commit.
func (s *service) CreateBooking(ctx context.Context, in CreateBookingInput) (*Record, error) {
	r, purpose, notes, err := normalize(&in)
	if err != nil {
		metrics.RecordBooking(outcome(err))
		return nil, err
	}

	var rec *Record
	err = s.txm.WithinLockedTx(ctx, hall.LockKey(in.HallID), func(ctx context.Context, tx *sqlx.Tx) error {
		h, err := s.halls.GetByID(ctx, tx, in.HallID)
		if errors.Is(err, hall.ErrHallNotFound) {
			return fmt.Errorf("%w: hall %s", ErrNotFound, in.HallID)
		}
		if err != nil {
			return err
		}

		if err := s.checkOpeningHours(h, r); err != nil {
			return err
		}

		taken, err := s.intervals.CountActiveBookings(ctx, tx, h.ID, r)
		if err != nil {
			return err
		}
		if taken > 0 {
			return ErrSlotConflict
		}

		iv, err := s.intervals.Create(ctx, tx, h.ID, r, false)
		if err != nil {
			return err
		}

		if s.afterIntervalInsert != nil {
			if err := s.afterIntervalInsert(ctx); err != nil {
				return err
			}
		}

		b, err := s.repo.Create(ctx, tx, iv.ID, in.UserID, purpose, notes)
		if err != nil {
			return err
		}

		rec = &Record{
			Booking:   *b,
			HallID:    h.ID,
			HallName:  h.Name,
			StartTime: iv.StartTime,
			EndTime:   iv.EndTime,
		}
		return nil
	})
	if err != nil {
		metrics.RecordBooking(outcome(err))
		return nil, err
	}

	metrics.RecordBooking("created")
	s.log.Info("booking created", "booking_id", rec.ID, "hall_id", rec.HallID, "user_id", rec.UserID,
		"start", rec.StartTime, "end", rec.EndTime)

	s.afterCommit(ctx, events.TypeBookingCreated, rec, 0)
	return rec, nil
}

func normalize(in *CreateBookingInput) (interval.Range, string, *string, error) {
	in.HallID = strings.TrimSpace(in.HallID)
	if in.HallID == "" {
		return interval.Range{}, "", nil, invalid("hall_id", "hall is required")
	}
	if in.UserID <= 0 {
		return interval.Range{}, "", nil, invalid("user_id", "user is required")
	}

	r := interval.Range{Start: in.Start, End: in.End}
	switch err := r.Validate(); {
	case errors.Is(err, interval.ErrEmptyRange):
		return interval.Range{}, "", nil, invalid("start_time", "start and end time are required")
	case errors.Is(err, interval.ErrInvalidRange):
		return interval.Range{}, "", nil, invalid("end_time", "end time must be after start time")
	}

	purpose := strings.TrimSpace(in.Purpose)
	if purpose == "" {
		return interval.Range{}, "", nil, invalid("purpose", "purpose is required")
	}

	var notes *string
	if n := strings.TrimSpace(in.Notes); n != "" {
		notes = &n
	}

	return r, purpose, notes, nil
}

func (s *service) checkOpeningHours(h *hall.Hall, r interval.Range) error {
	if !s.policy.EnforceOpeningHours {
		return nil
	}

	hours, err := hall.ParseOpeningHours(h.OpeningHours)
	if err != nil {
		return fmt.Errorf("hall %s opening hours %q: %w", h.ID, h.OpeningHours, err)
	}

	if !hours.Contains(r, s.policy.Location) {
		return invalid("start_time", fmt.Sprintf(
			"booking must fall within opening hours %s (%s) on a single day", hours, s.policy.Location))
	}
	return nil
}

// afterCommit announces a committed change. It runs detached from the
// request's cancellation; failures are logged and never undo the change.
func (s *service) afterCommit(ctx context.Context, eventType string, rec *Record, actor int) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
	defer cancel()

	if s.notifier != nil {
		notice := notify.BookingNotice{
			UserID:    rec.UserID,
			BookingID: rec.ID,
			HallName:  rec.HallName,
			Start:     rec.StartTime,
			End:       rec.EndTime,
			Purpose:   rec.Purpose,
		}

		var err error
		if eventType == events.TypeBookingCancelled {
			err = s.notifier.BookingCancelled(ctx, notice)
		} else {
			err = s.notifier.BookingConfirmed(ctx, notice)
		}
		if err != nil {
			s.log.Warn("booking notification not queued", "booking_id", rec.ID, "error", err)
		}
	}

	event := events.New(eventType, rec.HallID, events.BookingPayload{
		BookingID:   rec.ID,
		IntervalID:  rec.IntervalID,
		HallID:      rec.HallID,
		UserID:      rec.UserID,
		Start:       rec.StartTime,
		End:         rec.EndTime,
		CancelledBy: actor,
	})
	if err := s.events.Publish(ctx, event); err != nil {
		metrics.RecordEvent(eventType, "error")
		s.log.Warn("booking event not published", "booking_id", rec.ID, "type", eventType, "error", err)
		return
	}
	metrics.RecordEvent(eventType, "ok")
}

func (s *service) GetBooking(ctx context.Context, id int64) (*Record, error) {
	var rec *Record
	err := s.txm.Run(ctx, func(ctx context.Context, q *sqlx.DB) error {
		var err error
		rec, err = s.repo.GetRecord(ctx, q, id)
		return err
	})
	return rec, err
}

func (s *service) ListBookingsForUser(ctx context.Context, userID int) ([]Record, error) {
	var recs []Record
	err := s.txm.Run(ctx, func(ctx context.Context, q *sqlx.DB) error {
		var err error
		recs, err = s.repo.ListByUser(ctx, q, userID)
		return err
	})
	return recs, err
}

func (s *service) ListBookingsForHall(ctx context.Context, hallID string) ([]Record, error) {
	var recs []Record
	err := s.txm.Run(ctx, func(ctx context.Context, q *sqlx.DB) error {
		if _, err := s.halls.GetByID(ctx, q, hallID); err != nil {
			if errors.Is(err, hall.ErrHallNotFound) {
				return fmt.Errorf("%w: hall %s", ErrNotFound, hallID)
			}
			return err
		}

		var err error
		recs, err = s.repo.ListByHall(ctx, q, hallID)
		return err
	})
	return recs, err
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrSlotConflict):
		return "conflict"
	case errors.Is(err, ErrValidation):
		return "invalid"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	default:
		return db.ErrorType(err)
	}
}
