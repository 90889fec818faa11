package hall

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hallbook/internal/api"
	"hallbook/internal/db"
	"hallbook/internal/interval"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const minConstructionYear = 1900

var (
	ErrHallNotFound = errors.New("hall not found")
	ErrHallExists   = errors.New("a hall with this name already exists")
	ErrInvalidHall  = errors.New("invalid hall")

	ErrHallHasBookings = errors.New("hall has upcoming bookings")
)

// LockKey names the advisory lock serializing every write that must see a
// consistent set of the hall's bookings.
func LockKey(hallID string) string {
	return "hall:" + hallID
}

type Service interface {
	CreateHall(ctx context.Context, req HallRequest) (*Hall, error)
	UpdateHall(ctx context.Context, id string, req HallRequest) (*Hall, error)
	ListHalls(ctx context.Context) ([]Hall, error)
	GetHall(ctx context.Context, id string) (*Detail, error)
	DeleteHall(ctx context.Context, id string) error
}

// IntervalLister is the part of the interval store the catalog reads.
type IntervalLister interface {
	ListByHall(ctx context.Context, q sqlx.QueryerContext, hallID string, from time.Time) ([]interval.Interval, error)
}

type service struct {
	txm       *db.TxManager
	repo      Repository
	intervals IntervalLister
	now       func() time.Time
}

func NewService(txm *db.TxManager, repo Repository, intervals IntervalLister) Service {
	return &service{
		txm:       txm,
		repo:      repo,
		intervals: intervals,
		now:       time.Now,
	}
}

func (s *service) CreateHall(ctx context.Context, req HallRequest) (*Hall, error) {
	h, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}

	h.ID = strings.TrimSpace(req.ID)
	if h.ID == "" {
		h.ID = "hall-" + uuid.NewString()
	}

	var created *Hall
	err = s.txm.Run(ctx, func(ctx context.Context, _ *sqlx.DB) error {
		created, err = s.repo.Create(ctx, h)
		return err
	})
	return created, err
}

func (s *service) UpdateHall(ctx context.Context, id string, req HallRequest) (*Hall, error) {
	h, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	h.ID = id

	var updated *Hall
	err = s.txm.Run(ctx, func(ctx context.Context, _ *sqlx.DB) error {
		updated, err = s.repo.Update(ctx, h)
		return err
	})
	return updated, err
}

func (s *service) ListHalls(ctx context.Context) ([]Hall, error) {
	var halls []Hall
	err := s.txm.Run(ctx, func(ctx context.Context, _ *sqlx.DB) error {
		var err error
		halls, err = s.repo.List(ctx)
		return err
	})
	return halls, err
}

func (s *service) GetHall(ctx context.Context, id string) (*Detail, error) {
	var detail *Detail
	err := s.txm.Run(ctx, func(ctx context.Context, q *sqlx.DB) error {
		h, err := s.repo.GetByID(ctx, q, id)
		if err != nil {
			return err
		}

		upcoming, err := s.intervals.ListByHall(ctx, q, id, s.now())
		if err != nil {
			return err
		}

		detail = &Detail{Hall: *h, Intervals: upcoming}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, iv := range detail.Intervals {
		if !iv.IsFree {
			detail.IsReserved = true
			break
		}
	}

	return detail, nil
}

// DeleteHall removes the hall with all its intervals. It refuses while any
// booking starts now or later. The check and the delete hold the hall lock
// booking creation takes, so no booking can slip in between them.
func (s *service) DeleteHall(ctx context.Context, id string) error {
	return s.txm.WithinLockedTx(ctx, LockKey(id), func(ctx context.Context, tx *sqlx.Tx) error {
		if _, err := s.repo.GetByID(ctx, tx, id); err != nil {
			return err
		}

		n, err := s.repo.CountUpcomingBookings(ctx, tx, id, s.now())
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: %d", ErrHallHasBookings, n)
		}

		return s.repo.Delete(ctx, tx, id)
	})
}

func (s *service) fromRequest(req HallRequest) (*Hall, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	req.SportType = strings.TrimSpace(req.SportType)

	if errs := api.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidHall, api.JoinMessages(errs))
	}

	if year := s.now().Year(); req.ConstructionYear < minConstructionYear || req.ConstructionYear > year {
		return nil, fmt.Errorf("%w: construction_year must be between %d and %d", ErrInvalidHall, minConstructionYear, year)
	}

	hours, err := ParseOpeningHours(req.OpeningHours)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidHall, err)
	}

	accessible := true
	if req.IsAccessible != nil {
		accessible = *req.IsAccessible
	}

	return &Hall{
		Name:             req.Name,
		Description:      strings.TrimSpace(req.Description),
		Location:         req.Location,
		SportType:        req.SportType,
		Capacity:         req.Capacity,
		OpeningHours:     hours.String(),
		ConstructionYear: req.ConstructionYear,
		IsAccessible:     accessible,
	}, nil
}
