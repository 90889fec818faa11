package interval

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store persists intervals. Its methods take the query runner explicitly so
// the same code works on the pool and inside a caller's transaction.
type Store struct{}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Create(ctx context.Context, q sqlx.QueryerContext, hallID string, r Range, free bool) (*Interval, error) {
	query := `
		INSERT INTO intervals (hall_id, start_time, end_time, is_free)
		VALUES ($1, $2, $3, $4)
		RETURNING id, hall_id, start_time, end_time, is_free, created_at
	`

	var iv Interval
	if err := sqlx.GetContext(ctx, q, &iv, query, hallID, r.Start, r.End, free); err != nil {
		return nil, fmt.Errorf("insert interval: %w", err)
	}

	return &iv, nil
}

func (s *Store) GetByID(ctx context.Context, q sqlx.QueryerContext, id int64) (*Interval, error) {
	query := `
		SELECT id, hall_id, start_time, end_time, is_free, created_at
		FROM intervals
		WHERE id = $1
	`

	var iv Interval
	err := sqlx.GetContext(ctx, q, &iv, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get interval %d: %w", id, err)
	}

	return &iv, nil
}

// RecomputeFree refreshes the free flag of one interval from its bookings
// and returns the new value.
func (s *Store) RecomputeFree(ctx context.Context, q sqlx.QueryerContext, id int64) (bool, error) {
	query := `
		UPDATE intervals
		SET is_free = NOT EXISTS (SELECT 1 FROM bookings WHERE interval_id = $1)
		WHERE id = $1
		RETURNING is_free
	`

	var free bool
	err := sqlx.GetContext(ctx, q, &free, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, ErrNotFound
	}
	if err != nil {
		return false, fmt.Errorf("recompute free flag of interval %d: %w", id, err)
	}

	return free, nil
}

// ListByHall returns the hall's intervals starting at or after from,
// earliest first.
func (s *Store) ListByHall(ctx context.Context, q sqlx.QueryerContext, hallID string, from time.Time) ([]Interval, error) {
	query := `
		SELECT id, hall_id, start_time, end_time, is_free, created_at
		FROM intervals
		WHERE hall_id = $1 AND start_time >= $2
		ORDER BY start_time ASC
	`

	intervals := []Interval{}
	if err := sqlx.SelectContext(ctx, q, &intervals, query, hallID, from); err != nil {
		return nil, fmt.Errorf("list intervals of hall %s: %w", hallID, err)
	}

	return intervals, nil
}

// CountActiveBookings counts bookings on hallID overlapping r.
func (s *Store) CountActiveBookings(ctx context.Context, q sqlx.QueryerContext, hallID string, r Range) (int, error) {
	query, args, err := CountActiveBookingsQuery(hallID, r)
	if err != nil {
		return 0, fmt.Errorf("build overlap query: %w", err)
	}

	var count int
	if err := sqlx.GetContext(ctx, q, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count overlapping bookings: %w", err)
	}

	return count, nil
}
