package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const foreignKeyViolation = "23503"

const selectRecord = `
	SELECT
		b.id,
		b.interval_id,
		b.user_id,
		b.purpose,
		b.notes,
		b.created_at,
		i.hall_id,
		h.name AS hall_name,
		i.start_time,
		i.end_time
	FROM bookings b
	JOIN intervals i ON i.id = b.interval_id
	JOIN halls h ON h.id = i.hall_id
`

type repository struct{}

func NewRepository() Repository {
	return &repository{}
}

func (r *repository) Create(ctx context.Context, q sqlx.QueryerContext, intervalID int64, userID int, purpose string, notes *string) (*Booking, error) {
	query := `
		INSERT INTO bookings (interval_id, user_id, purpose, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, interval_id, user_id, purpose, notes, created_at
	`

	var b Booking
	err := sqlx.GetContext(ctx, q, &b, query, intervalID, userID, purpose, notes)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == foreignKeyViolation && pqErr.Constraint == "bookings_user_id_fkey" {
			return nil, invalid("user_id", "unknown user")
		}
		return nil, fmt.Errorf("insert booking: %w", err)
	}

	return &b, nil
}

func (r *repository) GetRecord(ctx context.Context, q sqlx.QueryerContext, id int64) (*Record, error) {
	return r.getRecord(ctx, q, selectRecord+`WHERE b.id = $1`, id)
}

// GetForUpdate locks the booking row until the surrounding transaction ends.
func (r *repository) GetForUpdate(ctx context.Context, q sqlx.QueryerContext, id int64) (*Record, error) {
	return r.getRecord(ctx, q, selectRecord+`WHERE b.id = $1 FOR UPDATE OF b`, id)
}

func (r *repository) getRecord(ctx context.Context, q sqlx.QueryerContext, query string, id int64) (*Record, error) {
	var rec Record
	err := sqlx.GetContext(ctx, q, &rec, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: booking %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get booking %d: %w", id, err)
	}

	return &rec, nil
}

func (r *repository) Delete(ctx context.Context, q sqlx.ExecerContext, id int64) error {
	result, err := q.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete booking %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: booking %d", ErrNotFound, id)
	}

	return nil
}

func (r *repository) ListByUser(ctx context.Context, q sqlx.QueryerContext, userID int) ([]Record, error) {
	query := selectRecord + `
		WHERE b.user_id = $1
		ORDER BY i.start_time DESC, b.id DESC
	`

	records := []Record{}
	if err := sqlx.SelectContext(ctx, q, &records, query, userID); err != nil {
		return nil, fmt.Errorf("list bookings of user %d: %w", userID, err)
	}

	return records, nil
}

func (r *repository) ListByHall(ctx context.Context, q sqlx.QueryerContext, hallID string) ([]Record, error) {
	query := selectRecord + `
		WHERE i.hall_id = $1
		ORDER BY i.start_time DESC, b.id DESC
	`

	records := []Record{}
	if err := sqlx.SelectContext(ctx, q, &records, query, hallID); err != nil {
		return nil, fmt.Errorf("list bookings of hall %s: %w", hallID, err)
	}

	return records, nil
}
