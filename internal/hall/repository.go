package hall

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hallbook/internal/db"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

const hallColumns = `id, name, description, location, sport_type, capacity, opening_hours, construction_year, is_accessible, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, h *Hall) (*Hall, error) {
	query := `
		INSERT INTO halls (id, name, description, location, sport_type, capacity, opening_hours, construction_year, is_accessible)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + hallColumns

	var created Hall
	err := r.db.GetContext(ctx, &created, query,
		h.ID, h.Name, h.Description, h.Location, h.SportType,
		h.Capacity, h.OpeningHours, h.ConstructionYear, h.IsAccessible,
	)
	if err != nil {
		return nil, mapWriteError(err)
	}

	return &created, nil
}

func (r *repository) Update(ctx context.Context, h *Hall) (*Hall, error) {
	query := `
		UPDATE halls
		SET name = $2, description = $3, location = $4, sport_type = $5, capacity = $6,
			opening_hours = $7, construction_year = $8, is_accessible = $9
		WHERE id = $1
		RETURNING ` + hallColumns

	var updated Hall
	err := r.db.GetContext(ctx, &updated, query,
		h.ID, h.Name, h.Description, h.Location, h.SportType,
		h.Capacity, h.OpeningHours, h.ConstructionYear, h.IsAccessible,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHallNotFound
	}
	if err != nil {
		return nil, mapWriteError(err)
	}

	return &updated, nil
}

func (r *repository) List(ctx context.Context) ([]Hall, error) {
	query := `SELECT ` + hallColumns + ` FROM halls ORDER BY name ASC`

	halls := []Hall{}
	if err := r.db.SelectContext(ctx, &halls, query); err != nil {
		return nil, fmt.Errorf("list halls: %w", err)
	}

	return halls, nil
}

func (r *repository) GetByID(ctx context.Context, q sqlx.QueryerContext, id string) (*Hall, error) {
	query := `SELECT ` + hallColumns + ` FROM halls WHERE id = $1`

	var h Hall
	err := sqlx.GetContext(ctx, q, &h, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHallNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get hall %s: %w", id, err)
	}

	return &h, nil
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	exists, err := db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM halls WHERE id = $1)`, id)
	if err != nil {
		return false, fmt.Errorf("check hall %s: %w", id, err)
	}
	return exists, nil
}

func (r *repository) CountUpcomingBookings(ctx context.Context, q sqlx.QueryerContext, id string, from time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM bookings b
		JOIN intervals i ON i.id = b.interval_id
		WHERE i.hall_id = $1 AND i.start_time >= $2`

	var n int
	if err := sqlx.GetContext(ctx, q, &n, query, id, from.UTC()); err != nil {
		return 0, fmt.Errorf("count upcoming bookings for hall %s: %w", id, err)
	}
	return n, nil
}

func (r *repository) Delete(ctx context.Context, tx sqlx.ExecerContext, id string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM intervals WHERE hall_id = $1`, id); err != nil {
		return fmt.Errorf("delete intervals of hall %s: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM halls WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete hall %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrHallNotFound
	}
	return nil
}

func mapWriteError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return ErrHallExists
	}
	return fmt.Errorf("write hall: %w", err)
}
