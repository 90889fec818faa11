package hall

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, h *Hall) (*Hall, error)
	Update(ctx context.Context, h *Hall) (*Hall, error)
	List(ctx context.Context) ([]Hall, error)
	// GetByID runs on q so callers can read the hall inside their transaction.
	GetByID(ctx context.Context, q sqlx.QueryerContext, id string) (*Hall, error)
	Exists(ctx context.Context, id string) (bool, error)
	CountUpcomingBookings(ctx context.Context, q sqlx.QueryerContext, id string, from time.Time) (int, error)
	// Delete removes the hall's intervals, their bookings, and the hall.
	Delete(ctx context.Context, tx sqlx.ExecerContext, id string) error
}
