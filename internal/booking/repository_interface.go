package booking

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Repository methods run on the query runner they are given, so the
// coordinator can compose them inside one transaction.
type Repository interface {
	Create(ctx context.Context, q sqlx.QueryerContext, intervalID int64, userID int, purpose string, notes *string) (*Booking, error)
	GetRecord(ctx context.Context, q sqlx.QueryerContext, id int64) (*Record, error)
	GetForUpdate(ctx context.Context, q sqlx.QueryerContext, id int64) (*Record, error)
	Delete(ctx context.Context, q sqlx.ExecerContext, id int64) error
	ListByUser(ctx context.Context, q sqlx.QueryerContext, userID int) ([]Record, error)
	ListByHall(ctx context.Context, q sqlx.QueryerContext, hallID string) ([]Record, error)
}
