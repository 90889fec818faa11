package booking

import (
	"time"

	"hallbook/internal/user"
)

type Booking struct {
	ID         int64     `db:"id" json:"id"`
	IntervalID int64     `db:"interval_id" json:"interval_id"`
	UserID     int       `db:"user_id" json:"user_id"`
	Purpose    string    `db:"purpose" json:"purpose"`
	Notes      *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Record is a booking joined with the interval it occupies and its hall.
type Record struct {
	Booking
	HallID    string    `db:"hall_id" json:"hall_id"`
	HallName  string    `db:"hall_name" json:"hall_name"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
}

type CreateBookingInput struct {
	HallID  string
	Start   time.Time
	End     time.Time
	UserID  int
	Purpose string
	Notes   string
}

// Requester is the authenticated identity acting on a booking.
type Requester struct {
	UserID int
	Role   string
}

// CanManage reports whether the requester may view or cancel rec: owners
// and admins may.
func (r Requester) CanManage(rec *Record) bool {
	return r.Role == user.RoleAdmin || (r.UserID > 0 && r.UserID == rec.UserID)
}

type CreateBookingRequest struct {
	HallID    string    `json:"hall_id" validate:"required" example:"hall-1"`
	StartTime time.Time `json:"start_time" validate:"required" example:"2026-10-20T09:00:00Z"`
	EndTime   time.Time `json:"end_time" validate:"required" example:"2026-10-20T10:00:00Z"`
	Purpose   string    `json:"purpose" validate:"required" example:"Team training"`
	Notes     string    `json:"notes" example:"Bring own nets"`
}
