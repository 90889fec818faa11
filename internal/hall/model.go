package hall

import (
	"time"

	"hallbook/internal/interval"
)

type Hall struct {
	ID               string    `db:"id" json:"id"`
	Name             string    `db:"name" json:"name"`
	Description      string    `db:"description" json:"description"`
	Location         string    `db:"location" json:"location"`
	SportType        string    `db:"sport_type" json:"sport_type"`
	Capacity         int       `db:"capacity" json:"capacity"`
	OpeningHours     string    `db:"opening_hours" json:"opening_hours" example:"08:00-22:00"`
	ConstructionYear int       `db:"construction_year" json:"construction_year"`
	IsAccessible     bool      `db:"is_accessible" json:"is_accessible"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// Detail is a hall together with its upcoming intervals. IsReserved is set
// when any of those intervals carries a booking.
type Detail struct {
	Hall
	Intervals  []interval.Interval `json:"intervals"`
	IsReserved bool                `json:"is_reserved"`
}

// HallRequest is the payload of both create and update. ID is only read on
// create; an empty ID gets a generated one.
type HallRequest struct {
	ID               string `json:"id" validate:"omitempty,max=64"`
	Name             string `json:"name" validate:"required,max=200"`
	Description      string `json:"description"`
	Location         string `json:"location" validate:"required"`
	SportType        string `json:"sport_type" validate:"required"`
	Capacity         int    `json:"capacity" validate:"required,gte=1"`
	OpeningHours     string `json:"opening_hours" validate:"required" example:"08:00-22:00"`
	ConstructionYear int    `json:"construction_year" validate:"required,gte=1900"`
	IsAccessible     *bool  `json:"is_accessible"`
}
