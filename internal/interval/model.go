package interval

import (
	"errors"
	"time"
)

var (
	ErrEmptyRange   = errors.New("start and end must be set")
	ErrInvalidRange = errors.New("start must be before end")
	ErrNotFound     = errors.New("interval not found")
)

// Interval is a concrete span of time on one hall. IsFree is a cache of
// "no booking references this interval" and is never used to decide
// availability.
type Interval struct {
	ID        int64     `db:"id" json:"id"`
	HallID    string    `db:"hall_id" json:"hall_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
	IsFree    bool      `db:"is_free" json:"is_free"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

func (i Interval) Range() Range {
	return Range{Start: i.StartTime, End: i.EndTime}
}

// Range is the half-open time range [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Validate rejects unset and degenerate ranges. A zero-length range never
// occupies time, so it is not a bookable range either.
func (r Range) Validate() error {
	if r.Start.IsZero() || r.End.IsZero() {
		return ErrEmptyRange
	}
	if !r.Start.Before(r.End) {
		return ErrInvalidRange
	}
	return nil
}

// Overlaps reports whether r and o share any instant. Ranges that only
// touch (r.End == o.Start) do not overlap.
func (r Range) Overlaps(o Range) bool {
	return r.Start.Before(o.End) && o.Start.Before(r.End)
}

// OverlapsAny reports whether candidate overlaps any of existing.
func OverlapsAny(candidate Range, existing []Range) bool {
	for _, e := range existing {
		if candidate.Overlaps(e) {
			return true
		}
	}
	return false
}
