package interval

import (
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // dialect registration
	"github.com/doug-martin/goqu/v9/exp"
)

const (
	dialectPostgres = "postgres"
	tableIntervals  = "intervals"
	tableBookings   = "bookings"
	colHallID       = "intervals.hall_id"
	colStartTime    = "intervals.start_time"
	colEndTime      = "intervals.end_time"
	colIntervalID   = "intervals.id"
	colBookingIvID  = "bookings.interval_id"
	aliasCount      = "count"
)

// OverlapCondition is the SQL form of Range.Overlaps, scoped to one hall:
// an interval [s, e) overlaps r when s < r.End and r.Start < e.
// Every query that asks "is this range taken" must be built from it.
func OverlapCondition(hallID string, r Range) exp.Expression {
	return goqu.And(
		goqu.I(colHallID).Eq(hallID),
		goqu.I(colStartTime).Lt(r.End),
		goqu.I(colEndTime).Gt(r.Start),
	)
}

// CountActiveBookingsQuery counts bookings on hallID whose interval
// overlaps r. Bookings are deleted on cancellation, so every row counts.
func CountActiveBookingsQuery(hallID string, r Range) (string, []interface{}, error) {
	return goqu.Dialect(dialectPostgres).
		From(tableBookings).
		Join(goqu.T(tableIntervals), goqu.On(goqu.I(colBookingIvID).Eq(goqu.I(colIntervalID)))).
		Select(goqu.COUNT(goqu.Star()).As(aliasCount)).
		Where(OverlapCondition(hallID, r)).
		Prepared(true).
		ToSQL()
}
