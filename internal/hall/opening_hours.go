package hall

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"hallbook/internal/interval"
)

var ErrInvalidOpeningHours = errors.New(`opening hours must look like "HH:MM-HH:MM" with open before close`)

// OpeningHours is a daily window, stored as minutes after local midnight.
type OpeningHours struct {
	Open  int
	Close int
}

func ParseOpeningHours(s string) (OpeningHours, error) {
	open, closing, ok := strings.Cut(strings.TrimSpace(s), "-")
	if !ok {
		return OpeningHours{}, ErrInvalidOpeningHours
	}

	o, err := ParseClock(open)
	if err != nil {
		return OpeningHours{}, ErrInvalidOpeningHours
	}
	c, err := ParseClock(closing)
	if err != nil {
		return OpeningHours{}, ErrInvalidOpeningHours
	}
	if o >= c {
		return OpeningHours{}, ErrInvalidOpeningHours
	}

	return OpeningHours{Open: o, Close: c}, nil
}

// ParseClock parses "HH:MM" into minutes after midnight.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}

	return h*60 + m, nil
}

func (o OpeningHours) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", o.Open/60, o.Open%60, o.Close/60, o.Close%60)
}

// Contains reports whether r lies on a single local day in loc and inside
// the window of that day.
func (o OpeningHours) Contains(r interval.Range, loc *time.Location) bool {
	start := r.Start.In(loc)
	end := r.End.In(loc)

	y, m, d := start.Date()
	opens := time.Date(y, m, d, o.Open/60, o.Open%60, 0, 0, loc)
	closes := time.Date(y, m, d, o.Close/60, o.Close%60, 0, 0, loc)

	return !start.Before(opens) && !end.After(closes)
}
