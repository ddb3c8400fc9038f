package calendar

import (
	"time"

	"github.com/username/accountant-calendar/pkg/dateutil"
)

// DateRange is an inclusive range of calendar dates normalized to local midnight
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange returns the range [start, end]. It rejects start after end.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: dateutil.LocalDay(start), End: dateutil.LocalDay(end)}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// SingleDay returns the range consisting of one date
func SingleDay(date time.Time) DateRange {
	d := dateutil.LocalDay(date)
	return DateRange{Start: d, End: d}
}

// Validate checks the start <= end invariant
func (r DateRange) Validate() error {
	if dateutil.LocalDay(r.Start).After(dateutil.LocalDay(r.End)) {
		return Invalid("range", "start date must not be after end date (%s > %s)",
			isoKey(r.Start), isoKey(r.End))
	}
	return nil
}

// Days returns the number of dates in the range
func (r DateRange) Days() int {
	return dateutil.DaysBetween(r.Start, r.End)
}

// Contains reports whether the calendar date of t is inside the range
func (r DateRange) Contains(t time.Time) bool {
	d := dateutil.LocalDay(t)
	return !d.Before(dateutil.LocalDay(r.Start)) && !d.After(dateutil.LocalDay(r.End))
}

// Each calls fn for every date of the range in order
func (r DateRange) Each(fn func(date time.Time)) {
	end := dateutil.LocalDay(r.End)
	for d := dateutil.LocalDay(r.Start); !d.After(end); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

func (r DateRange) String() string {
	return isoKey(r.Start) + ".." + isoKey(r.End)
}
