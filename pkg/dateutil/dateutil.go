package dateutil

import (
	"fmt"
	"strings"
	"time"
)

// ISOLayout is the key format used by holiday and short day datasets
const ISOLayout = "2006-01-02"

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// LocalDay returns midnight in the local time zone for the calendar date of the given time
func LocalDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.Local)
}

// ISODate formats the calendar date as YYYY-MM-DD, ignoring the time of day
func ISODate(date time.Time) string {
	return date.Format(ISOLayout)
}

// IsSameDay returns true if two dates are on the same day
func IsSameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// DaysInMonth returns the number of days in the month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaysBetween returns the number of calendar days in the inclusive range [from, to].
// It returns 0 when to is before from.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	if t.Before(f) {
		return 0
	}
	return int(t.Sub(f).Hours()/24) + 1
}

var dateFormats = []string{
	"2006-01-02",
	"02.01.2006",
	"2.1.2006",
	"02/01/2006",
	"2006-01-02T15:04:05",
}

// ParseDate parses free-text date input in ISO (YYYY-MM-DD) or Russian (DD.MM.YYYY)
// formats. The result is local midnight of the parsed calendar date.
func ParseDate(dateStr string) (time.Time, error) {
	s := strings.TrimSpace(dateStr)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	for _, format := range dateFormats {
		if t, err := time.ParseInLocation(format, s, time.Local); err == nil {
			return StartOfDay(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q, expected YYYY-MM-DD or DD.MM.YYYY", dateStr)
}

// Today returns today's date (start of day)
func Today() time.Time {
	return StartOfDay(time.Now())
}
