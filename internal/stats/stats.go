// Package stats aggregates production calendar statistics and working-hour
// norms over months, quarters and years.
package stats

import (
	"math"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/username/accountant-calendar/internal/calendar"
	"github.com/username/accountant-calendar/pkg/dateutil"
)

// Hours per working day for each weekly norm. The same values apply in
// five-day and six-day mode.
const (
	Hours40Full  = 8.0
	Hours40Short = 7.0
	Hours36Full  = 7.2
	Hours36Short = 6.4
	Hours24Full  = 4.8
	Hours24Short = 4.3
)

// PeriodStats holds day counts and working-hour norms for a period.
// Holidays counts every non-working day, weekends included.
type PeriodStats struct {
	CalendarDays  int
	WorkDays      int
	Holidays      int
	ShortDays     int
	Hours40       float64
	Hours36       float64
	Hours24       float64
	DataAvailable bool
}

// Aggregate computes statistics for months startMonth..endMonth of year
func Aggregate(year int, startMonth, endMonth time.Month, ds calendar.Dataset, mode calendar.WeekMode) (PeriodStats, error) {
	if err := validateMonth(startMonth); err != nil {
		return PeriodStats{}, err
	}
	if err := validateMonth(endMonth); err != nil {
		return PeriodStats{}, err
	}
	if startMonth > endMonth {
		return PeriodStats{}, calendar.Invalid("month", "start month %d is after end month %d", startMonth, endMonth)
	}

	start := time.Date(year, startMonth, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(year, endMonth, dateutil.DaysInMonth(year, endMonth), 0, 0, 0, 0, time.Local)
	r := calendar.DateRange{Start: start, End: end}

	ps := PeriodStats{DataAvailable: ds.Available()}
	r.Each(func(d time.Time) {
		ps.CalendarDays++

		c := ds.Classify(d, mode)
		if !c.IsWorking() {
			ps.Holidays++
			return
		}

		ps.WorkDays++
		if c.IsShortDay {
			ps.ShortDays++
			ps.Hours40 += Hours40Short
			ps.Hours36 += Hours36Short
			ps.Hours24 += Hours24Short
			return
		}
		ps.Hours40 += Hours40Full
		ps.Hours36 += Hours36Full
		ps.Hours24 += Hours24Full
	})

	ps.Hours36 = roundTenth(ps.Hours36)
	ps.Hours24 = roundTenth(ps.Hours24)
	return ps, nil
}

// Month returns statistics for a single month
func Month(year int, month time.Month, ds calendar.Dataset, mode calendar.WeekMode) (PeriodStats, error) {
	return Aggregate(year, month, month, ds, mode)
}

// Quarter returns statistics for quarter q (1-4)
func Quarter(year, q int, ds calendar.Dataset, mode calendar.WeekMode) (PeriodStats, error) {
	if q < 1 || q > 4 {
		return PeriodStats{}, calendar.Invalid("quarter", "must be between 1 and 4, got %d", q)
	}
	first := time.Month(3*(q-1) + 1)
	return Aggregate(year, first, first+2, ds, mode)
}

// Year returns statistics for the whole year
func Year(year int, ds calendar.Dataset, mode calendar.WeekMode) (PeriodStats, error) {
	return Aggregate(year, time.January, time.December, ds, mode)
}

// YearBreakdown is the statistics of a year with its quarters and months
type YearBreakdown struct {
	Year     int
	Mode     calendar.WeekMode
	Total    PeriodStats
	Quarters [4]PeriodStats
	Months   [12]PeriodStats
}

// Breakdown computes the year, quarter and month statistics concurrently.
// ds must not be modified while Breakdown runs.
func Breakdown(year int, ds calendar.Dataset, mode calendar.WeekMode) YearBreakdown {
	b := YearBreakdown{Year: year, Mode: mode}

	// Arguments are always in range, so the errors are ignored.
	var wg conc.WaitGroup
	wg.Go(func() {
		b.Total, _ = Year(year, ds, mode)
	})
	for i := 0; i < 4; i++ {
		i := i
		wg.Go(func() {
			b.Quarters[i], _ = Quarter(year, i+1, ds, mode)
		})
	}
	for i := 0; i < 12; i++ {
		i := i
		wg.Go(func() {
			b.Months[i], _ = Month(year, time.Month(i+1), ds, mode)
		})
	}
	wg.Wait()

	return b
}

func validateMonth(m time.Month) error {
	if m < time.January || m > time.December {
		return calendar.Invalid("month", "must be between 1 and 12, got %d", m)
	}
	return nil
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
