// Package calculator counts working days and computes vacation pay
// over an inclusive date range.
package calculator

import (
	"time"

	"github.com/username/accountant-calendar/internal/calendar"
)

// WorkDayResult is the outcome of CountWorkdays
type WorkDayResult struct {
	WorkDays      int
	TotalDays     int
	DataAvailable bool
}

// CountWorkdays counts all dates and working dates (five-day week) in r
func CountWorkdays(r calendar.DateRange, ds calendar.Dataset) (WorkDayResult, error) {
	if err := r.Validate(); err != nil {
		return WorkDayResult{}, err
	}

	res := WorkDayResult{DataAvailable: ds.Available()}
	r.Each(func(d time.Time) {
		res.TotalDays++
		if ds.Classify(d, calendar.FiveDay).IsWorking() {
			res.WorkDays++
		}
	})
	return res, nil
}
