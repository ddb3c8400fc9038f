package calendar

import (
	"sort"
	"time"

	"github.com/username/accountant-calendar/pkg/dateutil"
)

// Priority of a tax deadline
type Priority string

const (
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// TaxDeadline is a reporting or payment deadline shown on the calendar
type TaxDeadline struct {
	Date     string
	Title    string
	Type     string
	Priority Priority
}

var taxDeadlines = map[string]TaxDeadline{
	"2025-01-27": {Title: "Страховые взносы за декабрь 2024", Type: "insurance", Priority: PriorityHigh},
	"2025-03-25": {Title: "Декларация по налогу на прибыль за 2024", Type: "profit", Priority: PriorityCritical},
	"2025-04-28": {Title: "Декларация по УСН за 2024 (Организации)", Type: "usn", Priority: PriorityCritical},
}

// DeadlineOn returns the tax deadline on the date, if any
func DeadlineOn(date time.Time) (TaxDeadline, bool) {
	key := isoKey(date)
	d, ok := taxDeadlines[key]
	if !ok {
		return TaxDeadline{}, false
	}
	d.Date = key
	return d, true
}

// TaxDeadlines returns the known deadlines inside the range ordered by date
func TaxDeadlines(r DateRange) []TaxDeadline {
	var out []TaxDeadline
	for key, d := range taxDeadlines {
		date, err := time.ParseInLocation(dateutil.ISOLayout, key, time.Local)
		if err != nil || !r.Contains(date) {
			continue
		}
		d.Date = key
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
