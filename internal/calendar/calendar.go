package calendar

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/username/accountant-calendar/pkg/dateutil"
)

// ErrYearNotFound is returned by sources that have no data for the requested year
var ErrYearNotFound = errors.New("calendar data for year not found")

// DayType represents the type of day
type DayType int

const (
	DayTypeWorkday DayType = iota + 1
	DayTypeWeekend
	DayTypeHoliday
	DayTypeShortened
)

func (t DayType) String() string {
	switch t {
	case DayTypeWorkday:
		return "workday"
	case DayTypeWeekend:
		return "weekend"
	case DayTypeHoliday:
		return "holiday"
	case DayTypeShortened:
		return "shortened"
	default:
		return "unknown"
	}
}

// Holidays maps ISO date (YYYY-MM-DD) to holiday name.
// A present key means a non-working holiday on that date.
type Holidays map[string]string

// ShortDays maps ISO date (YYYY-MM-DD) to a label.
// A present key means a working day with reduced (7h) hours.
type ShortDays map[string]string

// YearData holds the production calendar of one year
type YearData struct {
	Holidays  Holidays
	ShortDays ShortDays
}

// StaticData is production calendar reference data keyed by year
type StaticData map[int]YearData

// Source provides production calendar data for a year
type Source interface {
	// Year returns holidays and short days of the year.
	// Errors wrap ErrYearNotFound when the source has no data for the year.
	Year(ctx context.Context, year int) (YearData, error)
}

// Dataset is the holiday and short day lookup consumed by calculators.
// It may cover several years; Missing lists requested years whose data
// was unavailable and that were treated as having no holidays.
type Dataset struct {
	Holidays  Holidays
	ShortDays ShortDays
	Missing   []int
}

// NewDataset builds a dataset from per-year data. Years absent from data are
// recorded as missing.
func NewDataset(data StaticData, years ...int) Dataset {
	ds := Dataset{
		Holidays:  make(Holidays),
		ShortDays: make(ShortDays),
	}
	for _, year := range years {
		yd, ok := data[year]
		if !ok {
			ds.Missing = append(ds.Missing, year)
			continue
		}
		ds.merge(yd)
	}
	sort.Ints(ds.Missing)
	return ds
}

// Available reports whether data was present for every requested year
func (ds Dataset) Available() bool {
	return len(ds.Missing) == 0
}

// Classify classifies the date against the dataset
func (ds Dataset) Classify(date time.Time, mode WeekMode) Classification {
	return Classify(date, ds.Holidays, ds.ShortDays, mode)
}

func (ds *Dataset) merge(yd YearData) {
	if ds.Holidays == nil {
		ds.Holidays = make(Holidays)
	}
	if ds.ShortDays == nil {
		ds.ShortDays = make(ShortDays)
	}
	for k, v := range yd.Holidays {
		ds.Holidays[k] = v
	}
	for k, v := range yd.ShortDays {
		ds.ShortDays[k] = v
	}
}

func yearsOf(r DateRange) []int {
	years := make([]int, 0, r.End.Year()-r.Start.Year()+1)
	for y := r.Start.Year(); y <= r.End.Year(); y++ {
		years = append(years, y)
	}
	return years
}

func newYearData() YearData {
	return YearData{
		Holidays:  make(Holidays),
		ShortDays: make(ShortDays),
	}
}

func isoKey(date time.Time) string {
	return dateutil.ISODate(date)
}
