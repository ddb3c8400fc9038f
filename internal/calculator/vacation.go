package calculator

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/username/accountant-calendar/internal/calendar"
)

const (
	// AverageDaysInMonth is the statutory average number of calendar days
	// in a month used for the daily rate
	AverageDaysInMonth = 29.3

	// NDFLRate is the personal income tax rate withheld from vacation pay
	NDFLRate = 0.13
)

// VacationResult is the outcome of CalculateVacation.
// NDFL is rounded to whole currency units; the other amounts are not.
type VacationResult struct {
	CalendarDays  int
	VacationDays  int
	DailyRate     float64
	Gross         float64
	NDFL          float64
	Net           float64
	DataAvailable bool
}

// CalculateVacation computes vacation pay for r. Public holidays inside the
// range are not paid and do not count as vacation days; weekends do.
func CalculateVacation(r calendar.DateRange, averageMonthlySalary float64, ds calendar.Dataset) (VacationResult, error) {
	if err := r.Validate(); err != nil {
		return VacationResult{}, err
	}
	if err := validateSalary(averageMonthlySalary); err != nil {
		return VacationResult{}, err
	}

	res := VacationResult{DataAvailable: ds.Available()}
	r.Each(func(d time.Time) {
		res.CalendarDays++
		if !ds.Classify(d, calendar.FiveDay).IsHoliday {
			res.VacationDays++
		}
	})

	res.DailyRate = averageMonthlySalary / AverageDaysInMonth
	res.Gross = res.DailyRate * float64(res.VacationDays)
	res.NDFL = roundHalfUp(res.Gross * NDFLRate)
	res.Net = res.Gross - res.NDFL
	return res, nil
}

func validateSalary(salary float64) error {
	switch {
	case math.IsNaN(salary):
		return calendar.Invalid("salary", "must be a number")
	case math.IsInf(salary, 0):
		return calendar.Invalid("salary", "must be finite")
	case salary <= 0:
		return calendar.Invalid("salary", "must be positive, got %v", salary)
	}
	return nil
}

// roundHalfUp rounds a non-negative amount to whole units, halves up
func roundHalfUp(v float64) float64 {
	return math.Round(v)
}

var amountReplacer = strings.NewReplacer(
	" ", "",
	"\u00a0", "",
	"\u202f", "",
	"\t", "",
	"₽", "",
	"руб.", "",
	"руб", "",
)

// ParseAmount parses a currency amount as typed by a user: digit groups may
// be separated by spaces, the decimal separator is a comma or a point and a
// trailing ruble sign is allowed ("90 000", "90 000,50", "90000.5 ₽").
func ParseAmount(text string) (float64, error) {
	s := amountReplacer.Replace(strings.ToLower(strings.TrimSpace(text)))
	if s == "" {
		return 0, calendar.Invalid("salary", "amount is empty")
	}

	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") || strings.Count(s, ",") > 1 {
			return 0, calendar.Invalid("salary", "cannot parse amount %q", text)
		}
		s = strings.Replace(s, ",", ".", 1)
	}

	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return 0, calendar.Invalid("salary", "cannot parse amount %q", text)
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, calendar.Invalid("salary", "cannot parse amount %q", text)
	}
	if err := validateSalary(v); err != nil {
		return 0, err
	}
	return v, nil
}
