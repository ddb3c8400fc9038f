package calculator

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/accountant-calendar/internal/calendar"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func mustRange(t *testing.T, start, end time.Time) calendar.DateRange {
	t.Helper()
	r, err := calendar.NewDateRange(start, end)
	require.NoError(t, err)
	return r
}

func mayDayDataset() calendar.Dataset {
	return calendar.Dataset{
		Holidays:  calendar.Holidays{"2025-05-01": "Праздник Весны и Труда"},
		ShortDays: calendar.ShortDays{},
	}
}

func TestCalculateVacation_MayScenario(t *testing.T) {
	r := mustRange(t, day(2025, 5, 1), day(2025, 5, 3))

	salary := 90000.0
	res, err := CalculateVacation(r, salary, mayDayDataset())
	require.NoError(t, err)

	dailyRate := salary / AverageDaysInMonth
	gross := dailyRate * 2

	assert.Equal(t, 3, res.CalendarDays)
	assert.Equal(t, 2, res.VacationDays)
	assert.Equal(t, dailyRate, res.DailyRate)
	assert.InDelta(t, 3071.67, res.DailyRate, 0.01)
	assert.Equal(t, gross, res.Gross)
	assert.InDelta(t, 6143.34, res.Gross, 0.01)
	assert.Equal(t, 799.0, res.NDFL)
	assert.Equal(t, gross-799, res.Net)
	assert.True(t, res.DataAvailable)
}

func TestCalculateVacation_Idempotent(t *testing.T) {
	r := mustRange(t, day(2025, 5, 1), day(2025, 5, 14))
	ds := calendar.NewDataset(calendar.Static(), 2025)

	first, err := CalculateVacation(r, 123456.78, ds)
	require.NoError(t, err)
	second, err := CalculateVacation(r, 123456.78, ds)
	require.NoError(t, err)

	assert.Equal(t, math.Float64bits(first.Gross), math.Float64bits(second.Gross))
	assert.Equal(t, math.Float64bits(first.Net), math.Float64bits(second.Net))
	assert.Equal(t, first, second)
}

func TestCalculateVacation_SingleDay(t *testing.T) {
	d := day(2025, 7, 15)
	salary := 60000.0
	res, err := CalculateVacation(calendar.SingleDay(d), salary, calendar.Dataset{})
	require.NoError(t, err)

	// computed at run time in float64, same as CalculateVacation
	gross := salary / AverageDaysInMonth
	assert.Equal(t, 1, res.CalendarDays)
	assert.Equal(t, 1, res.VacationDays)
	assert.Equal(t, gross, res.Gross)
	assert.Equal(t, math.Round(gross*NDFLRate), res.NDFL)
	assert.Equal(t, gross-res.NDFL, res.Net)
}

func TestCalculateVacation_SingleHoliday(t *testing.T) {
	res, err := CalculateVacation(calendar.SingleDay(day(2025, 5, 1)), 90000, mayDayDataset())
	require.NoError(t, err)

	assert.Equal(t, 1, res.CalendarDays)
	assert.Equal(t, 0, res.VacationDays)
	assert.Zero(t, res.Gross)
	assert.Zero(t, res.NDFL)
	assert.Zero(t, res.Net)
}

func TestCalculateVacation_HolidayExclusion(t *testing.T) {
	r := mustRange(t, day(2024, 12, 25), day(2025, 1, 15))
	ds := calendar.NewDataset(calendar.Static(), 2024, 2025)

	holidays := 0
	r.Each(func(d time.Time) {
		if _, ok := ds.Holidays[d.Format("2006-01-02")]; ok {
			holidays++
		}
	})

	res, err := CalculateVacation(r, 50000, ds)
	require.NoError(t, err)
	assert.Equal(t, 22, res.CalendarDays)
	assert.Equal(t, 10, holidays, "Dec 30-31 and Jan 1-8")
	assert.Equal(t, res.CalendarDays-holidays, res.VacationDays)
}

func TestCalculateVacation_Validation(t *testing.T) {
	r := mustRange(t, day(2025, 5, 1), day(2025, 5, 3))

	for _, salary := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := CalculateVacation(r, salary, calendar.Dataset{})
		require.Error(t, err, "salary %v", salary)
		assert.True(t, errors.Is(err, calendar.ErrValidation))
	}

	reversed := calendar.DateRange{Start: day(2025, 5, 3), End: day(2025, 5, 1)}
	_, err := CalculateVacation(reversed, 90000, calendar.Dataset{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, calendar.ErrValidation))
}

func TestCalculateVacation_YearUnavailable(t *testing.T) {
	ds := calendar.NewDataset(calendar.Static(), 2031)
	r := mustRange(t, day(2031, 1, 1), day(2031, 1, 10))

	res, err := CalculateVacation(r, 90000, ds)
	require.NoError(t, err)
	assert.False(t, res.DataAvailable)
	assert.Equal(t, 10, res.VacationDays)
}

func TestCountWorkdays(t *testing.T) {
	newYear := calendar.Dataset{Holidays: calendar.Holidays{}}
	for d := 1; d <= 8; d++ {
		newYear.Holidays[day(2025, 1, d).Format("2006-01-02")] = "Новогодние каникулы"
	}

	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		ds        calendar.Dataset
		wantWork  int
		wantTotal int
		available bool
	}{
		{"new year block", day(2025, 1, 1), day(2025, 1, 8), newYear, 0, 8, true},
		{"plain week", day(2025, 6, 2), day(2025, 6, 8), calendar.Dataset{}, 5, 7, true},
		{"single Saturday", day(2025, 6, 7), day(2025, 6, 7), calendar.Dataset{}, 0, 1, true},
		{"short day counts", day(2025, 4, 30), day(2025, 4, 30), calendar.NewDataset(calendar.Static(), 2025), 1, 1, true},
		{"missing year", day(2031, 6, 2), day(2031, 6, 8), calendar.NewDataset(calendar.Static(), 2031), 5, 7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CountWorkdays(mustRange(t, tt.start, tt.end), tt.ds)
			require.NoError(t, err)
			assert.Equal(t, tt.wantWork, res.WorkDays)
			assert.Equal(t, tt.wantTotal, res.TotalDays)
			assert.Equal(t, tt.available, res.DataAvailable)
		})
	}
}

func TestCountWorkdays_Reversed(t *testing.T) {
	_, err := CountWorkdays(calendar.DateRange{Start: day(2025, 2, 1), End: day(2025, 1, 1)}, calendar.Dataset{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, calendar.ErrValidation))
	assert.Contains(t, err.Error(), "start date must not be after end date")
}

func TestCountWorkdays_MatchesClassification(t *testing.T) {
	ds := calendar.NewDataset(calendar.Static(), 2024, 2025, 2026)
	rng := rand.New(rand.NewSource(7))
	base := day(2024, 1, 1)

	for i := 0; i < 50; i++ {
		a := base.AddDate(0, 0, rng.Intn(1000))
		b := a.AddDate(0, 0, rng.Intn(60))
		r := mustRange(t, a, b)

		res, err := CountWorkdays(r, ds)
		require.NoError(t, err)

		working := 0
		r.Each(func(d time.Time) {
			if ds.Classify(d, calendar.FiveDay).IsWorking() {
				working++
			}
		})
		assert.Equal(t, r.Days(), res.TotalDays)
		assert.Equal(t, working, res.WorkDays)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"90000", 90000, false},
		{"90 000", 90000, false},
		{"90 000", 90000, false},
		{"90 000,50", 90000.5, false},
		{"90000.5 ₽", 90000.5, false},
		{"  120000 руб. ", 120000, false},
		{"", 0, true},
		{"abc", 0, true},
		{"1,000.50", 0, true},
		{"1,2,3", 0, true},
		{"-5000", 0, true},
		{"0", 0, true},
		{"1e5", 0, true},
		{"NaN", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, calendar.ErrValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
