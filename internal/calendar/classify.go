package calendar

import (
	"fmt"
	"strings"
	"time"
)

// WeekMode selects which weekdays are regular days off
type WeekMode int

const (
	// FiveDay treats Saturday and Sunday as weekend
	FiveDay WeekMode = iota
	// SixDay treats only Sunday as weekend
	SixDay
)

func (m WeekMode) String() string {
	if m == SixDay {
		return "six-day"
	}
	return "five-day"
}

// ParseWeekMode parses "five-day", "5-day", "5", "six-day", "6-day" or "6"
func ParseWeekMode(s string) (WeekMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "five-day", "5-day", "5", "":
		return FiveDay, nil
	case "six-day", "6-day", "6":
		return SixDay, nil
	}
	return FiveDay, Invalid("week_mode", "must be 'five-day' or 'six-day', got %q", s)
}

// Classification is the result of classifying a single date
type Classification struct {
	Date          time.Time
	IsWeekend     bool
	IsHoliday     bool
	IsShortDay    bool
	HolidayName   string
	ShortDayLabel string
}

// Classify classifies date against the holiday and short day sets.
// Nil maps are treated as empty.
func Classify(date time.Time, holidays Holidays, shortDays ShortDays, mode WeekMode) Classification {
	key := isoKey(date)
	holidayName, isHoliday := holidays[key]
	shortLabel, isShort := shortDays[key]

	return Classification{
		Date:          date,
		IsWeekend:     isWeekend(date.Weekday(), mode),
		IsHoliday:     isHoliday,
		IsShortDay:    isShort,
		HolidayName:   holidayName,
		ShortDayLabel: shortLabel,
	}
}

// IsWorking reports whether the day is a working day.
// Holidays take precedence over short day marks.
func (c Classification) IsWorking() bool {
	return !c.IsWeekend && !c.IsHoliday
}

// Type returns the day type with holiday > weekend > shortened > workday precedence
func (c Classification) Type() DayType {
	switch {
	case c.IsHoliday:
		return DayTypeHoliday
	case c.IsWeekend:
		return DayTypeWeekend
	case c.IsShortDay:
		return DayTypeShortened
	default:
		return DayTypeWorkday
	}
}

// WorkingHours returns the hours of a 40-hour week for the day: 0, 7 or 8
func (c Classification) WorkingHours() int {
	if !c.IsWorking() {
		return 0
	}
	if c.IsShortDay {
		return 7
	}
	return 8
}

// Note returns the holiday name or short day label, if any
func (c Classification) Note() string {
	if c.IsHoliday {
		return c.HolidayName
	}
	if c.IsShortDay {
		return c.ShortDayLabel
	}
	return ""
}

func (c Classification) String() string {
	s := fmt.Sprintf("%s %s", isoKey(c.Date), c.Type())
	if note := c.Note(); note != "" {
		s += " (" + note + ")"
	}
	return s
}

func isWeekend(wd time.Weekday, mode WeekMode) bool {
	if mode == SixDay {
		return wd == time.Sunday
	}
	return wd == time.Saturday || wd == time.Sunday
}
