// Package selection implements two-click date range selection.
//
// A range is built from consecutive picks: the first pick chooses the start,
// the second completes the range (earlier date first), and the next pick
// starts over. Reset returns to the empty state at any time.
package selection

import (
	"time"

	"github.com/username/accountant-calendar/internal/calendar"
	"github.com/username/accountant-calendar/pkg/dateutil"
)

// State is one of Empty, StartChosen or RangeComplete
type State interface {
	isState()
}

// Empty is the initial state
type Empty struct{}

// StartChosen holds the first pick
type StartChosen struct {
	Start time.Time
}

// RangeComplete holds a complete range with Start <= End
type RangeComplete struct {
	Range calendar.DateRange
}

func (Empty) isState()         {}
func (StartChosen) isState()   {}
func (RangeComplete) isState() {}

// Next returns the state after picking date d in state s
func Next(s State, d time.Time) State {
	d = dateutil.LocalDay(d)

	switch st := s.(type) {
	case StartChosen:
		start, end := st.Start, d
		if end.Before(start) {
			start, end = end, start
		}
		return RangeComplete{Range: calendar.DateRange{Start: start, End: end}}
	default:
		// Empty, RangeComplete and nil all begin a new range
		return StartChosen{Start: d}
	}
}

// Selector owns the selection state of one interactive session
type Selector struct {
	state State
}

// NewSelector returns a selector in the Empty state
func NewSelector() *Selector {
	return &Selector{state: Empty{}}
}

// Pick applies a user pick and returns the new state
func (s *Selector) Pick(d time.Time) State {
	s.state = Next(s.State(), d)
	return s.state
}

// Reset returns to Empty
func (s *Selector) Reset() {
	s.state = Empty{}
}

// State returns the current state
func (s *Selector) State() State {
	if s.state == nil {
		return Empty{}
	}
	return s.state
}

// Bounds reports the current picks for range highlighting.
// ok is false in Empty; end is nil until the range is complete.
func (s *Selector) Bounds() (start time.Time, end *time.Time, ok bool) {
	switch st := s.State().(type) {
	case StartChosen:
		return st.Start, nil, true
	case RangeComplete:
		e := st.Range.End
		return st.Range.Start, &e, true
	}
	return time.Time{}, nil, false
}

// Range returns the completed range
func (s *Selector) Range() (calendar.DateRange, bool) {
	if st, ok := s.State().(RangeComplete); ok {
		return st.Range, true
	}
	return calendar.DateRange{}, false
}

// Contains reports whether date is highlighted: the chosen start, or any date
// of a completed range
func (s *Selector) Contains(date time.Time) bool {
	switch st := s.State().(type) {
	case StartChosen:
		return dateutil.IsSameDay(st.Start, dateutil.LocalDay(date))
	case RangeComplete:
		return st.Range.Contains(date)
	}
	return false
}
