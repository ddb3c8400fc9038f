// Package session holds the state of one interactive calculator session:
// the active tool, the date selection and the last results.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/username/accountant-calendar/internal/calculator"
	"github.com/username/accountant-calendar/internal/calendar"
	"github.com/username/accountant-calendar/internal/selection"
)

// Tool is the active calculator
type Tool int

const (
	ToolNone Tool = iota
	ToolVacation
	ToolWorkdays
)

func (t Tool) String() string {
	switch t {
	case ToolVacation:
		return "vacation"
	case ToolWorkdays:
		return "workdays"
	default:
		return "none"
	}
}

// ParseTool parses "vacation", "workdays" or "none"
func ParseTool(s string) (Tool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vacation":
		return ToolVacation, nil
	case "workdays":
		return ToolWorkdays, nil
	case "none", "":
		return ToolNone, nil
	}
	return ToolNone, calendar.Invalid("tool", "unknown tool %q", s)
}

// Snapshot is a read-only view of the session for rendering
type Snapshot struct {
	Tool          Tool
	Start         time.Time
	End           *time.Time
	HasSelection  bool
	Salary        float64
	Vacation      *calculator.VacationResult
	Workdays      *calculator.WorkDayResult
	DataAvailable bool
	Err           error
}

// Session is owned by a single UI driver and is not safe for concurrent use
type Session struct {
	provider *calendar.Provider
	logger   *zap.Logger
	selector *selection.Selector

	tool          Tool
	salary        float64
	vacation      *calculator.VacationResult
	workdays      *calculator.WorkDayResult
	dataAvailable bool
	lastErr       error
}

// New creates a session with no active tool
func New(provider *calendar.Provider, logger *zap.Logger) *Session {
	return &Session{
		provider:      provider,
		logger:        logger,
		selector:      selection.NewSelector(),
		dataAvailable: true,
	}
}

// Open activates a tool with an empty selection and no results.
// The entered salary is kept.
func (s *Session) Open(tool Tool) {
	s.logger.Info("Opening tool", zap.Stringer("tool", tool))
	s.tool = tool
	s.resetSelection()
}

// Cancel closes the active tool
func (s *Session) Cancel() {
	s.logger.Info("Closing tool", zap.Stringer("tool", s.tool))
	s.tool = ToolNone
	s.resetSelection()
}

// Pick applies a date pick and, once the range is complete, runs the active
// calculator
func (s *Session) Pick(ctx context.Context, date time.Time) (Snapshot, error) {
	if s.tool == ToolNone {
		err := calendar.Invalid("tool", "no tool is open")
		s.lastErr = err
		return s.Snapshot(), err
	}

	st := s.selector.Pick(date)
	s.logger.Debug("Date picked",
		zap.Stringer("tool", s.tool),
		zap.Time("date", date),
		zap.String("state", fmt.Sprintf("%T", st)))

	s.clearResults()
	if _, ok := s.selector.Range(); ok {
		if err := s.recalculate(ctx); err != nil {
			return s.Snapshot(), err
		}
	}
	return s.Snapshot(), nil
}

// SetSalary parses the average monthly salary and recalculates vacation pay
// when a range is selected
func (s *Session) SetSalary(ctx context.Context, text string) (Snapshot, error) {
	amount, err := calculator.ParseAmount(text)
	if err != nil {
		s.logger.Debug("Rejected salary input", zap.String("input", text), zap.Error(err))
		s.lastErr = err
		return s.Snapshot(), err
	}

	s.salary = amount
	s.lastErr = nil

	if _, ok := s.selector.Range(); ok && s.tool == ToolVacation {
		if err := s.recalculate(ctx); err != nil {
			return s.Snapshot(), err
		}
	}
	return s.Snapshot(), nil
}

// Snapshot returns the current state
func (s *Session) Snapshot() Snapshot {
	start, end, ok := s.selector.Bounds()
	snap := Snapshot{
		Tool:          s.tool,
		Start:         start,
		End:           end,
		HasSelection:  ok,
		Salary:        s.salary,
		DataAvailable: s.dataAvailable,
		Err:           s.lastErr,
	}
	if s.vacation != nil {
		v := *s.vacation
		snap.Vacation = &v
	}
	if s.workdays != nil {
		w := *s.workdays
		snap.Workdays = &w
	}
	return snap
}

func (s *Session) recalculate(ctx context.Context) error {
	r, _ := s.selector.Range()
	ds := s.provider.ForRange(ctx, r)
	s.dataAvailable = ds.Available()

	switch s.tool {
	case ToolWorkdays:
		res, err := calculator.CountWorkdays(r, ds)
		if err != nil {
			s.lastErr = err
			return fmt.Errorf("failed to count workdays: %w", err)
		}
		s.workdays = &res
		s.logger.Info("Workdays counted",
			zap.Stringer("range", r),
			zap.Int("work_days", res.WorkDays),
			zap.Int("total_days", res.TotalDays),
			zap.Bool("data_available", res.DataAvailable))

	case ToolVacation:
		if s.salary <= 0 {
			// waiting for salary input
			return nil
		}
		res, err := calculator.CalculateVacation(r, s.salary, ds)
		if err != nil {
			s.lastErr = err
			return fmt.Errorf("failed to calculate vacation pay: %w", err)
		}
		s.vacation = &res
		s.logger.Info("Vacation pay calculated",
			zap.Stringer("range", r),
			zap.Int("vacation_days", res.VacationDays),
			zap.Float64("gross", res.Gross),
			zap.Float64("ndfl", res.NDFL),
			zap.Bool("data_available", res.DataAvailable))
	}

	s.lastErr = nil
	return nil
}

func (s *Session) resetSelection() {
	s.selector.Reset()
	s.clearResults()
	s.lastErr = nil
}

// clearResults drops everything computed for the previous range
func (s *Session) clearResults() {
	s.vacation = nil
	s.workdays = nil
	s.dataAvailable = true
}
