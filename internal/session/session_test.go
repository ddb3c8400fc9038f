package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/username/accountant-calendar/internal/calculator"
	"github.com/username/accountant-calendar/internal/calendar"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func newSession(t *testing.T) *Session {
	logger := zaptest.NewLogger(t)
	return New(calendar.NewProvider(calendar.NewStaticSource(nil), logger), logger)
}

func TestSession_Workdays(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	s.Open(ToolWorkdays)

	snap, err := s.Pick(ctx, day(2025, 1, 15))
	require.NoError(t, err)
	assert.True(t, snap.HasSelection)
	assert.Nil(t, snap.End)
	assert.Nil(t, snap.Workdays)

	snap, err = s.Pick(ctx, day(2025, 1, 1))
	require.NoError(t, err)
	require.NotNil(t, snap.End)
	assert.Equal(t, day(2025, 1, 1), snap.Start)
	assert.Equal(t, day(2025, 1, 15), *snap.End)
	require.NotNil(t, snap.Workdays)
	assert.Equal(t, 15, snap.Workdays.TotalDays)
	assert.Equal(t, 5, snap.Workdays.WorkDays, "Jan 9-10 and 13-15")
	assert.True(t, snap.DataAvailable)
	assert.Nil(t, snap.Vacation)

	// a third pick starts a new range and drops the result
	snap, err = s.Pick(ctx, day(2025, 2, 1))
	require.NoError(t, err)
	assert.Nil(t, snap.Workdays)
	assert.Nil(t, snap.End)
}

func TestSession_Vacation(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	s.Open(ToolVacation)

	_, err := s.Pick(ctx, day(2025, 5, 1))
	require.NoError(t, err)
	snap, err := s.Pick(ctx, day(2025, 5, 3))
	require.NoError(t, err)
	assert.Nil(t, snap.Vacation, "no salary yet")

	snap, err = s.SetSalary(ctx, "90 000")
	require.NoError(t, err)
	require.NotNil(t, snap.Vacation)
	assert.Equal(t, 90000.0, snap.Salary)
	assert.Equal(t, 3, snap.Vacation.CalendarDays)
	assert.Equal(t, 2, snap.Vacation.VacationDays)
	assert.Equal(t, 799.0, snap.Vacation.NDFL)

	snap, err = s.SetSalary(ctx, "abc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, calendar.ErrValidation))
	assert.Equal(t, err, snap.Err)
	assert.Equal(t, 90000.0, snap.Salary, "bad input keeps the previous amount")
	require.NotNil(t, snap.Vacation)

	want, err := calculator.CalculateVacation(calendar.DateRange{Start: day(2025, 5, 1), End: day(2025, 5, 3)},
		120000, calendar.NewDataset(calendar.Static(), 2025))
	require.NoError(t, err)
	snap, err = s.SetSalary(ctx, "120000,00")
	require.NoError(t, err)
	assert.Nil(t, snap.Err)
	assert.Equal(t, want, *snap.Vacation)
}

func TestSession_OpenAndCancelReset(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	s.Open(ToolWorkdays)
	_, err := s.Pick(ctx, day(2025, 3, 1))
	require.NoError(t, err)
	_, err = s.Pick(ctx, day(2025, 3, 10))
	require.NoError(t, err)

	s.Open(ToolVacation)
	snap := s.Snapshot()
	assert.Equal(t, ToolVacation, snap.Tool)
	assert.False(t, snap.HasSelection)
	assert.Nil(t, snap.Workdays)

	s.Cancel()
	snap = s.Snapshot()
	assert.Equal(t, ToolNone, snap.Tool)
	assert.False(t, snap.HasSelection)

	_, err = s.Pick(ctx, day(2025, 3, 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, calendar.ErrValidation))
}

func TestSession_DataUnavailable(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	logger := zap.New(core)
	s := New(calendar.NewProvider(calendar.NewStaticSource(nil), logger), logger)
	s.Open(ToolWorkdays)

	_, err := s.Pick(context.Background(), day(2031, 3, 1))
	require.NoError(t, err)
	snap, err := s.Pick(context.Background(), day(2031, 3, 31))
	require.NoError(t, err)

	assert.False(t, snap.DataAvailable)
	require.NotNil(t, snap.Workdays)
	assert.False(t, snap.Workdays.DataAvailable)
	assert.Equal(t, 1, logs.FilterMessage("Calendar data unavailable, assuming no holidays").Len())
}

func TestSession_NewRangeClearsDataWarning(t *testing.T) {
	ctx := context.Background()
	s := newSession(t)
	s.Open(ToolWorkdays)

	_, err := s.Pick(ctx, day(2031, 6, 2))
	require.NoError(t, err)
	snap, err := s.Pick(ctx, day(2031, 6, 8))
	require.NoError(t, err)
	require.False(t, snap.DataAvailable)

	// third pick starts a new range in a covered year
	snap, err = s.Pick(ctx, day(2025, 6, 2))
	require.NoError(t, err)
	assert.True(t, snap.HasSelection)
	assert.Nil(t, snap.End)
	assert.Nil(t, snap.Workdays)
	assert.True(t, snap.DataAvailable)

	snap, err = s.Pick(ctx, day(2025, 6, 8))
	require.NoError(t, err)
	require.NotNil(t, snap.Workdays)
	assert.True(t, snap.DataAvailable)
	assert.True(t, snap.Workdays.DataAvailable)
}

func TestParseTool(t *testing.T) {
	tests := []struct {
		in      string
		want    Tool
		wantErr bool
	}{
		{"vacation", ToolVacation, false},
		{"Workdays", ToolWorkdays, false},
		{"none", ToolNone, false},
		{"stats", ToolNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTool(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Tool {
	t.Helper()
	tool, err := ParseTool(s)
	require.NoError(t, err)
	return tool
}
