package selection

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestNext(t *testing.T) {
	may1, may3 := day(2025, 5, 1), day(2025, 5, 3)

	tests := []struct {
		name      string
		state     State
		pick      time.Time
		wantStart time.Time
		wantEnd   *time.Time
	}{
		{"empty chooses start", Empty{}, may3, may3, nil},
		{"nil behaves as empty", nil, may3, may3, nil},
		{"forward completes", StartChosen{Start: may1}, may3, may1, &may3},
		{"backward swaps", StartChosen{Start: may3}, may1, may1, &may3},
		{"same date twice", StartChosen{Start: may1}, may1, may1, &may1},
		{"complete starts over", RangeComplete{}, may3, may3, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := Next(tt.state, tt.pick)

			if tt.wantEnd == nil {
				st, ok := next.(StartChosen)
				require.True(t, ok, "got %T", next)
				assert.True(t, st.Start.Equal(tt.wantStart))
				return
			}

			st, ok := next.(RangeComplete)
			require.True(t, ok, "got %T", next)
			assert.True(t, st.Range.Start.Equal(tt.wantStart))
			assert.True(t, st.Range.End.Equal(*tt.wantEnd))
		})
	}
}

func TestNext_NormalizesTime(t *testing.T) {
	st := Next(Empty{}, time.Date(2025, 5, 1, 17, 45, 0, 0, time.Local))
	assert.Equal(t, StartChosen{Start: day(2025, 5, 1)}, st)
}

func TestSelector_Cycle(t *testing.T) {
	s := NewSelector()
	_, _, ok := s.Bounds()
	assert.False(t, ok)
	assert.IsType(t, Empty{}, s.State())

	s.Pick(day(2025, 5, 10))
	start, end, ok := s.Bounds()
	require.True(t, ok)
	assert.Equal(t, day(2025, 5, 10), start)
	assert.Nil(t, end)
	_, complete := s.Range()
	assert.False(t, complete)
	assert.True(t, s.Contains(day(2025, 5, 10)))
	assert.False(t, s.Contains(day(2025, 5, 11)))

	s.Pick(day(2025, 5, 1))
	r, complete := s.Range()
	require.True(t, complete)
	assert.Equal(t, day(2025, 5, 1), r.Start)
	assert.Equal(t, day(2025, 5, 10), r.End)
	start, end, ok = s.Bounds()
	require.True(t, ok)
	require.NotNil(t, end)
	assert.Equal(t, r.Start, start)
	assert.Equal(t, r.End, *end)
	assert.True(t, s.Contains(day(2025, 5, 5)))
	assert.False(t, s.Contains(day(2025, 5, 11)))

	// third pick discards the range
	s.Pick(day(2025, 6, 1))
	assert.Equal(t, StartChosen{Start: day(2025, 6, 1)}, s.State())

	s.Reset()
	assert.Equal(t, Empty{}, s.State())
	assert.False(t, s.Contains(day(2025, 6, 1)))
}

func TestSelector_ZeroValue(t *testing.T) {
	var s Selector
	assert.Equal(t, Empty{}, s.State())
	s.Pick(day(2025, 1, 1))
	assert.IsType(t, StartChosen{}, s.State())
}

func TestSelector_RangeInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	base := day(2025, 1, 1)
	s := NewSelector()

	for i := 0; i < 1000; i++ {
		st := s.Pick(base.AddDate(0, 0, rng.Intn(730)-365))
		if rc, ok := st.(RangeComplete); ok {
			require.False(t, rc.Range.Start.After(rc.Range.End), "start after end at step %d", i)
			require.NoError(t, rc.Range.Validate())
		}
	}
}
