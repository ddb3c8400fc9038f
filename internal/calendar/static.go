package calendar

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

//go:embed data/production_ru.txt
var productionRU string

var (
	staticOnce sync.Once
	staticData StaticData
)

// Static returns the built-in production calendar of the Russian Federation
func Static() StaticData {
	staticOnce.Do(func() {
		data, err := ParseData(strings.NewReader(productionRU), zap.NewNop())
		if err != nil {
			// embedded data is fixed at build time
			panic(fmt.Sprintf("calendar: embedded data: %v", err))
		}
		staticData = data
	})
	return staticData
}

// Years returns the years present in the data in ascending order
func (sd StaticData) Years() []int {
	years := make([]int, 0, len(sd))
	for y := range sd {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// StaticSource implements Source over in-memory data
type StaticSource struct {
	data StaticData
}

// NewStaticSource returns a source over data, or over the built-in calendar when data is nil
func NewStaticSource(data StaticData) *StaticSource {
	if data == nil {
		data = Static()
	}
	return &StaticSource{data: data}
}

// Year returns the data of the year
func (s *StaticSource) Year(_ context.Context, year int) (YearData, error) {
	yd, ok := s.data[year]
	if !ok {
		return YearData{}, fmt.Errorf("%w: %d", ErrYearNotFound, year)
	}
	return yd, nil
}
