package calendar

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// Provider turns a Source into Datasets for calculators. Unavailable years
// degrade to empty holiday and short day sets and are reported through
// Dataset.Missing, never as an error.
type Provider struct {
	source Source
	logger *zap.Logger
}

// NewProvider creates a new Provider
func NewProvider(source Source, logger *zap.Logger) *Provider {
	return &Provider{
		source: source,
		logger: logger,
	}
}

// ForYear returns the dataset of one year
func (p *Provider) ForYear(ctx context.Context, year int) Dataset {
	return p.forYears(ctx, []int{year})
}

// ForRange returns the dataset covering every year the range touches
func (p *Provider) ForRange(ctx context.Context, r DateRange) Dataset {
	return p.forYears(ctx, yearsOf(r))
}

func (p *Provider) forYears(ctx context.Context, years []int) Dataset {
	data := make(StaticData, len(years))

	for _, year := range years {
		yd, err := p.source.Year(ctx, year)
		if err != nil {
			if errors.Is(err, ErrYearNotFound) {
				p.logger.Warn("Calendar data unavailable, assuming no holidays",
					zap.Int("year", year))
			} else {
				p.logger.Warn("Calendar data unavailable, assuming no holidays",
					zap.Int("year", year),
					zap.Error(err))
			}
			continue
		}
		data[year] = yd
	}

	return NewDataset(data, years...)
}
