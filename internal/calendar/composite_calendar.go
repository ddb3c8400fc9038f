package calendar

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// CompositeSource implements Source with fallback strategy
// Primary: IsDayOffSource (API)
// Fallback: FileSource or StaticSource
type CompositeSource struct {
	primary  Source
	fallback Source
	logger   *zap.Logger
}

// NewCompositeSource creates a new CompositeSource
func NewCompositeSource(primary, fallback Source, logger *zap.Logger) *CompositeSource {
	return &CompositeSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

// Year returns the year from the primary source, falling back on error
func (cs *CompositeSource) Year(ctx context.Context, year int) (YearData, error) {
	yd, err := cs.primary.Year(ctx, year)
	if err == nil {
		return yd, nil
	}

	cs.logger.Warn("Primary calendar source failed, falling back",
		zap.Int("year", year),
		zap.Error(err))

	yd, fallbackErr := cs.fallback.Year(ctx, year)
	if fallbackErr != nil {
		if errors.Is(fallbackErr, ErrYearNotFound) {
			return YearData{}, fmt.Errorf("primary and fallback both failed: primary=%v: %w", err, fallbackErr)
		}
		return YearData{}, fmt.Errorf("primary and fallback both failed: primary=%w, fallback=%v", err, fallbackErr)
	}
	return yd, nil
}

// LoadFallback loads the fallback source eagerly (if FileSource)
func (cs *CompositeSource) LoadFallback() error {
	if fs, ok := cs.fallback.(*FileSource); ok {
		if err := fs.Load(); err != nil {
			return fmt.Errorf("failed to load fallback calendar: %w", err)
		}
		cs.logger.Info("Fallback calendar loaded successfully")
	}
	return nil
}
