package calendar

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/username/accountant-calendar/pkg/dateutil"
)

// ParseData parses production calendar data in the text format
//
//	# comment
//	YYYY-MM-DD type [note]
//
// where type is "holiday" or "shortened". Lines that cannot be parsed are
// logged and skipped.
func ParseData(r io.Reader, logger *zap.Logger) (StaticData, error) {
	data := make(StaticData)
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Example: 2025-01-01 holiday Новогодние каникулы
		parts := strings.SplitN(line, " ", 3)
		if len(parts) < 2 {
			logger.Warn("Invalid line format", zap.Int("line", lineNo), zap.String("text", line))
			continue
		}

		dateStr := parts[0]
		typeStr := strings.ToLower(parts[1])
		note := ""
		if len(parts) == 3 {
			note = strings.TrimSpace(parts[2])
		}

		date, err := time.Parse(dateutil.ISOLayout, dateStr)
		if err != nil {
			logger.Warn("Failed to parse date", zap.Int("line", lineNo), zap.String("date", dateStr), zap.Error(err))
			continue
		}

		yd, ok := data[date.Year()]
		if !ok {
			yd = newYearData()
			data[date.Year()] = yd
		}

		switch typeStr {
		case "holiday":
			if note == "" {
				note = "Нерабочий праздничный день"
			}
			yd.Holidays[dateStr] = note
		case "shortened":
			if note == "" {
				note = "Предпраздничный день"
			}
			yd.ShortDays[dateStr] = note
		default:
			logger.Warn("Unknown day type", zap.Int("line", lineNo), zap.String("type", typeStr))
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading calendar data: %w", err)
	}

	return data, nil
}

// FileSource implements Source using a local text file in the ParseData format
type FileSource struct {
	filePath string
	logger   *zap.Logger

	once    sync.Once
	data    StaticData
	loadErr error
}

// NewFileSource creates a new FileSource. The file is read on first use.
func NewFileSource(filePath string, logger *zap.Logger) *FileSource {
	return &FileSource{
		filePath: filePath,
		logger:   logger,
	}
}

// Load reads the calendar file
func (fs *FileSource) Load() error {
	fs.once.Do(func() {
		fs.data, fs.loadErr = fs.load()
	})
	return fs.loadErr
}

func (fs *FileSource) load() (StaticData, error) {
	file, err := os.Open(fs.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar file: %w", err)
	}
	defer file.Close()

	data, err := ParseData(file, fs.logger)
	if err != nil {
		return nil, err
	}

	fs.logger.Info("Calendar file loaded",
		zap.String("file", fs.filePath),
		zap.Int("years", len(data)))

	return data, nil
}

// Year returns the data of the year from the file
func (fs *FileSource) Year(_ context.Context, year int) (YearData, error) {
	if err := fs.Load(); err != nil {
		return YearData{}, err
	}

	yd, ok := fs.data[year]
	if !ok {
		return YearData{}, fmt.Errorf("%w: %d in %s", ErrYearNotFound, year, fs.filePath)
	}
	return yd, nil
}
