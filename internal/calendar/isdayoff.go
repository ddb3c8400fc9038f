package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Default endpoints of IsDayOffSource
const (
	DefaultIsDayOffURL = "https://isdayoff.ru"
	DefaultFallbackURL = "https://xmlcalendar.ru/data/ru/{year}/calendar.json"
)

const (
	defaultHTTPTimeout   = 10 * time.Second
	defaultCacheTTL      = 24 * time.Hour
	defaultRetryInterval = 500 * time.Millisecond
)

// isdayoff.ru day codes (pre=1)
const (
	codeWorkday    = '0'
	codeNonWorking = '1'
	codeShortened  = '2'
	codeCovidWork  = '4'
)

// IsDayOffOptions configures IsDayOffSource. Zero values select defaults.
type IsDayOffOptions struct {
	APIURL        string // isdayoff.ru base URL
	FallbackURL   string // xmlcalendar.ru URL template with {year}
	Timeout       time.Duration
	CacheTTL      time.Duration
	Retries       int
	RetryInterval time.Duration
}

// IsDayOffSource implements Source using the isdayoff.ru bulk API with
// xmlcalendar.ru as fallback
type IsDayOffSource struct {
	client        *resty.Client
	logger        *zap.Logger
	apiURL        string
	fallbackURL   string
	retries       uint64
	retryInterval time.Duration
	cacheTTL      time.Duration
	cache         map[int]*cachedYear
	cacheMu       sync.RWMutex
}

type cachedYear struct {
	data      YearData
	fetchedAt time.Time
}

// NewIsDayOffSource creates a new IsDayOffSource instance
func NewIsDayOffSource(opts IsDayOffOptions, logger *zap.Logger) *IsDayOffSource {
	if opts.APIURL == "" {
		opts.APIURL = DefaultIsDayOffURL
	}
	if opts.FallbackURL == "" {
		opts.FallbackURL = DefaultFallbackURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = defaultHTTPTimeout
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.RetryInterval == 0 {
		opts.RetryInterval = defaultRetryInterval
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}

	return &IsDayOffSource{
		client:        resty.New().SetTimeout(opts.Timeout),
		logger:        logger,
		apiURL:        strings.TrimRight(opts.APIURL, "/"),
		fallbackURL:   opts.FallbackURL,
		retries:       uint64(opts.Retries),
		retryInterval: opts.RetryInterval,
		cacheTTL:      opts.CacheTTL,
		cache:         make(map[int]*cachedYear),
	}
}

// Year returns the production calendar of the year
func (c *IsDayOffSource) Year(ctx context.Context, year int) (YearData, error) {
	c.cacheMu.RLock()
	if cached, ok := c.cache[year]; ok {
		if time.Since(cached.fetchedAt) < c.cacheTTL {
			c.cacheMu.RUnlock()
			c.logger.Debug("Using cached year data", zap.Int("year", year))
			return cached.data, nil
		}
	}
	c.cacheMu.RUnlock()

	yd, err := c.fetchYearFromAPI(ctx, year)
	if err != nil {
		c.logger.Warn("Failed to fetch from API, trying fallback",
			zap.Int("year", year),
			zap.Error(err))

		var fallbackErr error
		yd, fallbackErr = c.fetchYearFromFallback(ctx, year)
		if fallbackErr != nil {
			if errors.Is(err, ErrYearNotFound) && errors.Is(fallbackErr, ErrYearNotFound) {
				return YearData{}, fmt.Errorf("%w: %d (API and fallback)", ErrYearNotFound, year)
			}
			return YearData{}, fmt.Errorf("API and fallback both failed: API=%w, Fallback=%v", err, fallbackErr)
		}

		c.logger.Info("Using fallback data", zap.Int("year", year))
	}

	c.cacheMu.Lock()
	c.cache[year] = &cachedYear{
		data:      yd,
		fetchedAt: time.Now(),
	}
	c.cacheMu.Unlock()

	return yd, nil
}

// fetchYearFromAPI fetches the whole year from the isdayoff.ru bulk API
func (c *IsDayOffSource) fetchYearFromAPI(ctx context.Context, year int) (YearData, error) {
	// https://isdayoff.ru/api/getdata?year=2025&pre=1
	url := c.apiURL + "/api/getdata"

	c.logger.Debug("Fetching year from isdayoff.ru",
		zap.String("url", url),
		zap.Int("year", year))

	body, err := c.get(ctx, url, map[string]string{
		"year": strconv.Itoa(year),
		"pre":  "1",
	})
	if err != nil {
		return YearData{}, err
	}

	yd, err := parseBulkYear(year, strings.TrimSpace(string(body)))
	if err != nil {
		return YearData{}, fmt.Errorf("failed to parse bulk response: %w", err)
	}

	c.logger.Info("Year data fetched from API",
		zap.Int("year", year),
		zap.Int("holidays", len(yd.Holidays)),
		zap.Int("short_days", len(yd.ShortDays)))

	return yd, nil
}

// fetchYearFromFallback downloads the year from xmlcalendar.ru
func (c *IsDayOffSource) fetchYearFromFallback(ctx context.Context, year int) (YearData, error) {
	url := strings.ReplaceAll(c.fallbackURL, "{year}", strconv.Itoa(year))

	c.logger.Info("Downloading fallback calendar data",
		zap.String("url", url),
		zap.Int("year", year))

	body, err := c.get(ctx, url, nil)
	if err != nil {
		return YearData{}, err
	}

	yd, err := parseXMLCalendarYear(year, body)
	if err != nil {
		return YearData{}, fmt.Errorf("failed to parse fallback JSON: %w", err)
	}
	return yd, nil
}

// get performs a GET with retries. 5xx and transport errors are retried,
// 404 maps to ErrYearNotFound, other statuses fail immediately.
func (c *IsDayOffSource) get(ctx context.Context, url string, query map[string]string) ([]byte, error) {
	var body []byte

	operation := func() error {
		req := c.client.R().SetContext(ctx)
		if len(query) > 0 {
			req.SetQueryParams(query)
		}

		resp, err := req.Get(url)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("failed to fetch calendar data: %w", err)
		}

		switch status := resp.StatusCode(); {
		case status == http.StatusOK:
			body = resp.Body()
			return nil
		case status == http.StatusNotFound:
			return backoff.Permanent(fmt.Errorf("%w: %s returned status %d", ErrYearNotFound, url, status))
		case status >= http.StatusInternalServerError:
			return fmt.Errorf("%s returned status %d", url, status)
		default:
			return backoff.Permanent(fmt.Errorf("%s returned status %d", url, status))
		}
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval

	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(b, c.retries), ctx)); err != nil {
		return nil, err
	}
	return body, nil
}

// parseBulkYear parses the isdayoff.ru bulk response for a year
// Format: one digit per day of the year where:
// 0 = working day (8 hours)
// 1 = non-working day (holiday/weekend)
// 2 = shortened day (7 hours)
// 4 = working day (covid-era code)
func parseBulkYear(year int, data string) (YearData, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	daysInYear := 365
	if isLeap(year) {
		daysInYear = 366
	}

	if len(data) != daysInYear {
		return YearData{}, fmt.Errorf("bulk data length mismatch: expected %d, got %d", daysInYear, len(data))
	}

	yd := newYearData()
	for i, code := range data {
		date := start.AddDate(0, 0, i)

		switch code {
		case codeWorkday, codeCovidWork:
		case codeNonWorking:
			addNonWorking(yd, date)
		case codeShortened:
			yd.ShortDays[isoKey(date)] = "Предпраздничный день"
		default:
			return YearData{}, fmt.Errorf("unknown code '%c' at position %d", code, i)
		}
	}

	return yd, nil
}

// parseXMLCalendarYear parses xmlcalendar.ru JSON
// Month format: "1*,2,3+,4,8,9,15,16,22,23,29,30"
// * = shortened day, + = transferred day off, others = weekends/holidays
func parseXMLCalendarYear(year int, body []byte) (YearData, error) {
	if !gjson.ValidBytes(body) {
		return YearData{}, fmt.Errorf("invalid JSON")
	}

	months := gjson.GetBytes(body, "months")
	if !months.IsArray() {
		return YearData{}, fmt.Errorf("months array is missing")
	}

	yd := newYearData()
	for _, m := range months.Array() {
		month := time.Month(m.Get("month").Int())
		if month < time.January || month > time.December {
			return YearData{}, fmt.Errorf("invalid month %d", month)
		}
		if err := parseXMLCalendarMonth(yd, year, month, m.Get("days").String()); err != nil {
			return YearData{}, err
		}
	}

	return yd, nil
}

func parseXMLCalendarMonth(yd YearData, year int, month time.Month, days string) error {
	for _, part := range strings.Split(days, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		shortened := strings.HasSuffix(part, "*")
		dayStr := strings.TrimRight(part, "*+")

		day, err := strconv.Atoi(dayStr)
		if err != nil {
			return fmt.Errorf("failed to parse day %q of month %d: %w", part, month, err)
		}

		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if date.Month() != month {
			return fmt.Errorf("day %d out of range for month %d", day, month)
		}

		if shortened {
			yd.ShortDays[isoKey(date)] = "Предпраздничный день"
			continue
		}
		addNonWorking(yd, date)
	}
	return nil
}

// fixedHolidays are the public holidays of the Labour Code, art. 112 (MM-DD)
var fixedHolidays = map[string]string{
	"01-01": "Новогодние каникулы",
	"01-02": "Новогодние каникулы",
	"01-03": "Новогодние каникулы",
	"01-04": "Новогодние каникулы",
	"01-05": "Новогодние каникулы",
	"01-06": "Новогодние каникулы",
	"01-07": "Рождество Христово",
	"01-08": "Новогодние каникулы",
	"02-23": "День защитника Отечества",
	"03-08": "Международный женский день",
	"05-01": "Праздник Весны и Труда",
	"05-09": "День Победы",
	"06-12": "День России",
	"11-04": "День народного единства",
}

// addNonWorking records a non-working day as a holiday unless it is an
// ordinary weekend. Weekend days inside the New Year block stay holidays.
func addNonWorking(yd YearData, date time.Time) {
	name, fixed := fixedHolidays[date.Format("01-02")]
	weekend := date.Weekday() == time.Saturday || date.Weekday() == time.Sunday

	if weekend && !(fixed && date.Month() == time.January) {
		return
	}
	if !fixed {
		name = "Нерабочий день"
	}
	yd.Holidays[isoKey(date)] = name
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
