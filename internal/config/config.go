package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/username/accountant-calendar/internal/calendar"
)

const (
	SourceStatic   = "static"
	SourceFile     = "file"
	SourceIsDayOff = "isdayoff"
)

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Stats    StatsConfig    `mapstructure:"stats"`
	Log      LogConfig      `mapstructure:"log"`
}

// CalendarConfig selects where holiday data comes from
type CalendarConfig struct {
	Source        string `mapstructure:"source"`       // "static", "file" or "isdayoff"
	DataFile      string `mapstructure:"data_file"`    // For file type, also isdayoff fallback when set
	APIURL        string `mapstructure:"api_url"`      // isdayoff.ru base URL
	FallbackURL   string `mapstructure:"fallback_url"` // xmlcalendar.ru URL template with {year}
	CacheTTL      string `mapstructure:"cache_ttl"`
	Timeout       string `mapstructure:"timeout"`
	Retries       int    `mapstructure:"retries"`
	RetryInterval string `mapstructure:"retry_interval"`
}

// StatsConfig represents statistics defaults
type StatsConfig struct {
	WeekMode string `mapstructure:"week_mode"` // "five-day" or "six-day"
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Load loads configuration from file and environment.
// A missing config file is not an error unless configPath is set explicitly.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.accountant-calendar")
		v.AddConfigPath("/etc/accountant-calendar")
	}

	// Read environment variables, e.g. ACCOUNTANT_CALENDAR_CALENDAR_SOURCE
	v.SetEnvPrefix("accountant_calendar")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.ExpandEnvVars()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Default returns the configuration used when no file or environment is set
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// Defaults are plain scalars; decoding them cannot fail.
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar.source", SourceStatic)
	v.SetDefault("calendar.data_file", "")
	v.SetDefault("calendar.api_url", calendar.DefaultIsDayOffURL)
	v.SetDefault("calendar.fallback_url", calendar.DefaultFallbackURL)
	v.SetDefault("calendar.cache_ttl", "24h")
	v.SetDefault("calendar.timeout", "10s")
	v.SetDefault("calendar.retries", 2)
	v.SetDefault("calendar.retry_interval", "500ms")
	v.SetDefault("stats.week_mode", "five-day")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Calendar.Source {
	case SourceStatic:
	case SourceFile:
		if c.Calendar.DataFile == "" {
			return fmt.Errorf("calendar.data_file is required for file source")
		}
	case SourceIsDayOff:
		if err := validateURL("calendar.api_url", c.Calendar.APIURL); err != nil {
			return err
		}
		if err := validateURL("calendar.fallback_url", c.Calendar.FallbackURL); err != nil {
			return err
		}
		if !strings.Contains(c.Calendar.FallbackURL, "{year}") {
			return fmt.Errorf("calendar.fallback_url must contain {year} placeholder")
		}
	default:
		return fmt.Errorf("calendar.source must be 'static', 'file' or 'isdayoff', got '%s'", c.Calendar.Source)
	}

	if c.Calendar.Retries < 0 {
		return fmt.Errorf("calendar.retries must not be negative")
	}

	if _, err := calendar.ParseWeekMode(c.Stats.WeekMode); err != nil {
		return fmt.Errorf("stats.week_mode: %w", err)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got '%s'", c.Log.Level)
	}

	return nil
}

func validateURL(key, raw string) error {
	u, err := url.Parse(strings.ReplaceAll(raw, "{year}", "2000"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%s must be an absolute URL, got '%s'", key, raw)
	}
	return nil
}

// GetCacheTTL returns cache TTL duration
func (c *CalendarConfig) GetCacheTTL() time.Duration {
	return parseDuration(c.CacheTTL, 24*time.Hour)
}

// GetTimeout returns the HTTP timeout for calendar APIs
func (c *CalendarConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 10*time.Second)
}

// GetRetryInterval returns the initial delay between API retries
func (c *CalendarConfig) GetRetryInterval() time.Duration {
	return parseDuration(c.RetryInterval, 500*time.Millisecond)
}

// IsDayOffOptions converts the config into isdayoff source options
func (c *CalendarConfig) IsDayOffOptions() calendar.IsDayOffOptions {
	return calendar.IsDayOffOptions{
		APIURL:        c.APIURL,
		FallbackURL:   c.FallbackURL,
		Timeout:       c.GetTimeout(),
		CacheTTL:      c.GetCacheTTL(),
		Retries:       c.Retries,
		RetryInterval: c.GetRetryInterval(),
	}
}

// GetWeekMode returns the default week mode for statistics
func (c *StatsConfig) GetWeekMode() calendar.WeekMode {
	mode, err := calendar.ParseWeekMode(c.WeekMode)
	if err != nil {
		return calendar.FiveDay
	}
	return mode
}

// ExpandEnvVars expands environment variables in file paths
func (c *Config) ExpandEnvVars() {
	c.Calendar.DataFile = os.ExpandEnv(c.Calendar.DataFile)
	c.Log.File = os.ExpandEnv(c.Log.File)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	duration, err := time.ParseDuration(s)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}
