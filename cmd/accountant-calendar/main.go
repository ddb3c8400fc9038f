package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/accountant-calendar/internal/calendar"
	"github.com/username/accountant-calendar/internal/config"
)

var (
	configPath string
	cfg        *config.Config
	logger     = zap.NewNop()
)

func main() {
	// Setup signal handling; cancels in-flight calendar API requests
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "accountant-calendar",
		Short:         "Производственный календарь бухгалтера",
		Long:          "Production calendar of the Russian Federation: day classification, working days, vacation pay and working-hour norms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}

			if cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger(cfg.Log.Level) // Fallback to console
					logger.Warn("Failed to open log file, logging to console",
						zap.String("path", cfg.Log.File),
						zap.Error(err))
				}
			} else {
				initLogger(cfg.Log.Level)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path")

	rootCmd.AddCommand(dayCmd())
	rootCmd.AddCommand(workdaysCmd())
	rootCmd.AddCommand(vacationCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(sessionCmd())

	return rootCmd
}

// newProvider builds the calendar source chain selected in config
func newProvider() (*calendar.Provider, error) {
	var src calendar.Source

	switch cfg.Calendar.Source {
	case config.SourceStatic:
		logger.Debug("Using built-in production calendar")
		src = calendar.NewStaticSource(nil)

	case config.SourceFile:
		logger.Info("Using production calendar file", zap.String("path", cfg.Calendar.DataFile))
		fileSrc := calendar.NewFileSource(cfg.Calendar.DataFile, logger)
		if err := fileSrc.Load(); err != nil {
			return nil, err
		}
		src = calendar.NewCompositeSource(fileSrc, calendar.NewStaticSource(nil), logger)

	case config.SourceIsDayOff:
		logger.Info("Using isdayoff.ru calendar API")
		apiSrc := calendar.NewIsDayOffSource(cfg.Calendar.IsDayOffOptions(), logger)

		var fallback calendar.Source = calendar.NewStaticSource(nil)
		if cfg.Calendar.DataFile != "" {
			fallback = calendar.NewFileSource(cfg.Calendar.DataFile, logger)
		}
		composite := calendar.NewCompositeSource(apiSrc, fallback, logger)

		// Load fallback calendar
		if err := composite.LoadFallback(); err != nil {
			logger.Warn("Failed to load fallback calendar, continuing with API only",
				zap.Error(err))
		}
		src = composite

	default:
		return nil, fmt.Errorf("unknown calendar source: %s", cfg.Calendar.Source)
	}

	return calendar.NewProvider(src, logger), nil
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		parseLevel(level),
	)

	return zap.New(core), nil
}

func parseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return zapcore.InfoLevel
	}
	return zapLevel
}
