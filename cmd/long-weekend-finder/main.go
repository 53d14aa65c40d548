package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/username/long-weekend-finder/internal/cache"
	"github.com/username/long-weekend-finder/internal/config"
	"github.com/username/long-weekend-finder/internal/holiday"
	"github.com/username/long-weekend-finder/internal/longweekend"
	"github.com/username/long-weekend-finder/internal/weather"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	configPath string
	cfg        *config.Config
	logger     = zap.NewNop()
	outWriter  io.Writer = os.Stdout
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "long-weekend-finder",
		Short: "Long weekend finder",
		Long:  "Find public holidays that turn into long weekends with at most two days of leave",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				initLogger("info")
				return err
			}

			if cfg.Logging.File != "" {
				logger, err = initFileLogger(cfg.Logging.File, cfg.Logging.Level)
				if err != nil {
					initLogger(cfg.Logging.Level) // Fallback to console
				}
			} else {
				initLogger(cfg.Logging.Level)
			}
			return nil
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (default: ./config.yaml if present)")

	rootCmd.AddCommand(findCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(holidaysCmd())
	rootCmd.AddCommand(countriesCmd())
	rootCmd.AddCommand(weatherCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(daemonCmd())

	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app holds the components shared by the commands
type app struct {
	store   cache.Store
	api     *holiday.CachedSource // nil when holidays.api_url is empty
	file    *holiday.FileSource   // nil when holidays.fallback_file is empty
	source  *holiday.CompositeSource
	finder  *longweekend.Finder
	weather *weather.Client
}

// newApp wires the holiday sources, the cache and the weather client from config.
// Only API answers are cached; fallback answers are served but never stored.
func newApp(cfg *config.Config) (*app, error) {
	store, err := cache.Open(cfg.Cache.Backend, cfg.Cache.Path, cfg.Cache.GetTTL(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open holiday cache: %w", err)
	}

	a := &app{store: store}

	var sources []holiday.NamedSource
	if cfg.Holidays.APIURL != "" {
		nager := holiday.NewNagerSource(cfg.Holidays.APIURL, cfg.Holidays.GetTimeout(), logger)
		a.api = holiday.NewCachedSource(nager, store, logger)
		sources = append(sources, holiday.NamedSource{Name: "nager", Source: a.api})
	}
	if cfg.Holidays.FallbackFile != "" {
		a.file = holiday.NewFileSource(cfg.Holidays.FallbackFile, cfg.Holidays.CountryNames, logger)
		sources = append(sources, holiday.NamedSource{Name: "file", Source: a.file})
	}
	if cfg.Holidays.Builtin {
		sources = append(sources, holiday.NamedSource{
			Name:   "builtin",
			Source: holiday.NewBuiltinSource(logger),
		})
	}

	a.source = holiday.NewCompositeSource(logger, sources...)
	a.finder = longweekend.NewFinder(a.source, logger)
	a.weather = weather.NewClient(cfg.Weather.APIURL, cfg.Weather.APIKey, logger)

	logger.Info("Holiday sources configured",
		zap.Int("sources", len(sources)),
		zap.Bool("api_cached", a.api != nil),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("cache_path", cfg.Cache.Path))

	return a, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warn("Failed to close holiday cache", zap.Error(err))
	}
}

// openTee mirrors command output to a file; the returned func restores stdout
func openTee(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create tee path: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open tee-output file: %w", err)
	}

	outWriter = io.MultiWriter(os.Stdout, f)
	return func() {
		outWriter = os.Stdout
		f.Close()
	}, nil
}

func outPrintf(format string, a ...interface{}) {
	fmt.Fprintf(outWriter, format, a...)
}

func outPrintln(a ...interface{}) {
	fmt.Fprintln(outWriter, a...)
}

func parseLevel(level string) zapcore.Level {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	return zapLevel
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	if dir := filepath.Dir(logFile); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log dir: %w", err)
		}
	}

	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
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
