package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crmsynth/internal/config"
	"crmsynth/internal/infrastructure"
	"crmsynth/internal/operations"
)

// AppName is the name reported in startup logs
const AppName = "crmsynth"

// shutdownTimeout bounds telemetry flushing on exit
const shutdownTimeout = 10 * time.Second

// Application is the shared setup of one command
type Application struct {
	Tool      string
	Config    *config.Config
	Paths     *config.Paths
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
}

// New loads configuration for tool and initializes paths, logging and
// telemetry. An empty configFile searches the default locations.
func New(ctx context.Context, tool, configFile string) (*Application, error) {
	var (
		cfg *config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.LoadFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	paths, err := config.NewPaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging, paths.LogFile(tool))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = logger.With(slog.String("tool", tool))
	paths.LogPathResolution(logger)

	logger.InfoContext(ctx, "Application starting",
		slog.String("name", AppName),
		slog.String("version", config.AppVersion),
		slog.String("data_dir", paths.DataDir),
		slog.String("logs_dir", paths.LogsDir))

	telemetry, err := infrastructure.InitializeTelemetry(ctx, cfg.Telemetry, paths, tool, logger)
	if err != nil {
		_ = infrastructure.CloseLogFile()
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	return &Application{
		Tool:      tool,
		Config:    cfg,
		Paths:     paths,
		Logger:    logger,
		Telemetry: telemetry,
	}, nil
}

// Environment returns the step environment backed by this application
func (a *Application) Environment() *operations.Environment {
	return &operations.Environment{
		Config:  a.Config,
		Paths:   a.Paths,
		Metrics: a.Telemetry.Metrics,
		Logger:  a.Logger,
	}
}

// Close flushes telemetry and closes the log file
func (a *Application) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Telemetry.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	a.Logger.Info("Application stopped")
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// Fatal logs err, closes a when non-nil, prints msg to stderr and exits 1
func Fatal(a *Application, msg string, err error) {
	logger := infrastructure.GetLogger()
	if a != nil {
		logger = a.Logger
	}
	infrastructure.WithError(logger, err).Error(msg)
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	if a != nil {
		_ = a.Close()
	}
	os.Exit(1)
}
