// Package cli provides common initialization shared by the daytrack
// binaries.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"daytrack/internal/backend"
	"daytrack/internal/config"
	applog "daytrack/internal/log"
	"daytrack/internal/services"
	gsheet "daytrack/internal/sheets/google"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger for level and component and makes it
// the slog default.
func SetupLogger(level, component string) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Level = applog.ParseLevel(level)
	cfg.Component = component
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}

// OpenStore creates the configured storage backend.
func OpenStore(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*backend.BackendResult, error) {
	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	return backend.NewFactory(logger).CreateBackend(ctx, bc)
}

// Today returns the clock reading "today" in the configured timezone.
func Today(cfg *config.Config) (services.Today, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
	}
	return services.SystemToday(loc), nil
}

// NewSheetsExporter returns a nil exporter when export is disabled.
func NewSheetsExporter(ctx context.Context, logger *applog.Logger, cfg *config.Config) (services.SnapshotExporter, error) {
	if !cfg.SheetsEnabled() {
		return nil, nil
	}
	exp, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:       cfg.GoogleSpreadsheetID,
		SheetName:           cfg.GoogleSheetName,
		ServiceAccountJSON:  cfg.GoogleServiceAccountJSON,
		ServiceAccountFile:  cfg.GoogleServiceAccountFile,
		ApplicationCredFile: cfg.GoogleApplicationCredFile,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("google sheets exporter: %w", err)
	}
	if err := exp.EnsureHeader(ctx); err != nil {
		logger.Warn("Could not prepare export sheet header", applog.FieldError, err.Error())
	}
	return exp, nil
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// The returned context is cancelled on SIGINT/SIGTERM after cleanup has
// run (bounded by timeout); done is closed once that has happened.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func(ctx context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}
		cancel()

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled and cleanup is done.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
