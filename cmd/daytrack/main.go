package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"daytrack/internal/amqp"
	"daytrack/internal/cli"
	apphttp "daytrack/internal/http"
	applog "daytrack/internal/log"
	"daytrack/internal/services"
)

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel, applog.ComponentApp)

	today, err := cli.Today(cfg)
	if err != nil {
		logger.Error("Invalid timezone", applog.FieldError, err.Error())
		os.Exit(1)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	backend, err := cli.OpenStore(startCtx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize storage", applog.FieldError, err.Error(), "backend", cfg.DataBackend)
		os.Exit(1)
	}
	st := backend.Store

	var publisher services.Publisher
	var amqpClient *amqp.Client
	if cfg.AMQPEnabled() {
		amqpClient, err = amqp.NewClient(startCtx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			// The API works without the broker; rollups fall back to polling.
			logger.Warn("AMQP unavailable, day changed events disabled", applog.FieldError, err.Error())
		} else {
			publisher = amqpClient
		}
	}

	analytics := services.NewAnalyticsService(st, st, st,
		services.CacheOptions{Size: cfg.CacheSize, TTL: cfg.CacheTTL}, logger)
	events := services.NewEvents(publisher, analytics, logger)

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Services{
		Activities: services.NewActivityService(st, st, events, logger),
		Ratings:    services.NewRatingService(st, events, logger),
		Categories: services.NewCategoryService(st, events, logger),
		Settings:   services.NewSettingsService(st),
		Analytics:  analytics,
		Snapshots:  st,
		Health:     st,
	}, apphttp.Options{
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Today:              today,
		Logger:             logger,
	})

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err.Error())
		}
		if amqpClient != nil {
			if err := amqpClient.Close(); err != nil {
				logger.Warn("AMQP close error", applog.FieldError, err.Error())
			}
		}
		if err := backend.Close(); err != nil {
			logger.Warn("Storage close error", applog.FieldError, err.Error())
		}
	})

	logger.Info("Starting daytrack server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"amqp", publisher != nil,
		"timezone", cfg.Timezone)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", applog.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
