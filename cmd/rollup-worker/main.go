package main

import (
	"context"
	"errors"
	"os"
	"time"

	"daytrack/internal/amqp"
	"daytrack/internal/cli"
	applog "daytrack/internal/log"
	"daytrack/internal/services"
)

const reconsumeDelay = 5 * time.Second

func main() {
	cli.LoadEnvFile()
	cfg := cli.LoadAndValidateConfig()
	logger := cli.SetupLogger(cfg.LogLevel, applog.ComponentWorker)
	logger.Info("Starting rollup worker")

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

	exporter, err := cli.NewSheetsExporter(startCtx, logger, cfg)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets exporter", applog.FieldError, err.Error())
		os.Exit(1)
	}
	if exporter == nil {
		logger.Info("Google Sheets export disabled - no GOOGLE_SPREADSHEET_ID provided")
	}

	// The worker reads straight from the store; caching would only hide
	// changes made by the API process.
	analytics := services.NewAnalyticsService(st, st, st, services.CacheOptions{}, logger)
	processor := services.NewRollupProcessor(analytics, st, exporter, today,
		services.DefaultRollupProcessorConfig(), logger)

	var amqpClient *amqp.Client
	if cfg.AMQPEnabled() {
		amqpClient, err = amqp.NewClient(startCtx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("AMQP unavailable, relying on periodic rollups", applog.FieldError, err.Error())
			amqpClient = nil
		}
	} else {
		logger.Info("AMQP disabled - relying on periodic rollups")
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := processor.Stop(ctx); err != nil {
			logger.Warn("Rollup processor stop error", applog.FieldError, err.Error())
		}
		if amqpClient != nil {
			_ = amqpClient.Close()
		}
		if err := backend.Close(); err != nil {
			logger.Warn("Storage close error", applog.FieldError, err.Error())
		}
	})

	if err := processor.Start(ctx); err != nil {
		logger.Error("Failed to start rollup processor", applog.FieldError, err.Error())
		os.Exit(1)
	}

	if amqpClient != nil {
		go consume(ctx, logger, amqpClient, processor)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Rollup worker stopped")
}

// consume keeps a consumer attached until ctx is cancelled, re-subscribing
// after broker failures.
func consume(ctx context.Context, logger *applog.Logger, client *amqp.Client, processor *services.RollupProcessor) {
	handler := func(ctx context.Context, msg *amqp.DayChangedMessage) error {
		return processor.HandleDayChanged(ctx, msg.Date)
	}
	for {
		err := client.ConsumeDayChanged(ctx, handler)
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return
		}
		logger.Error("Message consumption failed, retrying",
			applog.FieldError, err.Error(), "retry_in", reconsumeDelay)
		select {
		case <-ctx.Done():
			return
		case <-time.After(reconsumeDelay):
		}
	}
}
