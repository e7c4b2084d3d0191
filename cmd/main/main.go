package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"insider-features/internal/config"
	"insider-features/internal/metrics"
	"insider-features/internal/pipeline"
	"insider-features/internal/sink"
)

func init() {
	if os.Getenv("RUNNING_IN_DOCKER") == "" {
		err := godotenv.Load(".env")
		if err != nil {
			log.Println("No .env file found (this is fine in Docker)")
		}
	}
}

func main() {
	cfg, err := config.SetupConfig()
	if err != nil {
		log.Panic(err)
	}
	logger := cfg.Logger(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.NewMetrics()
	runID := uuid.NewString()
	logger = logger.With("run_id", runID)

	data, err := pipeline.Load(cfg.Sources)
	if err != nil {
		log.Panic(err)
	}
	logger.Info("Dataset loaded",
		"logon", len(data.Logon),
		"device", len(data.Device),
		"file", len(data.File),
		"email", len(data.Email),
		"http", len(data.Http),
	)

	sinks, err := cfg.Sinks(ctx, os.Stdout, logger, m)
	if err != nil {
		log.Panic(err)
	}
	defer sinks.Close()

	res, err := pipeline.Run(ctx, data, cfg.PipelineOptions(logger, m))
	if err != nil {
		logger.Error("Pipeline failed", "error", err)
		sinks.Close()
		os.Exit(1)
	}
	for _, d := range res.Diagnostics {
		logger.Warn("Record diagnostic", "stream", d.Stream, "row", d.Row, "user", d.User, "error", d.Err)
	}

	if err := sinks.Publish(ctx, sink.NewBatch(runID, time.Now(), res)); err != nil {
		logger.Error("Some sinks failed", "error", err)
	}

	if cfg.PushgatewayURL != "" {
		if err := m.Push(ctx, cfg.PushgatewayURL, cfg.PushJob); err != nil {
			logger.Warn("Could not push metrics", "error", err)
		}
	}

	logger.Info("Run complete",
		"records_read", res.Stats.RecordsRead,
		"records_skipped", res.Stats.RecordsSkipped,
		"logon_days", len(res.LogonDays),
		"email_days", len(res.EmailDays),
		"http_days", len(res.HttpDays),
	)
}
