package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpadapter "github.com/voyagelog/weather-ingest/internal/adapter/http"
	kafkaadapter "github.com/voyagelog/weather-ingest/internal/adapter/kafka"
	"github.com/voyagelog/weather-ingest/internal/adapter/sqlite"
	"github.com/voyagelog/weather-ingest/internal/config"
	"github.com/voyagelog/weather-ingest/internal/ingest"
	"github.com/voyagelog/weather-ingest/internal/observability"
)

func main() {
	// Optional .env for local development; the environment wins.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	store, err := sqlite.Open(cfg.DatabasePath, logger)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}

	// Export sink is feature-flagged; the store remains the source of truth.
	var sink ingest.SampleSink
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaSinkEnabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		sink = kafkaWriter
		metrics.SinkEnabled.Set(1)
		logger.Info("kafka export sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka export sink disabled")
	}

	resolver := ingest.NewResolver(store, logger, metrics)
	ingestor := ingest.NewIngestor(store, store, resolver, sink, logger, metrics, cfg.FlushSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, ingestor, store, store, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("shutdown complete")
}
