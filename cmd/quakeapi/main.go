package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/quake-data-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/quake-data-service/internal/adapter/kafka"
	"github.com/couchcryptid/quake-data-service/internal/adapter/usgs"
	"github.com/couchcryptid/quake-data-service/internal/config"
	"github.com/couchcryptid/quake-data-service/internal/engine"
	"github.com/couchcryptid/quake-data-service/internal/observability"
	"go.opentelemetry.io/otel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	tp, err := observability.NewTracerProvider(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to create tracer provider", "error", err)
		os.Exit(1)
	}
	otel.SetTracerProvider(tp)
	if cfg.OTLPEndpoint != "" {
		logger.Info("trace export enabled", "endpoint", cfg.OTLPEndpoint)
	}

	client := usgs.NewClient(cfg, metrics, logger)
	eng := engine.New(client, logger, metrics, cfg.FeedConcurrency, engine.WithTracerProvider(tp))

	// Result publishing is feature-flagged via KAFKA_ENABLED.
	var (
		sink      httpadapter.ResultSink
		publisher *kafkaadapter.Publisher
	)
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		sink = publisher
		metrics.PublisherEnabled.Set(1)
		logger.Info("result publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaResultsTopic)
	} else {
		logger.Info("result publishing disabled")
	}

	srv := httpadapter.NewServer(cfg, eng, client, sink, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		logger.Error("tracer provider shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
