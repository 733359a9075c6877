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

	"github.com/couchcryptid/solar-lookup/internal/adapter"
	httpadapter "github.com/couchcryptid/solar-lookup/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/solar-lookup/internal/adapter/kafka"
	"github.com/couchcryptid/solar-lookup/internal/config"
	"github.com/couchcryptid/solar-lookup/internal/dataset"
	"github.com/couchcryptid/solar-lookup/internal/domain"
	"github.com/couchcryptid/solar-lookup/internal/lookup"
	"github.com/couchcryptid/solar-lookup/internal/observability"
)

func main() {
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The dataset is loaded once; a failure is fatal and not retried.
	loader := dataset.NewLoader(cfg.DatasetTimeout, logger, metrics)
	table, err := loader.Load(ctx, cfg.DatasetURL)
	if err != nil {
		logger.Error("failed to load dataset", "error", err)
		os.Exit(1)
	}

	geocoder := adapter.NewGeocoder(cfg, logger, metrics)

	var (
		publisher lookup.EventPublisher
		writer    *kafkaadapter.Writer
	)
	if cfg.PublishingEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger, metrics)
		publisher = writer
		logger.Info("search event publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("search event publishing disabled")
	}

	matcher := domain.NewMatcher(domain.MatchConfig{
		Threshold:          cfg.MatchThreshold,
		ContainsScore:      cfg.MatchContainsScore,
		FallbackSimilarity: cfg.MatchFallbackSimilarity,
	})
	center := domain.Coordinate{Lat: cfg.MapDefaultLat, Lon: cfg.MapDefaultLon}
	svc := lookup.NewService(table, matcher, geocoder, publisher, center, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

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
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
