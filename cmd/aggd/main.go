// Command aggd runs the nighttime-lights aggregation service: it refreshes
// per-region radiance time series from monthly composites on disk and serves
// them over HTTP, optionally publishing each pass to Kafka.
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

	httpadapter "github.com/nightsat/nightlights-agg/internal/adapter/http"
	kafkaadapter "github.com/nightsat/nightlights-agg/internal/adapter/kafka"
	"github.com/nightsat/nightlights-agg/internal/config"
	"github.com/nightsat/nightlights-agg/internal/observability"
	"github.com/nightsat/nightlights-agg/internal/pipeline"
	"github.com/nightsat/nightlights-agg/internal/raster"
	"github.com/nightsat/nightlights-agg/internal/regions"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	grid, err := cfg.GridSystem()
	if err != nil {
		logger.Error("failed to resolve grid", "error", err)
		os.Exit(1)
	}

	regionTable, err := regions.LoadTableFile(cfg.RegionsFile)
	if err != nil {
		logger.Error("failed to load regions", "error", err, "file", cfg.RegionsFile)
		os.Exit(1)
	}
	logger.Info("regions loaded", "file", cfg.RegionsFile, "count", regionTable.Len())

	// Sink is feature-flagged via KAFKA_ENABLED.
	var publisher pipeline.TablePublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka sink enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka sink disabled")
	}

	p := pipeline.New(pipeline.Params{
		Loader:          raster.NewLoader(logger),
		Regions:         regionTable,
		Publisher:       publisher,
		Grid:            grid,
		RasterDir:       cfg.RasterDir,
		Product:         cfg.Product,
		From:            cfg.StartMonth,
		To:              cfg.EndMonth,
		Attribute:       cfg.RegionAttribute,
		RefreshInterval: cfg.RefreshInterval,
		Workers:         cfg.RegionWorkers,
		Logger:          logger,
		Metrics:         metrics,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
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
