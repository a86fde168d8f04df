package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/solar-simulation-service/internal/adapter/calcengine"
	"github.com/couchcryptid/solar-simulation-service/internal/adapter/catalogcache"
	httpadapter "github.com/couchcryptid/solar-simulation-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/solar-simulation-service/internal/adapter/kafka"
	"github.com/couchcryptid/solar-simulation-service/internal/adapter/memory"
	"github.com/couchcryptid/solar-simulation-service/internal/adapter/postgres"
	"github.com/couchcryptid/solar-simulation-service/internal/catalog"
	"github.com/couchcryptid/solar-simulation-service/internal/config"
	"github.com/couchcryptid/solar-simulation-service/internal/domain"
	"github.com/couchcryptid/solar-simulation-service/internal/observability"
	"github.com/couchcryptid/solar-simulation-service/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Catalog store: Postgres when DATABASE_URL is set, otherwise seeded memory.
	var store pipeline.Catalog
	var closeStore func() error
	if cfg.DatabaseURL != "" {
		pg, err := postgres.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		if err := pg.Migrate(ctx); err != nil {
			logger.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
		store, closeStore = pg, pg.Close
		logger.Info("postgres catalog store enabled")
	} else {
		mem := memory.NewStore()
		if _, err := catalog.Seed(ctx, mem, logger); err != nil {
			logger.Error("failed to seed in-memory catalog", "error", err)
			os.Exit(1)
		}
		store = mem
		logger.Info("in-memory catalog store enabled")
	}

	if cfg.CatalogCacheSize > 0 {
		store = catalogcache.New(store, cfg.CatalogCacheSize, cfg.CatalogCacheTTL, metrics)
		logger.Info("catalog cache enabled", "size", cfg.CatalogCacheSize, "ttl", cfg.CatalogCacheTTL)
	}

	// Estimation strategy (ESTIMATION_STRATEGY).
	var estimator domain.Estimator
	switch cfg.EstimationStrategy {
	case config.StrategyRemote:
		estimator = calcengine.NewClient(cfg.CalculatorURL, cfg.CalculatorTimeout, logger, metrics)
		metrics.RemoteEnabled.Set(1)
		logger.Info("remote estimation enabled", "url", cfg.CalculatorURL, "timeout", cfg.CalculatorTimeout)
	default:
		estimator = domain.NewLocalEstimator(cfg.ElectricityPricePerKWh)
		metrics.RemoteEnabled.Set(0)
		logger.Info("local estimation enabled", "electricity_price_per_kwh", cfg.ElectricityPricePerKWh)
	}

	// Simulation-created events (KAFKA_ENABLED).
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaSimulationTopic, logger)
		publisher = writer
		logger.Info("simulation events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSimulationTopic)
	} else {
		logger.Info("simulation events disabled")
	}

	svc := pipeline.New(store, estimator, cfg.EstimationStrategy, publisher, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, cfg.CORSAllowedOrigins, logger)

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
	if closeStore != nil {
		if err := closeStore(); err != nil {
			logger.Error("database close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
