package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Estimation strategies accepted by ESTIMATION_STRATEGY.
const (
	StrategyLocal  = "local"
	StrategyRemote = "remote"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr           string
	CORSAllowedOrigins []string
	LogLevel           string
	LogFormat          string
	ShutdownTimeout    time.Duration

	// DatabaseURL selects the Postgres catalog store. Empty uses the
	// seeded in-memory store.
	DatabaseURL string

	EstimationStrategy     string
	ElectricityPricePerKWh float64

	// Remote calculation engine.
	CalculatorURL     string
	CalculatorTimeout time.Duration
	CalculatorAddr    string

	// Catalog lookup cache. A size of 0 disables caching.
	CatalogCacheSize int
	CatalogCacheTTL  time.Duration

	// Simulation-created events.
	KafkaEnabled         bool
	KafkaBrokers         []string
	KafkaSimulationTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	calculatorTimeout, err := parsePositiveDuration("CALCULATOR_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := parsePositiveDuration("CATALOG_CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseCacheSize()
	if err != nil {
		return nil, err
	}

	price, err := parseElectricityPrice()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":4000"),
		CORSAllowedOrigins: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,

		DatabaseURL: os.Getenv("DATABASE_URL"),

		EstimationStrategy:     sharedcfg.EnvOrDefault("ESTIMATION_STRATEGY", StrategyLocal),
		ElectricityPricePerKWh: price,

		CalculatorURL:     os.Getenv("CALCULATOR_URL"),
		CalculatorTimeout: calculatorTimeout,
		CalculatorAddr:    sharedcfg.EnvOrDefault("CALCULATOR_ADDR", ":8080"),

		CatalogCacheSize: cacheSize,
		CatalogCacheTTL:  cacheTTL,

		KafkaEnabled:         os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:         sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSimulationTopic: sharedcfg.EnvOrDefault("KAFKA_SIMULATION_TOPIC", "solar-simulations"),
	}

	switch cfg.EstimationStrategy {
	case StrategyLocal:
	case StrategyRemote:
		if cfg.CalculatorURL == "" {
			return nil, errors.New("CALCULATOR_URL is required when ESTIMATION_STRATEGY is remote")
		}
	default:
		return nil, fmt.Errorf("invalid ESTIMATION_STRATEGY %q: want %q or %q", cfg.EstimationStrategy, StrategyLocal, StrategyRemote)
	}

	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSimulationTopic == "" {
			return nil, errors.New("KAFKA_SIMULATION_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseCacheSize() (int, error) {
	s := os.Getenv("CATALOG_CACHE_SIZE")
	if s == "" {
		return 256, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid CATALOG_CACHE_SIZE")
	}
	return n, nil
}

func parseElectricityPrice() (float64, error) {
	s := os.Getenv("ELECTRICITY_PRICE_PER_KWH")
	if s == "" {
		return 0.15, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0, errors.New("invalid ELECTRICITY_PRICE_PER_KWH")
	}
	return v, nil
}
