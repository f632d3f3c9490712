package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration

	// USGS feed source.
	USGSFeedBaseURL  string
	USGSQueryBaseURL string
	USGSTimeout      time.Duration
	USGSRateLimit    float64
	USGSRateBurst    int
	FeedConcurrency  int

	// Inbound API rate limiting, per client IP.
	APIRateLimit float64
	APIRateBurst int

	// Optional result event publishing.
	KafkaEnabled      bool
	KafkaBrokers      []string
	KafkaResultsTopic string

	// Tracing. Spans are exported over OTLP/HTTP only when an endpoint is set.
	ServiceName  string
	OTLPEndpoint string
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn(".env load failed", "error", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	requestTimeout, err := parseDuration("REQUEST_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	usgsTimeout, err := parseDuration("USGS_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	usgsRate, err := parsePositiveFloat("USGS_RATE_LIMIT", "10")
	if err != nil {
		return nil, err
	}
	usgsBurst, err := parseIntInRange("USGS_RATE_BURST", "10", 1, 1000)
	if err != nil {
		return nil, err
	}
	concurrency, err := parseIntInRange("FEED_CONCURRENCY", "4", 1, 32)
	if err != nil {
		return nil, err
	}
	apiRate, err := parsePositiveFloat("API_RATE_LIMIT", "5")
	if err != nil {
		return nil, err
	}
	apiBurst, err := parseIntInRange("API_RATE_BURST", "10", 1, 10000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		RequestTimeout:  requestTimeout,

		USGSFeedBaseURL:  strings.TrimRight(sharedcfg.EnvOrDefault("USGS_FEED_BASE_URL", "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary"), "/"),
		USGSQueryBaseURL: strings.TrimRight(sharedcfg.EnvOrDefault("USGS_QUERY_BASE_URL", "https://earthquake.usgs.gov/fdsnws/event/1"), "/"),
		USGSTimeout:      usgsTimeout,
		USGSRateLimit:    usgsRate,
		USGSRateBurst:    usgsBurst,
		FeedConcurrency:  concurrency,

		APIRateLimit: apiRate,
		APIRateBurst: apiBurst,

		KafkaEnabled:      os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:      sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaResultsTopic: strings.TrimSpace(sharedcfg.EnvOrDefault("KAFKA_RESULTS_TOPIC", "quake-query-results")),

		ServiceName:  sharedcfg.EnvOrDefault("OTEL_SERVICE_NAME", "quake-data-service"),
		OTLPEndpoint: strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
	}

	if cfg.USGSFeedBaseURL == "" {
		return nil, errors.New("USGS_FEED_BASE_URL is required")
	}
	if cfg.USGSQueryBaseURL == "" {
		return nil, errors.New("USGS_QUERY_BASE_URL is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaResultsTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_RESULTS_TOPIC is empty")
	}

	return cfg, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveFloat(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive number", key)
	}
	return v, nil
}

func parseIntInRange(key, def string, lo, hi int) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s: must be between %d and %d", key, lo, hi)
	}
	return n, nil
}
