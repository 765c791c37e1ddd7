package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Feed cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// USGS feed.
	FeedBaseURL string
	FeedTimeout time.Duration
	FeedRetries int

	// Raw feed cache.
	FeedCacheBackend string
	FeedCacheTTL     time.Duration
	FeedCacheSize    int
	RedisAddr        string
	RedisPassword    string
	RedisDB          int

	// Event export.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string

	// Mapbox map tiles and reverse geocoding.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Push interval for live websocket clients.
	RefreshInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset. A .env file in the working directory is loaded first if
// present; variables already set in the environment take precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	feedTimeout, err := parsePositiveDuration("FEED_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	feedCacheTTL, err := parseDuration("FEED_CACHE_TTL", "60s")
	if err != nil {
		return nil, err
	}
	mapboxTimeout, err := parsePositiveDuration("MAPBOX_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	refreshInterval, err := parsePositiveDuration("REFRESH_INTERVAL", "60s")
	if err != nil {
		return nil, err
	}

	feedRetries, err := parseInt("FEED_RETRIES", 3, 1, 10)
	if err != nil {
		return nil, err
	}
	feedCacheSize, err := parseInt("FEED_CACHE_SIZE", 32, 1, 1000)
	if err != nil {
		return nil, err
	}
	redisDB, err := parseInt("REDIS_DB", 0, 0, 15)
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		FeedBaseURL: sharedcfg.EnvOrDefault("USGS_FEED_URL", "https://earthquake.usgs.gov/earthquakes/feed/v1.0/summary"),
		FeedTimeout: feedTimeout,
		FeedRetries: feedRetries,

		FeedCacheBackend: sharedcfg.EnvOrDefault("FEED_CACHE_BACKEND", CacheMemory),
		FeedCacheTTL:     feedCacheTTL,
		FeedCacheSize:    feedCacheSize,
		RedisAddr:        sharedcfg.EnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          redisDB,

		KafkaEnabled: os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers: sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "earthquake-events"),

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: parseMapboxCacheSize(),

		RefreshInterval: refreshInterval,
	}

	if cfg.FeedBaseURL == "" {
		return nil, errors.New("USGS_FEED_URL is required")
	}
	switch cfg.FeedCacheBackend {
	case CacheMemory, CacheRedis, CacheNone:
	default:
		return nil, fmt.Errorf("invalid FEED_CACHE_BACKEND %q: want memory, redis or none", cfg.FeedCacheBackend)
	}
	if cfg.FeedCacheBackend == CacheRedis && cfg.RedisAddr == "" {
		return nil, errors.New("FEED_CACHE_BACKEND is redis but REDIS_ADDR is not set")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when KAFKA_ENABLED is true")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}

	return cfg, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := parseDuration(key, def)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, def, lo, hi int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s: must be an integer between %d and %d", key, lo, hi)
	}
	return n, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}
