package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Preference backends.
const (
	PreferenceCookie   = "cookie"
	PreferenceMemory   = "memory"
	PreferencePostgres = "postgres"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Weather backend.
	BackendURL     string
	BackendTimeout time.Duration

	// Pages.
	DefaultLocationLabel string
	BannerTTL            time.Duration
	SessionCacheSize     int
	MaxUploadBytes       int64
	SecureCookies        bool

	// Suggestion throttling, requests per second and burst.
	SuggestionsRateLimit float64
	SuggestionsRateBurst int

	// Location preference persistence.
	PreferenceBackend string
	DatabaseURL       string

	// Activity events.
	ActivityEnabled    bool
	KafkaBrokers       []string
	KafkaActivityTopic string
	BatchSize          int
	BatchFlushInterval time.Duration
}

// Load reads configuration from environment variables, applying defaults where
// unset. A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load() // ignore missing file

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	backendTimeout, err := parsePositiveDuration("BACKEND_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}

	bannerTTL, err := parsePositiveDuration("BANNER_TTL", "5s")
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	sessionCacheSize, err := parsePositiveInt("SESSION_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	maxUpload, err := parsePositiveInt("MAX_UPLOAD_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}

	rateBurst, err := parsePositiveInt("SUGGESTIONS_RATE_BURST", 3)
	if err != nil {
		return nil, err
	}

	rateLimit, err := strconv.ParseFloat(sharedcfg.EnvOrDefault("SUGGESTIONS_RATE_LIMIT", "1"), 64)
	if err != nil || rateLimit <= 0 {
		return nil, errors.New("invalid SUGGESTIONS_RATE_LIMIT")
	}

	brokersRaw := os.Getenv("KAFKA_BROKERS")
	activityEnabled := brokersRaw != ""
	activityEnabled, err = parseBool("ACTIVITY_ENABLED", activityEnabled)
	if err != nil {
		return nil, err
	}

	secureCookies, err := parseBool("COOKIE_SECURE", false)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		BackendURL:     strings.TrimRight(sharedcfg.EnvOrDefault("BACKEND_URL", "http://localhost:5000"), "/"),
		BackendTimeout: backendTimeout,

		DefaultLocationLabel: sharedcfg.EnvOrDefault("DEFAULT_LOCATION_LABEL", "Grand Rapids, MI"),
		BannerTTL:            bannerTTL,
		SessionCacheSize:     sessionCacheSize,
		MaxUploadBytes:       int64(maxUpload),
		SecureCookies:        secureCookies,

		SuggestionsRateLimit: rateLimit,
		SuggestionsRateBurst: rateBurst,

		PreferenceBackend: strings.ToLower(sharedcfg.EnvOrDefault("PREFERENCE_BACKEND", PreferenceCookie)),
		DatabaseURL:       os.Getenv("DATABASE_URL"),

		ActivityEnabled:    activityEnabled,
		KafkaActivityTopic: sharedcfg.EnvOrDefault("KAFKA_ACTIVITY_TOPIC", "weather-to-wear-activity"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
	}
	if brokersRaw != "" {
		cfg.KafkaBrokers = sharedcfg.ParseBrokers(brokersRaw)
	}

	if u, err := url.Parse(cfg.BackendURL); err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid BACKEND_URL: %q", cfg.BackendURL)
	}
	switch cfg.PreferenceBackend {
	case PreferenceCookie, PreferenceMemory:
	case PreferencePostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("PREFERENCE_BACKEND is postgres but DATABASE_URL is not set")
		}
	default:
		return nil, fmt.Errorf("invalid PREFERENCE_BACKEND: %q", cfg.PreferenceBackend)
	}
	if cfg.ActivityEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("ACTIVITY_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.ActivityEnabled && cfg.KafkaActivityTopic == "" {
		return nil, errors.New("KAFKA_ACTIVITY_TOPIC is required")
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

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}

func parseBool(key string, def bool) (bool, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, s)
	}
	return b, nil
}
