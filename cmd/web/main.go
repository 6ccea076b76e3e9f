package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/weather-to-wear/internal/activity"
	"github.com/couchcryptid/weather-to-wear/internal/adapter/backend"
	"github.com/couchcryptid/weather-to-wear/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/weather-to-wear/internal/adapter/kafka"
	"github.com/couchcryptid/weather-to-wear/internal/adapter/postgres"
	"github.com/couchcryptid/weather-to-wear/internal/config"
	"github.com/couchcryptid/weather-to-wear/internal/domain"
	"github.com/couchcryptid/weather-to-wear/internal/observability"
	"github.com/couchcryptid/weather-to-wear/internal/page"
	"github.com/couchcryptid/weather-to-wear/internal/preference"
	"github.com/couchcryptid/weather-to-wear/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	prefs, closePrefs, err := preferenceBinder(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to set up preference store", "backend", cfg.PreferenceBackend, "error", err)
		os.Exit(1)
	}
	defer closePrefs()

	client := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout, metrics, logger)
	suggester := backend.NewRateLimitedSuggester(client, cfg.SuggestionsRateLimit, cfg.SuggestionsRateBurst)

	// Activity events (feature-flagged via ACTIVITY_ENABLED / KAFKA_BROKERS).
	var (
		recorder domain.ActivityRecorder
		ready    sharedobs.ReadinessChecker = httpadapter.AlwaysReady{}
		writer   *kafkaadapter.Writer
		rec      *activity.Recorder
	)
	if cfg.ActivityEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		rec = activity.NewRecorder(writer, logger, metrics, cfg.BatchSize, cfg.BatchFlushInterval)
		recorder, ready = rec, rec
		logger.Info("activity events enabled", "topic", cfg.KafkaActivityTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("activity events disabled")
	}

	ctrl := page.NewController(client, suggester, recorder, metrics, logger, page.Options{
		DefaultLabel:   cfg.DefaultLocationLabel,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})
	sessions, err := session.NewStore(cfg.SessionCacheSize, logger)
	if err != nil {
		logger.Error("failed to create session store", "error", err)
		os.Exit(1)
	}
	pages := httpadapter.NewPages(ctrl, sessions, prefs, httpadapter.PageOptions{
		BannerTTL:      cfg.BannerTTL,
		MaxUploadBytes: cfg.MaxUploadBytes,
		SecureCookies:  cfg.SecureCookies,
	}, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, pages, ready, cfg.BackendTimeout+cfg.ShutdownTimeout, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	// Start activity recorder.
	recDone := make(chan struct{})
	go func() {
		defer close(recDone)
		if rec == nil {
			return
		}
		if err := rec.Run(ctx); err != nil {
			logger.Error("activity recorder error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	<-recDone
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}

// preferenceBinder selects the location preference store named by
// PREFERENCE_BACKEND. The returned func releases its resources.
func preferenceBinder(ctx context.Context, cfg *config.Config, logger *slog.Logger) (preference.Binder, func(), error) {
	switch cfg.PreferenceBackend {
	case config.PreferenceMemory:
		return preference.NewRepositoryBinder(preference.NewMemoryRepository(), cfg.SecureCookies, logger), func() {}, nil
	case config.PreferencePostgres:
		repo, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("postgres preference store connected")
		return preference.NewRepositoryBinder(repo, cfg.SecureCookies, logger), repo.Close, nil
	default:
		return preference.CookieBinder{Secure: cfg.SecureCookies}, func() {}, nil
	}
}
