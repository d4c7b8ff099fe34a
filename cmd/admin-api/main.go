// Package main provides the entry point for the Ridgeline Transport admin API.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/ridgeline-transport/admin-api/internal/admin"
	"github.com/ridgeline-transport/admin-api/internal/auth"
	"github.com/ridgeline-transport/admin-api/internal/cache"
	"github.com/ridgeline-transport/admin-api/internal/config"
	"github.com/ridgeline-transport/admin-api/internal/metrics"
	"github.com/ridgeline-transport/admin-api/internal/storage"
)

const version = "1.0.0"

// Revoked and expired refresh tokens are kept for 30 days before deletion so
// recent session history stays inspectable.
const refreshTokenRetention = 30 * 24 * time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logLevel := new(slog.LevelVar)
	logLevel.Set(parseLogLevel(cfg.LogLevel))
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, store)
	if err != nil {
		logger.Error("failed to initialize token manager", "error", err)
		os.Exit(1)
	}

	var gate *cache.Gate
	if cfg.RedisAddr != "" {
		gate = cache.New(cache.NewRedisStore(cfg.RedisAddr), logger)
		logger.Info("cache store configured", "addr", cfg.RedisAddr)
	} else {
		gate = cache.New(nil, logger)
		logger.Info("no cache store configured, caching disabled")
	}

	registry := prometheus.NewRegistry()
	if err := metrics.Init(registry); err != nil {
		logger.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	h := admin.NewHandler(store, tokens, gate, cfg.FieldKey, logLevel, logger, cfg.CookieSecure)
	router := h.NewRouter(cfg.AllowedOrigins)

	go purgeRefreshTokensLoop(context.Background(), store, logger)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(registry))
		logger.Info("metrics listener starting", "addr", cfg.MetricsListenAddr)
		if err := http.ListenAndServe(cfg.MetricsListenAddr, mux); err != nil {
			logger.Error("metrics listener failed", "error", err)
		}
	}()

	logger.Info("admin API starting",
		"version", version,
		"addr", cfg.ListenAddr,
		"field_encryption", len(cfg.FieldKey) > 0)
	if err := http.ListenAndServe(cfg.ListenAddr, router); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// purgeRefreshTokensLoop deletes refresh tokens that expired or were revoked
// more than the retention period ago. Runs hourly.
func purgeRefreshTokensLoop(ctx context.Context, store storage.Storage, logger *slog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purged, err := store.PurgeRefreshTokens(ctx, time.Now().Add(-refreshTokenRetention))
			if err != nil {
				logger.Error("refresh token purge failed", "error", err)
				continue
			}
			if purged > 0 {
				logger.Info("purged old refresh tokens", "count", purged)
			}
		}
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
