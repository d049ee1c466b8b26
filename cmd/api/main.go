package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vaheed/coursenova/internal/api"
	"github.com/vaheed/coursenova/internal/config"
	"github.com/vaheed/coursenova/internal/logging"
	"github.com/vaheed/coursenova/internal/observability"
	"github.com/vaheed/coursenova/internal/store"
	"github.com/vaheed/coursenova/internal/telemetry"
	"github.com/vaheed/coursenova/internal/util"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	if err := logging.SetLevel(cfg.LogLevel); err != nil {
		logging.L.Warn("invalid LOG_LEVEL, keeping info", zap.String("level", cfg.LogLevel))
	}
	defer logging.L.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownOTel, err := observability.Tracing(ctx, "coursenova-api", cfg)
	if err != nil {
		logging.L.Warn("tracing disabled", zap.Error(err))
	} else {
		defer func() { _ = shutdownOTel(context.Background()) }()
	}

	if cfg.RequireDatabase && cfg.DatabaseURL == "" {
		logging.L.Fatal("REQUIRE_DATABASE is set but DATABASE_URL is empty")
	}
	if cfg.RequireAuth && cfg.JWTSigningKey == "" {
		logging.L.Fatal("REQUIRE_AUTH is set but JWT_SIGNING_KEY is empty")
	}

	var (
		st      store.Store
		closeFn func(context.Context) error
	)
	err = util.Retry(ctx, cfg.DBConnectTimeout, func() (bool, error) {
		var openErr error
		st, closeFn, openErr = store.EnvOrMemory()
		if openErr != nil {
			logging.L.Warn("store_connect_failed", zap.Error(openErr))
			return true, openErr
		}
		return false, nil
	})
	if err != nil {
		logging.L.Fatal("store init", zap.Error(err))
	}
	defer closeFn(context.Background()) //nolint:errcheck
	if cfg.DatabaseURL == "" {
		logging.L.Info("using in-memory store")
	}

	buf := telemetry.NewRedisBuffer(cfg.RedisAddr, cfg.TelemetryURL)
	buf.Run()
	defer buf.Stop()

	srv := api.NewServer(st, cfg, api.WithEvents(buf))
	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	logging.L.Info("course API listening",
		zap.String("addr", s.Addr),
		zap.String("version", cfg.ServiceVersion),
		zap.Bool("auth", cfg.RequireAuth),
	)
	if err := api.StartHTTP(ctx, s); err != nil && !errors.Is(err, context.Canceled) {
		logging.L.Error("server error", zap.Error(err))
		os.Exit(1)
	}
	logging.L.Info("course API stopped")
}
