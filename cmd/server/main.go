package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	webAdapter "arthavidhi/internal/adapters/web"
	"arthavidhi/internal/ai"
	"arthavidhi/internal/app"
	"arthavidhi/internal/cache"
	"arthavidhi/internal/config"
	"arthavidhi/internal/core"
	"arthavidhi/internal/db"
	"arthavidhi/internal/logging"
	"arthavidhi/internal/storage"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	logger := logging.New(cfg.LogLevel)
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if cfg.JWTSecret == "" {
		logger.Fatal("config: JWT_SECRET is not set")
	}

	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Error("server exited")
		os.Exit(1)
	}
	logger.Info("server stopped")
}

// run owns every resource the server opens; returning closes them.
func run(cfg config.Config, logger *logrus.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.MigrateOnStart {
		version, err := db.Migrate(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		logger.WithField("version", version).Info("schema up to date")
	}

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	var profileCache core.ProfileCache
	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable, profile cache disabled")
		} else {
			defer rdb.Close()
			profileCache = cache.NewProfileCache(rdb, logger)
		}
	}

	uploads, err := storage.NewStore(cfg.UploadDir)
	if err != nil {
		return fmt.Errorf("upload storage: %w", err)
	}

	var drafter ai.Drafter
	if cfg.OpenAIKey != "" {
		drafter = ai.NewAgent(cfg.OpenAIKey)
	} else {
		logger.Warn("OPENAI_API_KEY is not set, bill drafting disabled")
	}

	svc := app.NewAppService(app.NewServices(pool, profileCache), drafter, uploads, logger)
	handler := webAdapter.NewHandler(svc, webAdapter.Options{
		JWTSecret:      cfg.JWTSecret,
		TokenTTL:       cfg.TokenTTL,
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookies:  cfg.SecureCookies,
		Ping:           pool.Ping,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.WithField("port", cfg.ServerPort).Info("server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}
