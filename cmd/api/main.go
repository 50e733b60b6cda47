package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/wmbogo12/profiles-rest-api/internal/cache"
	"github.com/wmbogo12/profiles-rest-api/internal/config"
	"github.com/wmbogo12/profiles-rest-api/internal/crypto"
	"github.com/wmbogo12/profiles-rest-api/internal/events"
	"github.com/wmbogo12/profiles-rest-api/internal/handler"
	"github.com/wmbogo12/profiles-rest-api/internal/middleware"
	"github.com/wmbogo12/profiles-rest-api/internal/repository"
	"github.com/wmbogo12/profiles-rest-api/internal/router"
	"github.com/wmbogo12/profiles-rest-api/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()
	setupLogger(cfg)

	hasher, err := crypto.NewPasswordHasher(cfg.PasswordHasher)
	if err != nil {
		slog.Error("invalid password hasher", "error", err)
		os.Exit(1)
	}

	db, err := repository.NewDB(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	err = repository.Migrate(migrateCtx, db, cfg.DatabaseDriver)
	cancelMigrate()
	if err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	var profileCache cache.ProfileCache = cache.Nop{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			slog.Warn("redis ping failed, cache errors will be logged", "addr", cfg.RedisAddr, "error", err)
		}
		cancelPing()
		profileCache = cache.NewRedisProfileCache(rdb, cfg.CacheTTL)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			slog.Error("event publisher close failed", "error", err)
		}
	}()

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateRPS, cfg.LoginRateBurst)
	defer loginLimiter.Stop()

	profileRepo := repository.NewProfileRepository(db)
	feedRepo := repository.NewFeedRepository(db)

	profileService := service.NewProfileService(profileRepo, hasher, profileCache, publisher)
	feedService := service.NewFeedService(feedRepo, profileRepo, publisher)
	tokens := crypto.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiry)
	authService := service.NewAuthService(profileRepo, hasher, tokens)

	h := router.New(router.Options{
		Tokens:       tokens,
		Profiles:     profileRepo,
		LoginLimiter: loginLimiter,
		DB:           db,
	}, router.Handlers{
		Profiles: handler.NewProfileViewSet(profileService),
		Feed:     handler.NewFeedViewSet(feedService),
		Login:    handler.NewLoginViewSet(authService),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting",
			"port", cfg.Port,
			"env", cfg.Env,
			"database", cfg.DatabaseDriver,
			"cache", cfg.RedisAddr != "",
			"events", len(cfg.KafkaBrokers) > 0,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

func setupLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.Env == "production" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}
