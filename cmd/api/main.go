// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the bloglist HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Select storage: PostgreSQL (with migrations) or in-memory.
//  4. Connect to Redis when configured (failed-login throttle).
//  5. Build the password hasher and token codec.
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/bloglist/internal/api"
	"github.com/taibuivan/bloglist/internal/core/blog"
	"github.com/taibuivan/bloglist/internal/platform/config"
	"github.com/taibuivan/bloglist/internal/platform/constants"
	"github.com/taibuivan/bloglist/internal/platform/migration"
	pgstore "github.com/taibuivan/bloglist/internal/platform/postgres"
	redisstore "github.com/taibuivan/bloglist/internal/platform/redis"
	"github.com/taibuivan/bloglist/internal/platform/sec"
	"github.com/taibuivan/bloglist/internal/users/account"
	"github.com/taibuivan/bloglist/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage", cfg.StorageDriver),
		slog.Bool("login_throttle", cfg.RedisURL != ""),
	)

	// Root context lives for the whole process; background workers stop with it.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Startup deadline so misconfiguration fails fast instead of hanging.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	var healthDeps api.HealthDependencies

	// ── 3. Storage ────────────────────────────────────────────────────────
	var (
		accountRepository account.Repository
		blogRepository    blog.Repository
	)

	switch cfg.StorageDriver {
	case config.DriverPostgres:
		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}()

		healthDeps.CheckDatabase = func(ctx context.Context) error { return pgstore.Ping(ctx, pool) }
		accountRepository = account.NewPostgresRepository(pool)
		blogRepository = blog.NewPostgresRepository(pool)

	default:
		if cfg.IsProduction() {
			log.Warn("in_memory_storage_in_production")
		}
		log.Warn("using_in_memory_storage")
		accountRepository = account.NewMemoryRepository()
		blogRepository = blog.NewMemoryRepository()
	}

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var throttle auth.Throttle
	if cfg.RedisURL != "" {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer closeRedis(log, rdb)

		healthDeps.CheckCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
		throttle = auth.NewRedisThrottle(rdb, auth.LoginMaxFailures, auth.LoginFailureWindow)
	}

	// ── 5. Security primitives ────────────────────────────────────────────
	hasher, err := sec.NewHasher(cfg.BcryptCost)
	must(log, err, "initialize password hasher")

	tokens, err := sec.NewTokenService(cfg.JWTSecret, constants.AuthIssuer, cfg.TokenTTL)
	must(log, err, "initialize token service")

	log.Info("security_initialized",
		slog.Int("bcrypt_cost", hasher.Cost()),
		slog.Duration("token_ttl", tokens.TTL()),
	)

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	accountService := account.NewService(accountRepository, hasher)
	blogService := blog.NewService(blogRepository, accountService, accountService)
	authService := auth.NewService(accountService, hasher, tokens, throttle)

	liveness, readiness := api.NewHealthHandlers(healthDeps, log)

	server := api.NewServer(rootCtx, cfg, log,
		api.Identity{Verifier: tokens, Resolver: accountService},
		api.Handlers{
			Liveness:  liveness,
			Readiness: readiness,
			Auth:      auth.NewHandler(authService),
			Accounts:  account.NewHandler(accountService),
			Blogs:     blog.NewHandler(blogService),
		},
	)

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	log.Info("shutting_down_server", slog.Duration("timeout", constants.ShutdownTimeout))

	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

func closeRedis(log *slog.Logger, client *goredis.Client) {
	log.Info("closing_redis_client")
	if err := client.Close(); err != nil {
		log.Error("redis_close_error", slog.Any("error", err))
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
