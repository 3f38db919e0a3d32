// Copyright (c) 2026 Pagebound. All rights reserved.

// Command api is the entry point for the Pagebound book club HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
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

	"github.com/pagebound/bookclub/internal/api"
	"github.com/pagebound/bookclub/internal/club/author"
	"github.com/pagebound/bookclub/internal/club/book"
	"github.com/pagebound/bookclub/internal/club/dashboard"
	"github.com/pagebound/bookclub/internal/club/genre"
	"github.com/pagebound/bookclub/internal/club/meeting"
	"github.com/pagebound/bookclub/internal/club/member"
	"github.com/pagebound/bookclub/internal/club/review"
	"github.com/pagebound/bookclub/internal/platform/config"
	"github.com/pagebound/bookclub/internal/platform/constants"
	"github.com/pagebound/bookclub/internal/platform/migration"
	pgstore "github.com/pagebound/bookclub/internal/platform/postgres"
	redisstore "github.com/pagebound/bookclub/internal/platform/redis"
)

func main() {
	// Logger comes up first so even configuration failures log as JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(
		slog.String("app", constants.AppName),
		slog.String("version", constants.AppVersion),
	)
	slog.SetDefault(log)

	log.Info("service_initializing")

	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(
			slog.String("app", constants.AppName),
			slog.String("version", constants.AppVersion),
		)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// A bounded startup context keeps a bad DSN from hanging the boot
	// forever.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// Health probes ping the live pool and client.
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// Domain wiring. Each domain gets its repository, service, and
	// handler; the dashboard additionally reuses the book service for
	// its top-rated list and Redis for its cache.
	genreService := genre.NewService(genre.NewPostgresRepository(pool), log)
	authorService := author.NewService(author.NewPostgresRepository(pool), log)
	memberService := member.NewService(member.NewPostgresRepository(pool), log)
	meetingService := meeting.NewService(meeting.NewPostgresRepository(pool), log)
	reviewService := review.NewService(review.NewPostgresRepository(pool), log)
	bookService := book.NewService(book.NewPostgresRepository(pool), log)
	dashboardService := dashboard.NewService(dashboard.NewPostgresRepository(pool), bookService, rdb, log)

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Book:      book.NewHandler(bookService),
		Member:    member.NewHandler(memberService),
		Meeting:   meeting.NewHandler(meetingService),
		Review:    review.NewHandler(reviewService),
		Genre:     genre.NewHandler(genreService),
		Author:    author.NewHandler(authorService),
		Dashboard: dashboard.NewHandler(dashboardService),
	}

	// Background context for the rate limiter's cleanup goroutine; cancelled
	// when main returns.
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, cfg, log, handlers)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must terminates the process on a startup error. Only the wiring in
// main may use it; past startup every error is returned and handled.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
