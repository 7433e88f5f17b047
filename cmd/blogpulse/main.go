// Package main is the entry point for the BlogPulse server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"blogpulse/internal/analytics"
	"blogpulse/internal/config"
	"blogpulse/internal/database"
	"blogpulse/internal/engagement"
	"blogpulse/internal/handlers"
	"blogpulse/internal/lifecycle"
	"blogpulse/internal/router"
	"blogpulse/internal/session"
	"blogpulse/internal/store"
)

func main() {
	// Structured logger for the whole process.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible session store).
	valkeyClient := redis.NewClient(&redis.Options{
		Addr:     cfg.ValkeyAddr(),
		Password: cfg.ValkeyPassword,
	})
	if err := valkeyClient.Ping(context.Background()).Err(); err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()
	slog.Info("valkey connected", "addr", cfg.ValkeyAddr())

	// Session store backed by Valkey. Outside development, session
	// cookies are marked Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Data stores.
	userStore := store.NewUserStore(db)
	categoryStore := store.NewCategoryStore(db)
	contentStore := store.NewContentStore(db)
	statsStore := store.NewStatsStore(db)
	commentStore := store.NewCommentStore(db)
	analyticsStore := store.NewAnalyticsStore(db)

	// Services. The engagement service doubles as the lifecycle manager's
	// view recorder so detail reads count views through one code path.
	engagementSvc := engagement.New(contentStore, statsStore)
	lifecycleMgr := lifecycle.New(contentStore, categoryStore, engagementSvc)
	analyticsEngine := analytics.New(analyticsStore)

	// Handler groups.
	h := router.Handlers{
		Auth:       handlers.NewAuth(sessionStore, userStore),
		Content:    handlers.NewContent(lifecycleMgr, engagementSvc),
		Engagement: handlers.NewEngagement(engagementSvc),
		Comments:   handlers.NewComments(commentStore, contentStore, cfg.CommentDeleteMode),
		Categories: handlers.NewCategories(categoryStore),
		Stats:      handlers.NewStats(analyticsEngine),
	}

	// Chi router with all middleware and routes.
	r := router.New(sessionStore, h)

	// HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
