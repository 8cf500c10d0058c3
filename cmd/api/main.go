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

	"github.com/joho/godotenv"

	"github.com/harentsoaR/clinic-cases/internal/config"
	"github.com/harentsoaR/clinic-cases/internal/handlers"
	"github.com/harentsoaR/clinic-cases/internal/middleware"
	"github.com/harentsoaR/clinic-cases/internal/router"
	"github.com/harentsoaR/clinic-cases/internal/services"
	"github.com/harentsoaR/clinic-cases/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on environment variables.")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.Logger())

	if err := run(cfg); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	// --- Database Connection ---
	client, err := store.Connect(context.Background(), cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			slog.Warn("mongo disconnect", "error", err)
		}
	}()
	db := client.Database(cfg.MongoDatabase)
	slog.Info("connected to MongoDB", "database", cfg.MongoDatabase)

	if err := store.EnsureIndexes(context.Background(), db); err != nil {
		return err
	}

	// --- Stores, Services, Handlers ---
	sessions := middleware.NewSessions(store.NewSessions(db), []byte(cfg.SessionSecret), cfg.SessionTTL, cfg.CookieSecure)
	notificationSvc := services.NewNotificationService(cfg.TextbeltAPIKey, cfg.TextbeltURL)
	if !notificationSvc.Enabled() {
		slog.Info("TEXTBELT_API_KEY not set, case-closed SMS disabled")
	}

	h := handlers.NewHandler(
		store.NewUsers(db, cfg.BcryptCost),
		store.NewCases(db),
		store.NewAdmins(db, cfg.BcryptCost),
		sessions,
		notificationSvc,
	)

	r, err := router.New(h, cfg.CORSOrigins)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		slog.Info("Listening", "port", cfg.Port)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
