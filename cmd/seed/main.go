// Command seed resets the database and creates the initial admin account.
// It drops every collection first, so never point it at live data.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/harentsoaR/clinic-cases/internal/config"
	"github.com/harentsoaR/clinic-cases/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, relying on environment variables.")
	}

	cfg, err := config.LoadSeedConfig()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(cfg.Logger())

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := store.Connect(ctx, cfg.MongoURI)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer client.Disconnect(context.Background())

	db := client.Database(cfg.MongoDatabase)
	if err := db.Drop(ctx); err != nil {
		slog.Error("drop database failed", "database", cfg.MongoDatabase, "error", err)
		os.Exit(1)
	}
	if err := store.EnsureIndexes(ctx, db); err != nil {
		slog.Error("index creation failed", "error", err)
		os.Exit(1)
	}

	admin, err := store.NewAdmins(db, cfg.BcryptCost).Create(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPassword)
	if err != nil {
		slog.Error("admin creation failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Done seeding database", "database", cfg.MongoDatabase, "admin", admin.Email)
}
