package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/config"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/database"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/logging"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/models"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/repository/postgres"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/seed"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/services"
	"gorm.io/gorm"
)

// Seeds the Postgres store with the demo dataset. The in-memory store is
// seeded by the server itself via SEED_DEMO_DATA.
func main() {
	password := flag.String("password", "", "password given to every demo user (overrides SEED_DEMO_PASSWORD)")
	flag.Parse()

	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.StoreDriver != config.StorePostgres {
		slog.Error("seed command needs STORE_DRIVER=postgres", "store", cfg.StoreDriver)
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	err = run(db, cfg, *password)
	if cerr := database.Close(db); cerr != nil {
		slog.Error("database close error", "error", cerr)
	}
	if err != nil {
		slog.Error("seed failed", "error", err)
		os.Exit(1)
	}
}

func run(db *gorm.DB, cfg *config.Config, password string) error {
	if err := database.Migrate(db); err != nil {
		return err
	}

	store := postgres.NewStore(db)
	audit := services.NewAuditService(store.AuditLogs, nil)

	pw := cfg.SeedDemoPassword
	if password != "" {
		pw = password
	}
	summary, err := seed.Run(context.Background(), seed.Services{
		Users:      services.NewUserService(store, audit, models.Role(cfg.DefaultRoleForNewUsers)),
		Macroareas: services.NewMacroareaService(store, audit),
		Tests:      services.NewTestService(store, audit),
		Tasks:      services.NewTaskService(store, audit),
	}, seed.Options{Password: pw})
	if err != nil {
		return err
	}
	slog.Info("seed finished", "skipped", summary.Skipped, "users", summary.Users, "macroareas", summary.Macroareas, "tests", summary.Tests)
	return nil
}
