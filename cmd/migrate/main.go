package main

import (
	"context"
	"flag"
	"log"
	"time"

	"simple-ecommerce/config"
	"simple-ecommerce/internal/store"
	"simple-ecommerce/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cmd := flag.String("cmd", "up", "up, down or version")
	steps := flag.Int("steps", 1, "number of migrations to roll back with -cmd=down")
	withSeed := flag.Bool("seed", false, "load demo users and catalog into empty tables after migrating up")
	flag.Parse()

	cfg := config.Load()
	if err := util.InitLogger(cfg.Observ.ServiceName, cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()
	logger := util.GetLogger()

	switch *cmd {
	case "up":
		if err := store.MigrateUp(cfg.Database.URL); err != nil {
			logger.Fatal("Migration failed", zap.Error(err))
		}
		logger.Info("Migrations applied")

		if *withSeed {
			if err := seed(cfg.Database.URL); err != nil {
				logger.Fatal("Seeding failed", zap.Error(err))
			}
			logger.Info("Seed data loaded")
		}

	case "down":
		if err := store.MigrateDown(cfg.Database.URL, *steps); err != nil {
			logger.Fatal("Rollback failed", zap.Error(err))
		}
		logger.Info("Migrations rolled back", zap.Int("steps", *steps))

	case "version":
		version, dirty, err := store.MigrationVersion(cfg.Database.URL)
		if err != nil {
			logger.Fatal("Failed to read migration version", zap.Error(err))
		}
		logger.Info("Schema version", zap.Uint("version", version), zap.Bool("dirty", dirty))

	default:
		logger.Fatal("Unknown command", zap.String("cmd", *cmd))
	}
}

func seed(databaseURL string) error {
	db, err := store.NewStore(databaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	userHash, err := bcrypt.GenerateFromPassword([]byte("user123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return db.Seed(ctx, string(adminHash), string(userHash))
}
