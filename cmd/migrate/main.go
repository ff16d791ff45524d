package main

import (
	"github.com/P3chys/fresher-portal/internal/config"
	"github.com/P3chys/fresher-portal/internal/database"
	"github.com/P3chys/fresher-portal/internal/logger"
	"github.com/sirupsen/logrus"
)

// migrate creates the schema and upgrades plaintext passwords left by the
// previous deployment.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.LogDir)
	if err != nil {
		logrus.Fatalf("Failed to initialize logger: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, log); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if _, err := database.UpgradeLegacyPasswords(db, log); err != nil {
		log.Fatalf("Password upgrade failed: %v", err)
	}

	if err := database.SeedTrainer(db, cfg.SeedTrainer, log); err != nil {
		log.Fatalf("Seeding trainer failed: %v", err)
	}

	log.Info("Migration completed")
}
