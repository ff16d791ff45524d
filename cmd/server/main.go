package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/P3chys/fresher-portal/internal/config"
	"github.com/P3chys/fresher-portal/internal/database"
	"github.com/P3chys/fresher-portal/internal/logger"
	"github.com/P3chys/fresher-portal/internal/router"
	"github.com/P3chys/fresher-portal/internal/services"
	"github.com/P3chys/fresher-portal/internal/session"
	"github.com/sirupsen/logrus"
)

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

	if err := database.SeedTrainer(db, cfg.SeedTrainer, log); err != nil {
		log.WithError(err).Warn("Failed to seed trainer")
	}

	infra := router.Infra{}

	if cfg.RedisURL != "" {
		store, err := session.NewRedisStore(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("Redis unavailable, keeping sessions in memory without rate limiting")
		} else {
			defer store.Close()
			infra.Sessions = store
			infra.Redis = store.Client()
		}
	}

	if cfg.MinIOEndpoint != "" {
		storage, err := services.NewStorageService(cfg)
		if err != nil {
			log.WithError(err).Warn("Failed to initialize storage service, report archiving disabled")
		} else {
			infra.Archive = storage
		}
	}

	if cfg.MeiliURL != "" {
		infra.Search = services.NewSearchService(cfg, log)
	}

	if cfg.SMTPHost != "" {
		infra.Notifier = services.NewEmailService(cfg)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.Setup(db, cfg, infra, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Shutting down server")
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Graceful shutdown failed")
	}
}
