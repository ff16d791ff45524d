package main

import (
	"context"
	"time"

	"github.com/P3chys/fresher-portal/internal/config"
	"github.com/P3chys/fresher-portal/internal/database"
	"github.com/P3chys/fresher-portal/internal/logger"
	"github.com/P3chys/fresher-portal/internal/models"
	"github.com/P3chys/fresher-portal/internal/services"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.LogDir)
	if err != nil {
		logrus.Fatalf("Failed to initialize logger: %v", err)
	}

	if cfg.MeiliURL == "" {
		log.Fatal("MEILI_URL is not set, nothing to reindex")
	}

	// Initialize database
	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Initialize search service
	searchService := services.NewSearchService(cfg, log)
	employeeService := services.NewEmployeeService(db, services.NewActivityService(db))
	log.Info("Meilisearch service initialized")

	// Get counts
	var dbCount int64
	if err := db.Model(&models.Employee{}).Count(&dbCount).Error; err != nil {
		log.Fatalf("Failed to get employee count from DB: %v", err)
	}

	meiliCount, err := searchService.GetEmployeeCount()
	if err != nil {
		log.Fatalf("Failed to get employee count from Meilisearch: %v", err)
	}

	log.WithFields(logrus.Fields{"database": dbCount, "meilisearch": meiliCount}).Info("Employee counts")

	if meiliCount == dbCount {
		log.Info("Counts match. Verifying all employees are indexed...")
	} else {
		log.Info("Counts do not match. Reindexing all employees...")
	}

	// Fetch all employees in batches
	batchSize := 100
	var offset int
	totalIndexed := 0
	ctx := context.Background()

	for {
		employees, err := employeeService.List(ctx, offset, batchSize)
		if err != nil {
			log.Fatalf("Failed to fetch employees: %v", err)
		}

		if len(employees) == 0 {
			break
		}

		if err := searchService.IndexEmployees(employees); err != nil {
			log.WithError(err).WithField("offset", offset).Warn("Failed to index batch")
		} else {
			totalIndexed += len(employees)
			log.WithField("total", totalIndexed).Infof("Indexed batch of %d employees", len(employees))
		}

		offset += batchSize
		time.Sleep(100 * time.Millisecond) // Be nice to Meilisearch
	}

	// Final check
	finalMeiliCount, err := searchService.GetEmployeeCount()
	if err != nil {
		log.WithError(err).Warn("Failed to get final count")
	}

	log.WithField("meilisearch", finalMeiliCount).Info("Reindexing completed")
}
