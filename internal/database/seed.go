package database

import (
	"fmt"
	"strings"

	"github.com/P3chys/fresher-portal/internal/config"
	"github.com/P3chys/fresher-portal/internal/models"
	"github.com/P3chys/fresher-portal/internal/utils"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SeedTrainer creates the configured bootstrap trainer if no trainer exists yet.
func SeedTrainer(db *gorm.DB, cfg config.SeedTrainerConfig, log *logrus.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.Trainer{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Debug("Trainer already exists, skipping seed")
		return nil
	}

	hashedPassword, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("failed to hash seed password: %w", err)
	}

	trainer := models.Trainer{
		Name:     cfg.Name,
		Email:    strings.TrimSpace(cfg.Email),
		Password: hashedPassword,
	}

	if err := db.Create(&trainer).Error; err != nil {
		return err
	}

	log.WithField("email", trainer.Email).Info("Created bootstrap trainer")
	return nil
}

// UpgradeLegacyPasswords replaces plaintext passwords left by the previous
// deployment with bcrypt hashes. Rows that already hold a hash are skipped.
func UpgradeLegacyPasswords(db *gorm.DB, log *logrus.Logger) (int, error) {
	upgraded := 0

	var trainers []models.Trainer
	if err := db.Find(&trainers).Error; err != nil {
		return upgraded, err
	}
	for _, t := range trainers {
		if utils.IsPasswordHash(t.Password) {
			continue
		}
		hash, err := utils.HashPassword(t.Password)
		if err != nil {
			log.WithError(err).WithField("trainer_id", t.ID).Warn("Skipping password upgrade")
			continue
		}
		if err := db.Model(&models.Trainer{}).Where("id = ?", t.ID).Update("password", hash).Error; err != nil {
			return upgraded, err
		}
		upgraded++
	}

	var employees []models.Employee
	if err := db.Find(&employees).Error; err != nil {
		return upgraded, err
	}
	for _, e := range employees {
		if utils.IsPasswordHash(e.Password) {
			continue
		}
		hash, err := utils.HashPassword(e.Password)
		if err != nil {
			log.WithError(err).WithField("employee_id", e.ID).Warn("Skipping password upgrade")
			continue
		}
		if err := db.Model(&models.Employee{}).Where("id = ?", e.ID).Update("password", hash).Error; err != nil {
			return upgraded, err
		}
		upgraded++
	}

	log.WithField("count", upgraded).Info("Upgraded legacy plaintext passwords")
	return upgraded, nil
}
