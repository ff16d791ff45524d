package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/P3chys/fresher-portal/internal/models"
	"github.com/P3chys/fresher-portal/internal/utils"
	"gorm.io/gorm"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

// NormalizeEmployeeEmail trims and lowercases an employee email. Trainer
// emails are matched exactly as typed.
func NormalizeEmployeeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) RegisterTrainer(ctx context.Context, name, email, password string) (*models.Trainer, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.Trainer{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	trainer := models.Trainer{Name: name, Email: email, Password: hash}
	if err := db.Create(&trainer).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &trainer, nil
}

// RegisterEmployee creates an employee without a domain; the domain is
// assigned later by a trainer.
func (s *AuthService) RegisterEmployee(ctx context.Context, name, email, password string, doj *time.Time) (*models.Employee, error) {
	db := s.db.WithContext(ctx)
	email = NormalizeEmployeeEmail(email)

	var count int64
	if err := db.Model(&models.Employee{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	employee := models.Employee{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: hash,
		Domain:   nil,
		DOJ:      doj,
	}
	if err := db.Create(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &employee, nil
}

func (s *AuthService) LoginTrainer(ctx context.Context, email, password string) (*models.Trainer, error) {
	var trainer models.Trainer
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&trainer).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.VerifyPassword(trainer.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return &trainer, nil
}

func (s *AuthService) LoginEmployee(ctx context.Context, email, password string) (*models.Employee, error) {
	var employee models.Employee
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmployeeEmail(email)).First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.VerifyPassword(employee.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return &employee, nil
}

func (s *AuthService) GetTrainer(ctx context.Context, id uint) (*models.Trainer, error) {
	var trainer models.Trainer
	if err := s.db.WithContext(ctx).First(&trainer, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &trainer, nil
}
