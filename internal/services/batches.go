package services

import (
	"context"
	"time"

	"github.com/P3chys/fresher-portal/internal/models"
	"gorm.io/gorm"
)

type BatchService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewBatchService(db *gorm.DB, activity *ActivityService) *BatchService {
	return &BatchService{db: db, activity: activity}
}

type CreateBatchInput struct {
	Name      string
	Domain    *string
	StartDate *time.Time
}

// BatchDetail is everything the batch page shows.
type BatchDetail struct {
	Batch        models.Batch        `json:"batch"`
	Employees    []models.Employee   `json:"employees"`
	AllEmployees []models.Employee   `json:"all_employees"`
	Evaluations  []models.Evaluation `json:"evaluations"`
}

func (s *BatchService) ListForTrainer(ctx context.Context, trainerID uint) ([]models.Batch, error) {
	var batches []models.Batch
	err := s.db.WithContext(ctx).Where("trainer_id = ?", trainerID).Order("id").Find(&batches).Error
	return batches, err
}

// Create stores a batch owned by trainerID. The owner is never taken from
// form input.
func (s *BatchService) Create(ctx context.Context, trainerID uint, input CreateBatchInput) (*models.Batch, error) {
	batch := models.Batch{
		Name:      input.Name,
		Domain:    input.Domain,
		StartDate: input.StartDate,
		TrainerID: trainerID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&batch).Error; err != nil {
			return err
		}
		return s.activity.CreateActivity(tx, Actor{Role: "trainer", ID: trainerID}, models.ActivityBatchCreated, nil, &batch.ID, map[string]interface{}{
			"name": batch.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	return &batch, nil
}

func (s *BatchService) Get(ctx context.Context, id uint) (*models.Batch, error) {
	var batch models.Batch
	if err := s.db.WithContext(ctx).First(&batch, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &batch, nil
}

func (s *BatchService) Detail(ctx context.Context, id uint) (*BatchDetail, error) {
	batch, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	detail := &BatchDetail{Batch: *batch}

	if err := db.Where("batch_id = ?", id).Order("id").Find(&detail.Employees).Error; err != nil {
		return nil, err
	}
	if err := db.Order("id").Find(&detail.AllEmployees).Error; err != nil {
		return nil, err
	}
	if err := db.Where("batch_id = ?", id).Order("id").Find(&detail.Evaluations).Error; err != nil {
		return nil, err
	}
	return detail, nil
}
