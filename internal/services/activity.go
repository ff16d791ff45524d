package services

import (
	"context"
	"encoding/json"

	"github.com/P3chys/fresher-portal/internal/models"
	"gorm.io/gorm"
)

type ActivityService struct {
	db *gorm.DB
}

func NewActivityService(db *gorm.DB) *ActivityService {
	return &ActivityService{
		db: db,
	}
}

// Actor identifies who performed an audited action.
type Actor struct {
	Role string
	ID   uint
}

// CreateActivity writes an audit row using tx, so it commits or rolls back
// together with the action it describes.
func (s *ActivityService) CreateActivity(tx *gorm.DB, actor Actor, activityType models.ActivityType, employeeID, batchID *uint, metadata map[string]interface{}) error {
	metadataJSON := "{}"
	if len(metadata) > 0 {
		bytes, err := json.Marshal(metadata)
		if err == nil {
			metadataJSON = string(bytes)
		}
	}

	activity := models.Activity{
		ActorRole:    actor.Role,
		ActorID:      actor.ID,
		ActivityType: activityType,
		EmployeeID:   employeeID,
		BatchID:      batchID,
		Metadata:     metadataJSON,
	}

	return tx.Create(&activity).Error
}

func (s *ActivityService) GetRecentActivities(ctx context.Context, limit int) ([]models.Activity, error) {
	var activities []models.Activity
	err := s.db.WithContext(ctx).
		Order("id desc").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
