package services

import (
	"context"
	"time"

	"github.com/P3chys/fresher-portal/internal/models"
	"gorm.io/gorm"
)

type AllocationService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewAllocationService(db *gorm.DB, activity *ActivityService) *AllocationService {
	return &AllocationService{db: db, activity: activity}
}

type AllocationInput struct {
	InterviewDate *time.Time
	ProjectDomain *string
}

// Allocate schedules a project interview for an employee whose most recent
// evaluation passed. It returns ErrNotEligible, and writes nothing,
// otherwise. The project name is assigned later and starts empty.
func (s *AllocationService) Allocate(ctx context.Context, trainerID, employeeID uint, input AllocationInput) (*models.ProjectAllocation, error) {
	var allocation models.ProjectAllocation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var employee models.Employee
		if err := tx.First(&employee, employeeID).Error; err != nil {
			return notFound(err)
		}

		latest, err := latestEvaluation(tx, employeeID)
		if err != nil {
			return err
		}
		if latest == nil || !latest.Passed() {
			return ErrNotEligible
		}

		allocation = models.ProjectAllocation{
			EmployeeID:    employeeID,
			InterviewDate: input.InterviewDate,
			ProjectName:   nil,
			ProjectDomain: input.ProjectDomain,
			Status:        models.AllocationStatusScheduled,
		}
		if err := tx.Create(&allocation).Error; err != nil {
			return err
		}

		return s.activity.CreateActivity(tx, Actor{Role: "trainer", ID: trainerID}, models.ActivityProjectAllocated, &employeeID, employee.BatchID, map[string]interface{}{
			"allocation_id":  allocation.ID,
			"project_domain": input.ProjectDomain,
		})
	})
	if err != nil {
		return nil, err
	}
	return &allocation, nil
}
