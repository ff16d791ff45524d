package services

import (
	"context"

	"github.com/P3chys/fresher-portal/internal/models"
	"gorm.io/gorm"
)

type FeedbackService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewFeedbackService(db *gorm.DB, activity *ActivityService) *FeedbackService {
	return &FeedbackService{db: db, activity: activity}
}

type FeedbackInput struct {
	TrainerRatings    [5]int
	CurriculumRatings [5]int
	Comments          *string
	OverallRating     *int
}

// Submit stores one feedback entry. The trainer is the owner of the
// employee's batch at this moment; later reassignments do not change it.
func (s *FeedbackService) Submit(ctx context.Context, employeeID uint, input FeedbackInput) (*models.Feedback, error) {
	var feedback models.Feedback

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var employee models.Employee
		if err := tx.First(&employee, employeeID).Error; err != nil {
			return notFound(err)
		}

		var trainerID *uint
		if employee.BatchID != nil {
			var batch models.Batch
			if err := tx.First(&batch, *employee.BatchID).Error; err != nil {
				return notFound(err)
			}
			trainerID = &batch.TrainerID
		}

		feedback = models.Feedback{
			TrainerID:     trainerID,
			EmployeeID:    employeeID,
			TrainerQ1:     input.TrainerRatings[0],
			TrainerQ2:     input.TrainerRatings[1],
			TrainerQ3:     input.TrainerRatings[2],
			TrainerQ4:     input.TrainerRatings[3],
			TrainerQ5:     input.TrainerRatings[4],
			CurriculumQ1:  input.CurriculumRatings[0],
			CurriculumQ2:  input.CurriculumRatings[1],
			CurriculumQ3:  input.CurriculumRatings[2],
			CurriculumQ4:  input.CurriculumRatings[3],
			CurriculumQ5:  input.CurriculumRatings[4],
			Comments:      input.Comments,
			OverallRating: input.OverallRating,
		}
		if err := tx.Create(&feedback).Error; err != nil {
			return err
		}

		return s.activity.CreateActivity(tx, Actor{Role: "employee", ID: employeeID}, models.ActivityFeedbackSubmitted, &employeeID, employee.BatchID, nil)
	})
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}
