package services

import (
	"context"
	"errors"

	"github.com/P3chys/fresher-portal/internal/models"
	"gorm.io/gorm"
)

// PassMark is the lowest aggregate (and, in reports, individual mark) that passes.
const PassMark = 60.0

type EvaluationService struct {
	db       *gorm.DB
	activity *ActivityService
}

func NewEvaluationService(db *gorm.DB, activity *ActivityService) *EvaluationService {
	return &EvaluationService{db: db, activity: activity}
}

// Marks are the three assessment scores submitted by a trainer. A mark left
// blank on the form arrives here as zero.
type Marks struct {
	M1     int
	Sprint int
	L1     int
}

// ComputeResult applies the write-time rule: aggregate is the plain mean of
// the three marks and the result passes when the aggregate reaches PassMark.
func ComputeResult(m Marks) (float64, string) {
	aggregate := float64(m.M1+m.Sprint+m.L1) / 3.0
	if aggregate >= PassMark {
		return aggregate, models.ResultPass
	}
	return aggregate, models.ResultFail
}

// Record creates or refreshes the evaluation row of (employeeID, batchID).
// Concurrent edits of the same pair are last-write-wins.
func (s *EvaluationService) Record(ctx context.Context, trainerID, employeeID, batchID uint, marks Marks) (*models.Evaluation, error) {
	var evaluation models.Evaluation

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var employee models.Employee
		if err := tx.First(&employee, employeeID).Error; err != nil {
			return notFound(err)
		}
		var batch models.Batch
		if err := tx.First(&batch, batchID).Error; err != nil {
			return notFound(err)
		}

		err := tx.Where("employee_id = ? AND batch_id = ?", employeeID, batchID).First(&evaluation).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			evaluation = models.Evaluation{EmployeeID: employeeID, BatchID: batchID}
		}

		aggregate, result := ComputeResult(marks)
		m1, sprint, l1 := marks.M1, marks.Sprint, marks.L1
		evaluation.M1Marks = &m1
		evaluation.SprintMarks = &sprint
		evaluation.L1Marks = &l1
		evaluation.Aggregate = &aggregate
		evaluation.Result = &result

		if err := tx.Save(&evaluation).Error; err != nil {
			return err
		}

		return s.activity.CreateActivity(tx, Actor{Role: "trainer", ID: trainerID}, models.ActivityEvaluationRecorded, &employeeID, &batchID, map[string]interface{}{
			"aggregate": aggregate,
			"result":    result,
		})
	})
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}

// latestEvaluation returns the most recently created evaluation of an
// employee across all batches, or nil when there is none.
func latestEvaluation(db *gorm.DB, employeeID uint) (*models.Evaluation, error) {
	var evaluation models.Evaluation
	err := db.Where("employee_id = ?", employeeID).Order("id desc").Limit(1).Find(&evaluation).Error
	if err != nil {
		return nil, err
	}
	if evaluation.ID == 0 {
		return nil, nil
	}
	return &evaluation, nil
}
