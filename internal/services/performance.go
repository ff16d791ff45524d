package services

import (
	"context"
	"fmt"
	"math"

	"github.com/P3chys/fresher-portal/internal/models"
	"gorm.io/gorm"
)

const StatusAbsent = "-"

// PerformanceRow is one employee's line in a batch performance report.
//
// The report applies a stricter rule than the stored evaluation result: a
// row only passes when every individual mark passes as well as the
// aggregate. Both rules are kept; the stored result is not reconciled.
type PerformanceRow struct {
	Employee     models.Employee `json:"employee"`
	M1           *int            `json:"m1"`
	M1Status     string          `json:"m1_status"`
	Sprint       *int            `json:"sprint"`
	SprintStatus string          `json:"sprint_status"`
	L1           *int            `json:"l1"`
	L1Status     string          `json:"l1_status"`
	Aggregate    *float64        `json:"aggregate"`
	FinalResult  string          `json:"final_result"`
}

// AggregateText renders the aggregate with two decimals, or "-".
func (r PerformanceRow) AggregateText() string {
	if r.Aggregate == nil {
		return StatusAbsent
	}
	return fmt.Sprintf("%.2f", *r.Aggregate)
}

type PerformanceReport struct {
	Batch models.Batch     `json:"batch"`
	Rows  []PerformanceRow `json:"rows"`
}

type PerformanceService struct {
	db *gorm.DB
}

func NewPerformanceService(db *gorm.DB) *PerformanceService {
	return &PerformanceService{db: db}
}

func markStatus(mark *int) string {
	if mark == nil {
		return StatusAbsent
	}
	if float64(*mark) >= PassMark {
		return models.ResultPass
	}
	return models.ResultFail
}

// BuildPerformanceRow derives the report line for an employee from their
// latest evaluation in the batch (nil when they have none).
func BuildPerformanceRow(employee models.Employee, evaluation *models.Evaluation) PerformanceRow {
	row := PerformanceRow{
		Employee:     employee,
		M1Status:     StatusAbsent,
		SprintStatus: StatusAbsent,
		L1Status:     StatusAbsent,
		FinalResult:  StatusAbsent,
	}
	if evaluation == nil {
		return row
	}

	row.M1, row.Sprint, row.L1 = evaluation.M1Marks, evaluation.SprintMarks, evaluation.L1Marks
	row.M1Status = markStatus(row.M1)
	row.SprintStatus = markStatus(row.Sprint)
	row.L1Status = markStatus(row.L1)

	if row.M1 == nil || row.Sprint == nil || row.L1 == nil {
		return row
	}

	aggregate := math.Round(float64(*row.M1+*row.Sprint+*row.L1)/3.0*100) / 100
	row.Aggregate = &aggregate

	allPassed := row.M1Status == models.ResultPass &&
		row.SprintStatus == models.ResultPass &&
		row.L1Status == models.ResultPass
	if aggregate >= PassMark && allPassed {
		row.FinalResult = models.ResultPass
	} else {
		row.FinalResult = models.ResultFail
	}
	return row
}

// BatchReport builds the performance report of every employee currently in
// the batch, ordered by employee id.
func (s *PerformanceService) BatchReport(ctx context.Context, batchID uint) (*PerformanceReport, error) {
	db := s.db.WithContext(ctx)

	var batch models.Batch
	if err := db.First(&batch, batchID).Error; err != nil {
		return nil, notFound(err)
	}

	var employees []models.Employee
	if err := db.Where("batch_id = ?", batchID).Order("id").Find(&employees).Error; err != nil {
		return nil, err
	}

	report := &PerformanceReport{Batch: batch, Rows: make([]PerformanceRow, 0, len(employees))}
	for _, employee := range employees {
		var evaluation models.Evaluation
		err := db.Where("employee_id = ? AND batch_id = ?", employee.ID, batchID).
			Order("id desc").Limit(1).Find(&evaluation).Error
		if err != nil {
			return nil, err
		}

		var latest *models.Evaluation
		if evaluation.ID != 0 {
			latest = &evaluation
		}
		report.Rows = append(report.Rows, BuildPerformanceRow(employee, latest))
	}
	return report, nil
}
