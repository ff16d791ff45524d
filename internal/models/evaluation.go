package models

import "time"

const (
	ResultPass = "Pass"
	ResultFail = "Fail"
)

// Evaluation holds the marks of one employee within one batch. The
// (employee_id, batch_id) pair is unique, so edits always refresh the same row.
type Evaluation struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EmployeeID  uint      `gorm:"not null;uniqueIndex:idx_evaluation_employee_batch" json:"employee_id"`
	BatchID     uint      `gorm:"not null;uniqueIndex:idx_evaluation_employee_batch;index" json:"batch_id"`
	M1Marks     *int      `gorm:"column:m1_marks" json:"m1_marks"`
	SprintMarks *int      `gorm:"column:sprint_marks" json:"sprint_marks"`
	L1Marks     *int      `gorm:"column:l1_marks" json:"l1_marks"`
	Aggregate   *float64  `json:"aggregate"`
	Result      *string   `gorm:"size:10" json:"result"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"-"`
	Batch    *Batch    `gorm:"foreignKey:BatchID" json:"-"`
}

func (Evaluation) TableName() string {
	return "evaluation"
}

// Passed reports whether the stored result is "Pass".
func (e *Evaluation) Passed() bool {
	return e.Result != nil && *e.Result == ResultPass
}
