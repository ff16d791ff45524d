package models

import "time"

// Feedback is an employee's rating of their trainer and the curriculum.
// TrainerID is captured at submission time and never re-derived.
type Feedback struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	TrainerID     *uint     `gorm:"index" json:"trainer_id"`
	EmployeeID    uint      `gorm:"not null;index" json:"employee_id"`
	TrainerQ1     int       `gorm:"column:trainer_q1" json:"trainer_q1"`
	TrainerQ2     int       `gorm:"column:trainer_q2" json:"trainer_q2"`
	TrainerQ3     int       `gorm:"column:trainer_q3" json:"trainer_q3"`
	TrainerQ4     int       `gorm:"column:trainer_q4" json:"trainer_q4"`
	TrainerQ5     int       `gorm:"column:trainer_q5" json:"trainer_q5"`
	CurriculumQ1  int       `gorm:"column:curriculum_q1" json:"curriculum_q1"`
	CurriculumQ2  int       `gorm:"column:curriculum_q2" json:"curriculum_q2"`
	CurriculumQ3  int       `gorm:"column:curriculum_q3" json:"curriculum_q3"`
	CurriculumQ4  int       `gorm:"column:curriculum_q4" json:"curriculum_q4"`
	CurriculumQ5  int       `gorm:"column:curriculum_q5" json:"curriculum_q5"`
	Comments      *string   `gorm:"type:text" json:"comments"`
	OverallRating *int      `json:"overall_rating"`
	CreatedAt     time.Time `json:"created_at"`

	// Relations
	Trainer  *Trainer  `gorm:"foreignKey:TrainerID" json:"-"`
	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"-"`
}

func (Feedback) TableName() string {
	return "feedback"
}
