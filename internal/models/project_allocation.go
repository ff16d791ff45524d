package models

import "time"

const AllocationStatusScheduled = "Scheduled"

type ProjectAllocation struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	EmployeeID    uint       `gorm:"not null;index" json:"employee_id"`
	InterviewDate *time.Time `gorm:"type:date" json:"interview_date"`
	ProjectName   *string    `gorm:"size:120" json:"project_name"`
	ProjectDomain *string    `gorm:"size:120" json:"project_domain"`
	Status        string     `gorm:"size:20" json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relations
	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"-"`
}

func (ProjectAllocation) TableName() string {
	return "project_allocation"
}
