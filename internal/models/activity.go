package models

import (
	"time"
)

type ActivityType string

const (
	ActivityBatchCreated       ActivityType = "batch_created"
	ActivityEmployeeAssigned   ActivityType = "employee_assigned"
	ActivityEmployeeUpdated    ActivityType = "employee_updated"
	ActivityEvaluationRecorded ActivityType = "evaluation_recorded"
	ActivityProjectAllocated   ActivityType = "project_allocated"
	ActivityFeedbackSubmitted  ActivityType = "feedback_submitted"
)

type Activity struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	ActorRole    string       `gorm:"type:varchar(20);not null" json:"actor_role"`
	ActorID      uint         `gorm:"not null;index" json:"actor_id"`
	ActivityType ActivityType `gorm:"type:varchar(50);not null;index" json:"activity_type"`
	EmployeeID   *uint        `gorm:"index" json:"employee_id,omitempty"`
	BatchID      *uint        `gorm:"index" json:"batch_id,omitempty"`
	Metadata     string       `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt    time.Time    `gorm:"index" json:"created_at"`
}

func (Activity) TableName() string {
	return "activities"
}

// All returns every model managed by AutoMigrate, parents first.
func All() []interface{} {
	return []interface{}{
		&Trainer{},
		&Batch{},
		&Employee{},
		&Evaluation{},
		&ProjectAllocation{},
		&Feedback{},
		&Activity{},
	}
}
