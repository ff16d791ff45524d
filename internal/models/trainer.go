package models

import "time"

type Trainer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Email     string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:120;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Batches []Batch `gorm:"foreignKey:TrainerID" json:"batches,omitempty"`
}

func (Trainer) TableName() string {
	return "trainer"
}
