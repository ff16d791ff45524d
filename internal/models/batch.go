package models

import "time"

type Batch struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:120;not null" json:"name"`
	Domain    *string    `gorm:"size:120" json:"domain"`
	StartDate *time.Time `gorm:"type:date" json:"start_date"`
	TrainerID uint       `gorm:"not null;index;<-:create" json:"trainer_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relations
	Trainer *Trainer `gorm:"foreignKey:TrainerID" json:"-"`
}

func (Batch) TableName() string {
	return "batch"
}
