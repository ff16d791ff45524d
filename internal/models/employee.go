package models

import "time"

type Employee struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:120;not null" json:"name"`
	Email     string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"size:120;not null" json:"-"`
	Domain    *string    `gorm:"size:120" json:"domain"`
	DOJ       *time.Time `gorm:"column:doj;type:date" json:"doj"`
	BatchID   *uint      `gorm:"index" json:"batch_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Relations
	Batch *Batch `gorm:"foreignKey:BatchID" json:"-"`
}

func (Employee) TableName() string {
	return "employee"
}
