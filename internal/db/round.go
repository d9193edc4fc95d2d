package db

import "time"

type RoundStatus struct {
	Round        int       `gorm:"column:round;primaryKey;autoIncrement:false"`
	ActivePlayer string    `gorm:"size:64;not null"`
	ActiveWord   string    `gorm:"size:128;not null"`
	Status       string    `gorm:"size:32;not null"`
	Outcome      string    `gorm:"size:16;not null;default:''"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

func (RoundStatus) TableName() string {
	return "round_status"
}
