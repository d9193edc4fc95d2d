package db

import "time"

type Player struct {
	ID           uint      `gorm:"primaryKey"`
	ConnectionID string    `gorm:"size:64;not null;uniqueIndex"`
	Name         string    `gorm:"column:player_name;size:64;not null"`
	Color        string    `gorm:"size:32;not null"`
	CreatedAt    time.Time `gorm:"not null"`
}
