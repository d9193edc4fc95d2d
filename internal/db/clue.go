package db

import "time"

// Clue is keyed by the submitting player, so a resubmission overwrites.
type Clue struct {
	PlayerName string    `gorm:"column:player_name;primaryKey;size:64"`
	Color      string    `gorm:"size:32;not null"`
	Text       string    `gorm:"column:clue;size:280;not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}
