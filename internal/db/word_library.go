package db

import "time"

type WordLibrary struct {
	ID        uint      `gorm:"primaryKey"`
	Word      string    `gorm:"size:128;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (WordLibrary) TableName() string {
	return "word_library"
}
