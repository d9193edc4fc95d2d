package words

import (
	"context"
	"errors"
	"fmt"

	"hue-clues/internal/db"
	"hue-clues/internal/game"

	"gorm.io/gorm"
)

// Library draws a random row from the word_library table.
type Library struct {
	conn *gorm.DB
}

func NewLibrary(conn *gorm.DB) *Library {
	return &Library{conn: conn}
}

func (l *Library) NextWord(ctx context.Context) (string, error) {
	var entry db.WordLibrary
	err := l.conn.WithContext(ctx).Order("RANDOM()").Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNoWords
	}
	if err != nil {
		return "", fmt.Errorf("draw from word library: %w", err)
	}
	return entry.Word, nil
}

// Count reports how many words the library holds.
func (l *Library) Count(ctx context.Context) (int64, error) {
	var count int64
	err := l.conn.WithContext(ctx).Model(&db.WordLibrary{}).Count(&count).Error
	return count, err
}

// Fallback tries Primary first and uses Secondary when it fails.
type Fallback struct {
	Primary   game.WordSource
	Secondary game.WordSource
}

func (f Fallback) NextWord(ctx context.Context) (string, error) {
	word, err := f.Primary.NextWord(ctx)
	if err == nil {
		return word, nil
	}
	if f.Secondary == nil {
		return "", err
	}
	return f.Secondary.NextWord(ctx)
}
