package db

import (
	"encoding/csv"
	"errors"
	"os"
	"strings"

	"gorm.io/gorm"
)

// LoadWordLibrary reads words from a CSV and upserts them into the
// word_library table. The first row is a header; the word is the last
// column so a leading category column is tolerated.
func LoadWordLibrary(conn *gorm.DB, path string) (int, error) {
	if conn == nil {
		return 0, errors.New("db connection is nil")
	}
	words, err := readWords(path)
	if err != nil {
		return 0, err
	}
	inserted := 0
	for _, word := range words {
		entry := WordLibrary{Word: word}
		if err := conn.FirstOrCreate(&entry, WordLibrary{Word: word}).Error; err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func readWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var words []string
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		word := strings.TrimSpace(row[len(row)-1])
		if word == "" {
			continue
		}
		key := strings.ToLower(word)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		words = append(words, word)
	}
	return words, nil
}
