package server

import (
	"strings"
	"sync"

	"hue-clues/internal/game"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength = 20
	maxClueLength = 40
)

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("name", func(fl validator.FieldLevel) bool {
			return validText(fl.Field().String(), maxNameLength)
		})
		_ = engine.RegisterValidation("cluetext", func(fl validator.FieldLevel) bool {
			return validText(fl.Field().String(), maxClueLength)
		})
		_ = engine.RegisterValidation("palette", func(fl validator.FieldLevel) bool {
			_, ok := game.Palette[fl.Field().String()]
			return ok
		})
	})
}

func validText(text string, maxLen int) bool {
	trimmed := normalizeText(text)
	return trimmed != "" && len(trimmed) <= maxLen && isSafeText(trimmed)
}

func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func isSafeText(text string) bool {
	for _, r := range text {
		if r > 127 {
			return false
		}
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		switch r {
		case ' ', '-', '_', '\'', '"', '.', ',', '!', '?', ':', ';', '&', '(', ')', '/':
			continue
		default:
			return false
		}
	}
	return true
}
