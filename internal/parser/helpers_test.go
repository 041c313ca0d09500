package parser

import (
	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// word builds a token roughly 6 points per character wide and 8 points tall.
func word(text string, x, y float64) models.WordToken {
	return models.WordToken{
		Text: text,
		X0:   x,
		Y0:   y,
		X1:   x + 6*float64(len(text)),
		Y1:   y + 8,
	}
}

// row places texts at the given x positions on one baseline.
func row(y float64, cells ...any) []models.WordToken {
	var words []models.WordToken
	for i := 0; i+1 < len(cells); i += 2 {
		words = append(words, word(cells[i].(string), toFloat(cells[i+1]), y))
	}
	return words
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	}
	panic("row: x must be int or float64")
}

func lineOf(words []models.WordToken) models.Line {
	return models.Line{Y: words[0].Y0, Words: words}
}

func derefOrNil(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
