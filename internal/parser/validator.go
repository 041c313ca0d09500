package parser

import (
	"strings"
	"unicode/utf8"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// Validation is the outcome of the pre-flight integrity gate.
type Validation struct {
	Proceed    bool
	Confidence float64
	Warnings   []string
}

// ValidateDocument checks the document before any page is parsed. Only an
// empty document stops the parse; a thin text layer or missing headers
// lower the confidence multiplicatively.
func ValidateDocument(doc models.Document, cfg Config) Validation {
	if len(doc.Pages) == 0 {
		return Validation{Proceed: false, Confidence: 0, Warnings: []string{"Empty document"}}
	}

	v := Validation{Proceed: true, Confidence: 1.0}
	text := doc.Pages[0].Text

	if utf8.RuneCountInString(strings.TrimSpace(text)) < cfg.MinTextLength {
		v.Warnings = append(v.Warnings, "Insufficient text content - possible OCR needed")
		v.Confidence *= cfg.ThinTextPenalty
	}

	if len(cfg.ExpectedHeaders) > 0 && !containsAnyMarker(text, cfg.ExpectedHeaders) {
		v.Warnings = append(v.Warnings, "Expected headers not found")
		v.Confidence *= cfg.MissingHeaderPenalty
	}

	return v
}
