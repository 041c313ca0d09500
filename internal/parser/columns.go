package parser

import (
	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// ColumnClassifier maps an x0 coordinate to a column using calibrated
// lower bounds. The date column is never returned; it is positional.
type ColumnClassifier struct {
	bounds []ColumnBound
}

// NewColumnClassifier builds a classifier from the calibration's bounds,
// which must already be in descending order.
func NewColumnClassifier(cfg Config) ColumnClassifier {
	return ColumnClassifier{bounds: cfg.ColumnBounds}
}

// Classify returns the column of the first bound that x0 exceeds.
func (c ColumnClassifier) Classify(x0 float64) models.Column {
	for _, b := range c.bounds {
		if x0 > b.LowerBound {
			return b.Column
		}
	}
	return models.ColumnDescription
}

