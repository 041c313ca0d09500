package parser

import (
	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// FindTableStart returns the index of the first line belonging to the
// transaction table. A line carrying a start marker puts the table at the
// following line; a line beginning with a date is itself the first row.
// ok is false when neither appears, which is normal for summary pages.
func FindTableStart(lines []models.Line, cfg Config) (idx int, ok bool) {
	for i, line := range lines {
		text := line.Text()
		if hasStartMarker(text, cfg) {
			return i + 1, true
		}
		if startsWithDate(text) {
			return i, true
		}
	}
	return 0, false
}

// hasStartMarker reports whether text carries a table start marker.
func hasStartMarker(text string, cfg Config) bool {
	for _, marker := range cfg.TableStartMarkers {
		if containsFold(text, marker) {
			return true
		}
	}
	return false
}

