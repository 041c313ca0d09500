package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// DD/MM/YYYY as a whole token.
	datePatternExact = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	// DD/MM/YYYY at the start of a line.
	datePatternLeading = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}`)

	// amountStrip removes everything except digits, commas and periods
	// ("S$1,234.56" -> "1,234.56").
	amountStrip = regexp.MustCompile(`[^\d,.]`)
	// amountShape is what remains for a monetary amount.
	amountShape = regexp.MustCompile(`^[\d,]+\.\d{2}$`)
)

// isDateToken reports whether s is exactly a DD/MM/YYYY date.
func isDateToken(s string) bool {
	return datePatternExact.MatchString(s)
}

// startsWithDate reports whether line begins with a DD/MM/YYYY date.
func startsWithDate(line string) bool {
	return datePatternLeading.MatchString(strings.TrimSpace(line))
}

// tryParseAmount returns the value of text when it has the shape of a
// monetary amount with two decimals.
func tryParseAmount(text string) (float64, bool) {
	cleaned := amountStrip.ReplaceAllString(text, "")
	if !strings.Contains(cleaned, ".") || !amountShape.MatchString(cleaned) {
		return 0, false
	}
	v, err := parseAmount(cleaned)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseAmount converts a string like "1,234.56" to a float64.
func parseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	return strconv.ParseFloat(s, 64)
}

// containsFold reports whether s contains substr, ignoring case.
func containsFold(s, substr string) bool {
	return substr != "" && strings.Contains(strings.ToUpper(s), strings.ToUpper(substr))
}

// containsAnyMarker reports whether text contains any marker, case-sensitively.
func containsAnyMarker(text string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}
