package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// ErrUnknownFamily is returned for a family with no registered calibration.
var ErrUnknownFamily = errors.New("unknown document family")

// ErrFamilyNotDetected is returned when AutoDetect finds no family identifier.
var ErrFamilyNotDetected = errors.New("could not auto-detect document family from statement content; please specify -family")

// ConfigFor returns the calibration registered for the given family.
func ConfigFor(family models.Family) (Config, error) {
	switch family {
	case models.FamilyDBS, models.FamilyPOSB:
		// POSB statements are printed on the DBS template.
		return DefaultConfig(), nil
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
}

// ResolveConfig returns the family's calibration, layered with the YAML file
// at overlayPath when one is given.
func ResolveConfig(family models.Family, overlayPath string) (Config, error) {
	cfg, err := ConfigFor(family)
	if err != nil {
		return Config{}, err
	}
	if overlayPath == "" {
		return cfg, nil
	}
	return LoadConfig(overlayPath, cfg)
}

// ParseFamily accepts the spellings users type on the command line.
func ParseFamily(s string) (models.Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dbs", "dbs bank":
		return models.FamilyDBS, nil
	case "posb":
		return models.FamilyPOSB, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: dbs, posb)", ErrUnknownFamily, s)
	}
}

// AutoDetect tries to identify the family from the text of the pages.
func AutoDetect(pages []models.Page) (models.Family, error) {
	var sb strings.Builder
	for _, p := range pages {
		sb.WriteString(p.Text)
		sb.WriteString("\n")
	}
	combined := strings.ToLower(sb.String())

	// POSB statements also carry "DBS Bank Ltd" in the footer, so check it first.
	if containsAny(combined, []string{"posb", "posb.com.sg"}) {
		return models.FamilyPOSB, nil
	}
	if containsAny(combined, []string{"dbs bank", "dbs.com", "dbs "}) {
		return models.FamilyDBS, nil
	}
	return "", ErrFamilyNotDetected
}

// FamilyFallbackWarning is attached to a parse when DetectFamily found no
// family identifier and fell back to the DBS calibration.
const FamilyFallbackWarning = "Document family not detected; using dbs calibration"

// DetectFamily is AutoDetect for callers that must still parse: when no
// identifier is found it returns FamilyDBS, whose calibration POSB shares,
// together with a warning for the result. A document with no pages gets no
// warning so the integrity gate reports it alone.
func DetectFamily(pages []models.Page) (models.Family, string) {
	family, err := AutoDetect(pages)
	if err == nil {
		return family, ""
	}
	if len(pages) == 0 {
		return models.FamilyDBS, ""
	}
	return models.FamilyDBS, FamilyFallbackWarning
}

// containsAny reports whether text contains any of the needles. Both are
// expected in the same case.
func containsAny(text string, needles []string) bool {
	for _, needle := range needles {
		if needle != "" && strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
