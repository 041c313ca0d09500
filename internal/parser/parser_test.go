package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

func TestAutoDetect(t *testing.T) {
	tests := []struct {
		name     string
		pages    []string
		expected models.Family
		wantErr  bool
	}{
		{
			name:     "detects DBS",
			pages:    []string{"DBS Bank Ltd\nConsolidated Statement\n01/01/2022"},
			expected: models.FamilyDBS,
		},
		{
			name:     "detects POSB before DBS footer",
			pages:    []string{"POSB Savings Account\n", "DBS Bank Ltd Co. Reg. No. 196800306E"},
			expected: models.FamilyPOSB,
		},
		{
			name:     "website only",
			pages:    []string{"visit www.dbs.com/sg for details"},
			expected: models.FamilyDBS,
		},
		{
			name:    "unknown family returns error",
			pages:   []string{"Some Unknown Bank\nStatement"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := make([]models.Page, len(tt.pages))
			for i, text := range tt.pages {
				pages[i] = models.Page{Number: i + 1, Text: text}
			}

			got, err := AutoDetect(pages)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrFamilyNotDetected)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDetectFamily(t *testing.T) {
	tests := []struct {
		name    string
		pages   []models.Page
		family  models.Family
		warning string
	}{
		{"detected", []models.Page{{Text: "POSB Everyday Savings"}}, models.FamilyPOSB, ""},
		{"thin text layer falls back", []models.Page{{Text: "scan"}}, models.FamilyDBS, FamilyFallbackWarning},
		{"no pages leaves the integrity gate to report", nil, models.FamilyDBS, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			family, warning := DetectFamily(tt.pages)
			assert.Equal(t, tt.family, family)
			assert.Equal(t, tt.warning, warning)
		})
	}
}

func TestConfigFor(t *testing.T) {
	for _, family := range []models.Family{models.FamilyDBS, models.FamilyPOSB} {
		cfg, err := ConfigFor(family)
		require.NoError(t, err, family)
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, 3.0, cfg.LineProximity)
	}

	_, err := ConfigFor("citibank")
	assert.ErrorIs(t, err, ErrUnknownFamily)
}

func TestParseFamily(t *testing.T) {
	tests := []struct {
		input   string
		want    models.Family
		wantErr bool
	}{
		{"dbs", models.FamilyDBS, false},
		{" DBS ", models.FamilyDBS, false},
		{"POSB", models.FamilyPOSB, false},
		{"hsbc", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFamily(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFamily)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
