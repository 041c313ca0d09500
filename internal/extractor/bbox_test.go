package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

const bboxSample = `<!DOCTYPE html>
<html xmlns="http://www.w3.org/1999/xhtml">
<head><title>statement</title></head>
<body>
<doc>
  <page width="595.276" height="841.890">
    <word xMin="20.000" yMin="96.000" xMax="62.000" yMax="104.000">01/01/2022</word>
    <word xMin="110.000" yMin="96.200" xMax="140.000" yMax="104.200">Debit</word>
    <word xMin="380.000" yMin="96.000" xMax="400.000" yMax="104.000">20.00</word>
    <word xMin="110.000" yMin="108.000" xMax="150.000" yMax="116.000">7-ELEVEN</word>
    <word xMin="bad" yMin="1" xMax="2" yMax="3">skipped</word>
  </page>
  <page width="595.276" height="841.890">
  </page>
</doc>
</body>
</html>`

func TestParseBBoxHTML(t *testing.T) {
	doc, err := parseBBoxHTML(strings.NewReader(bboxSample))
	require.NoError(t, err)
	require.Len(t, doc.Pages, 2)

	p := doc.Pages[0]
	assert.Equal(t, 1, p.Number)
	require.Len(t, p.Words, 4)
	assert.Equal(t, models.WordToken{Text: "01/01/2022", X0: 20, Y0: 96, X1: 62, Y1: 104}, p.Words[0])
	assert.Equal(t, "01/01/2022 Debit 20.00\n7-ELEVEN", p.Text)

	assert.Equal(t, 2, doc.Pages[1].Number)
	assert.Empty(t, doc.Pages[1].Words)
	assert.Empty(t, doc.Pages[1].Text)
}

func TestParseBBoxHTML_NoPages(t *testing.T) {
	_, err := parseBBoxHTML(strings.NewReader("<html><body><p>nothing</p></body></html>"))
	assert.ErrorIs(t, err, ErrNoPages)
}

func TestIsReadable(t *testing.T) {
	clean := strings.Repeat("Transaction Details ", 5)
	tests := []struct {
		name string
		doc  models.Document
		want bool
	}{
		{"clean text", models.Document{Pages: []models.Page{{Words: []models.WordToken{{Text: "x"}}, Text: clean}}}, true},
		{"no words", models.Document{Pages: []models.Page{{Text: clean}}}, false},
		{"too short", models.Document{Pages: []models.Page{{Words: []models.WordToken{{Text: "x"}}, Text: "short"}}}, false},
		{"garbage glyphs", models.Document{Pages: []models.Page{{Words: []models.WordToken{{Text: "x"}}, Text: strings.Repeat("\u0001\u0002é", 30)}}}, false},
		{"empty", models.Document{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isReadable(tt.doc))
		})
	}
}

func TestTextQuality(t *testing.T) {
	assert.Equal(t, 0.0, textQuality(models.Document{}))
	assert.Equal(t, 1.0, textQuality(models.Document{Pages: []models.Page{{Text: "abc\n"}}}))
	assert.InDelta(t, 0.5, textQuality(models.Document{Pages: []models.Page{{Text: "abéé"}}}), 1e-9)
}
