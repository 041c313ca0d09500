package writer

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

func TestCSVWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	require.NoError(t, w.Write(&buf, sampleResult()))

	output := buf.String()
	assert.Contains(t, output, "# Family,dbs")
	assert.Contains(t, output, "# Confidence,0.70")
	assert.Contains(t, output, "# Warnings,Expected headers not found")
	assert.Contains(t, output, "Date,Description,Withdrawal,Deposit,Balance,Page")
	assert.Contains(t, output, "01/01/2022,Debit Card Transaction 7-ELEVEN,20.00,,7980.00,2")
	assert.Contains(t, output, `"Point-of-Sale Transaction, DHEEN",5.00,,,3`)

	lines := strings.Split(strings.TrimSpace(output), "\n")
	// 3 metadata lines + 1 header + 3 transactions
	assert.Len(t, lines, 7)
}

func TestCSVWriter_WriteNoHeader(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: false}
	require.NoError(t, w.Write(&buf, sampleResult()))

	output := buf.String()
	assert.NotContains(t, output, "# Family")
	assert.True(t, strings.HasPrefix(output, "Date,Description,Withdrawal,Deposit,Balance,Page"))

	records, err := csv.NewReader(strings.NewReader(output)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, []string{"01/01/2022", "INCOMING PAYNOW", "4.40", "20.00", "7975.60", "2"}, records[2])
}

func TestCSVWriter_WriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := &CSVWriter{IncludeHeader: true}
	res := models.ParseResult{Confidence: 0, Warnings: []string{"Empty document"}, AbortReason: "Document integrity check failed"}
	require.NoError(t, w.Write(&buf, res))

	assert.Equal(t,
		"# Confidence,0.00\n# Warnings,Empty document\n# Abort Reason,Document integrity check failed\nDate,Description,Withdrawal,Deposit,Balance,Page\n",
		buf.String())
}

func TestCSVWriter_WriteToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	w := &CSVWriter{}
	require.NoError(t, w.WriteToFile(path, sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "INCOMING PAYNOW")

	assert.Error(t, w.WriteToFile(filepath.Join(t.TempDir(), "missing", "out.csv"), sampleResult()))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		input    *float64
		expected string
	}{
		{models.Amount(25.99), "25.99"},
		{models.Amount(1234.5), "1234.50"},
		{models.Amount(0), "0.00"},
		{nil, ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatAmount(tt.input))
	}
}
