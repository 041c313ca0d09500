package writer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestXLSXWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSXWriter{}.Write(&buf, sampleResult()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, "INCOMING PAYNOW", rows[2][1])
	assert.Equal(t, "20", rows[2][3])

	balance, err := f.GetCellValue(SheetName, "E4")
	require.NoError(t, err)
	assert.Empty(t, balance)
}

func TestForFormat(t *testing.T) {
	for _, name := range []string{"csv", "JSON", "xlsx", ""} {
		w, err := ForFormat(name, true)
		require.NoError(t, err, name)
		assert.NotNil(t, w)
	}

	_, err := ForFormat("pdf", true)
	assert.Error(t, err)

	assert.Equal(t, ".csv", Extension(""))
	assert.Equal(t, ".xlsx", Extension("XLSX"))
}
