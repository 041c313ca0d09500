package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// SheetName is the worksheet holding the transactions.
const SheetName = "Transactions"

// XLSXWriter writes records to a single-sheet workbook. Amounts are numeric
// cells; empty amounts are left blank.
type XLSXWriter struct{}

// Write writes the workbook to out.
func (XLSXWriter) Write(out io.Writer, result models.ParseResult) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]any, len(csvHeader))
	for i, h := range csvHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write XLSX header: %w", err)
	}

	for i, rec := range result.Data {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{rec.Date, rec.Description, cellAmount(rec.Withdrawal), cellAmount(rec.Deposit), cellAmount(rec.Balance), rec.Page}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write XLSX row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write XLSX: %w", err)
	}
	return nil
}

// WriteToFile writes the workbook to path.
func (w XLSXWriter) WriteToFile(path string, result models.ParseResult) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer out.Close()

	return w.Write(out, result)
}

func cellAmount(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
