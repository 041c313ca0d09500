package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// csvRow is one transaction as written to CSV.
type csvRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Withdrawal  string `csv:"Withdrawal"`
	Deposit     string `csv:"Deposit"`
	Balance     string `csv:"Balance"`
	Page        int    `csv:"Page"`
}

// CSVWriter writes transaction records to CSV format.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the result to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, result models.ParseResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, result)
}

// Write writes the result's records in CSV format to the given writer,
// preceded by metadata rows when IncludeHeader is set.
func (w *CSVWriter) Write(out io.Writer, result models.ParseResult) error {
	if w.IncludeHeader {
		meta := csv.NewWriter(out)
		if result.Family != "" {
			meta.Write([]string{"# Family", string(result.Family)})
		}
		meta.Write([]string{"# Confidence", strconv.FormatFloat(result.Confidence, 'f', 2, 64)})
		if len(result.Warnings) > 0 {
			meta.Write([]string{"# Warnings", strings.Join(result.Warnings, "; ")})
		}
		if result.AbortReason != "" {
			meta.Write([]string{"# Abort Reason", result.AbortReason})
		}
		meta.Flush()
		if err := meta.Error(); err != nil {
			return fmt.Errorf("failed to write CSV metadata: %w", err)
		}
	}

	rows := make([]csvRow, 0, len(result.Data))
	for _, rec := range result.Data {
		rows = append(rows, csvRow{
			Date:        rec.Date,
			Description: rec.Description,
			Withdrawal:  formatAmount(rec.Withdrawal),
			Deposit:     formatAmount(rec.Deposit),
			Balance:     formatAmount(rec.Balance),
			Page:        rec.Page,
		})
	}
	if len(rows) == 0 {
		// gocsv needs an element to derive the header from.
		meta := csv.NewWriter(out)
		meta.Write(csvHeader)
		meta.Flush()
		return meta.Error()
	}
	if err := gocsv.Marshal(rows, out); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}

var csvHeader = []string{"Date", "Description", "Withdrawal", "Deposit", "Balance", "Page"}

func formatAmount(amount *float64) string {
	if amount == nil {
		return ""
	}
	return strconv.FormatFloat(*amount, 'f', 2, 64)
}
