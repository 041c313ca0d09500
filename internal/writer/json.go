package writer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// Report is the JSON document written for a parse.
type Report struct {
	Success          bool                       `json:"success"`
	Family           models.Family              `json:"family,omitempty"`
	Confidence       float64                    `json:"confidence"`
	Warnings         []string                   `json:"warnings"`
	AbortReason      string                     `json:"abort_reason,omitempty"`
	TransactionCount int                        `json:"transaction_count"`
	Transactions     []models.TransactionRecord `json:"transactions"`
	Summary          *Summary                   `json:"summary,omitempty"`
	DebugLines       []models.DebugLine         `json:"debug_lines,omitempty"`
}

// NewReport builds a Report. Aborted results carry no summary.
func NewReport(result models.ParseResult) Report {
	txns := result.Data
	if txns == nil {
		txns = []models.TransactionRecord{}
	}
	warnings := result.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	r := Report{
		Success:          result.Success,
		Family:           result.Family,
		Confidence:       result.Confidence,
		Warnings:         warnings,
		AbortReason:      result.AbortReason,
		TransactionCount: len(txns),
		Transactions:     txns,
		DebugLines:       result.DebugLines,
	}
	if result.Success {
		s := Summarize(txns)
		r.Summary = &s
	}
	return r
}

// JSONWriter writes a Report as indented JSON.
type JSONWriter struct{}

// Write encodes the report for result to out.
func (JSONWriter) Write(out io.Writer, result models.ParseResult) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewReport(result)); err != nil {
		return fmt.Errorf("failed to write JSON report: %w", err)
	}
	return nil
}

// WriteToFile writes the report to path.
func (w JSONWriter) WriteToFile(path string, result models.ParseResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, result)
}
