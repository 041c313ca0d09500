// Package writer renders parse results as CSV, JSON or XLSX.
package writer

import (
	"fmt"
	"io"
	"strings"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// Writer renders a parse result.
type Writer interface {
	Write(out io.Writer, result models.ParseResult) error
	WriteToFile(path string, result models.ParseResult) error
}

// Formats lists the accepted output format names.
var Formats = []string{"csv", "json", "xlsx"}

// ForFormat returns the writer for a format name. includeHeader only affects
// CSV metadata rows.
func ForFormat(format string, includeHeader bool) (Writer, error) {
	switch strings.ToLower(format) {
	case "csv", "":
		return &CSVWriter{IncludeHeader: includeHeader}, nil
	case "json":
		return JSONWriter{}, nil
	case "xlsx":
		return XLSXWriter{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (supported: %s)", format, strings.Join(Formats, ", "))
}

// Extension returns the file extension for a format name.
func Extension(format string) string {
	if format == "" {
		return ".csv"
	}
	return "." + strings.ToLower(format)
}
