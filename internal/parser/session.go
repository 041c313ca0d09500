package parser

import (
	"fmt"
	"log/slog"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// AbortIntegrity is the abort reason when the validator rejects a document.
const AbortIntegrity = "Document integrity check failed"

// Session parses one document at a time. It is not safe for concurrent use;
// create one Session per goroutine.
type Session struct {
	cfg    Config
	family models.Family
	log    *slog.Logger
	notes  []string

	// Debug keeps the per-line trace in the result.
	Debug bool
}

// NewSession returns a Session for the given calibration. A nil logger uses
// slog.Default().
func NewSession(cfg Config, family models.Family, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{cfg: cfg, family: family, log: logger.With("family", string(family))}
}

// AddWarning records a warning raised before parsing, such as a family
// fallback. It is reported after the document checks, on success and abort.
func (s *Session) AddWarning(msg string) {
	s.notes = append(s.notes, msg)
}

// Parse runs validation, per-page assembly and cross-page cleanup. It never
// returns partial data: any abort yields Success=false and no records.
func (s *Session) Parse(doc models.Document) models.ParseResult {
	var warnings []string
	return s.guard(&warnings, func() models.ParseResult {
		return s.parse(doc, &warnings)
	})
}

// guard runs fn and turns a panic into an aborted result that keeps the
// warnings gathered so far and appends the panic message.
func (s *Session) guard(warnings *[]string, fn func() models.ParseResult) (result models.ParseResult) {
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprint(r)
			if err, ok := r.(error); ok {
				msg = err.Error()
			}
			s.log.Error("parse aborted", "error", msg)
			result = models.ParseResult{
				Success:     false,
				Data:        []models.TransactionRecord{},
				Confidence:  0,
				Warnings:    append(*warnings, msg),
				AbortReason: "Unexpected error: " + msg,
				Family:      s.family,
			}
		}
	}()
	return fn()
}

func (s *Session) parse(doc models.Document, warnings *[]string) models.ParseResult {
	v := ValidateDocument(doc, s.cfg)
	*warnings = append(*warnings, v.Warnings...)
	for _, w := range v.Warnings {
		s.log.Warn("document check", "warning", w)
	}
	*warnings = append(*warnings, s.notes...)
	if !v.Proceed {
		return models.ParseResult{
			Success:     false,
			Data:        []models.TransactionRecord{},
			Confidence:  0,
			Warnings:    *warnings,
			AbortReason: AbortIntegrity,
			Family:      s.family,
		}
	}

	asm := NewAssembler(s.cfg, s.log)
	var (
		all   []models.TransactionRecord
		trace []models.DebugLine
	)

	for i, page := range doc.Pages {
		number := page.Number
		if number <= 0 {
			number = i + 1
		}

		records, pageTrace, warning := s.parsePage(asm, page, number)
		if warning != "" {
			*warnings = append(*warnings, warning)
			s.log.Warn("page skipped", "page", number, "warning", warning)
		}
		s.log.Debug("page parsed", "page", number, "records", len(records))
		all = append(all, records...)
		if s.Debug {
			trace = append(trace, pageTrace...)
		}
	}

	cleaned := asm.Clean(all)
	s.log.Info("parse complete",
		"pages", len(doc.Pages),
		"transactions", len(cleaned),
		"artifacts_removed", len(all)-len(cleaned),
		"confidence", v.Confidence)

	return models.ParseResult{
		Success:    true,
		Data:       cleaned,
		Confidence: v.Confidence,
		Warnings:   *warnings,
		Family:     s.family,
		DebugLines: trace,
	}
}

// parsePage groups and assembles one page. A non-empty warning means the
// page produced no table, which is expected for summary pages.
func (s *Session) parsePage(asm *Assembler, page models.Page, number int) ([]models.TransactionRecord, []models.DebugLine, string) {
	if len(page.Words) == 0 {
		return nil, nil, fmt.Sprintf("No text found on page %d", number)
	}

	lines := GroupLines(page.Words, s.cfg.LineProximity)
	start, ok := FindTableStart(lines, s.cfg)
	if !ok {
		return nil, preambleTrace(lines, number, len(lines)), fmt.Sprintf("Could not find transaction table on page %d", number)
	}

	trace := preambleTrace(lines, number, start)
	if start > 0 && hasStartMarker(lines[start-1].Text(), s.cfg) {
		trace[start-1].Result = "start"
	}
	records, rows := asm.AssemblePage(lines[start:], number, start)
	return records, append(trace, rows...), ""
}

func preambleTrace(lines []models.Line, page, n int) []models.DebugLine {
	trace := make([]models.DebugLine, 0, n)
	for i := 0; i < n && i < len(lines); i++ {
		trace = append(trace, models.DebugLine{
			Page:   page,
			Index:  i,
			Y:      lines[i].Y,
			Text:   lines[i].Text(),
			Result: "preamble",
		})
	}
	return trace
}
