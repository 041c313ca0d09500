package parser

import (
	"log/slog"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// openRecord is the row loop's single accumulator slot.
type openRecord struct {
	rec     models.TransactionRecord
	present bool
}

// Assembler drives the lines of each page through a RowParser.
type Assembler struct {
	rows            RowParser
	artifactMarkers []string
	log             *slog.Logger
}

// NewAssembler builds an Assembler for the given calibration.
func NewAssembler(cfg Config, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		rows:            NewRowParser(cfg),
		artifactMarkers: cfg.ArtifactMarkers,
		log:             logger,
	}
}

// stepResult is what one line did to the row loop.
type stepResult struct {
	next   openRecord
	closed *models.TransactionRecord
	stop   bool
	trace  string
}

// step advances the row loop by one line.
func (a *Assembler) step(state openRecord, line models.Line, page int) stepResult {
	switch a.rows.Classify(line) {
	case RowEnd:
		res := stepResult{stop: true, trace: "end"}
		if state.present {
			rec := state.rec
			res.closed = &rec
		}
		return res

	case RowNew:
		rec, _ := a.rows.ParseRecord(line.Words, page)
		res := stepResult{next: openRecord{rec: rec, present: true}, trace: "record"}
		if state.present {
			prev := state.rec
			res.closed = &prev
		}
		return res

	default:
		if !state.present {
			return stepResult{next: state, trace: "dropped"}
		}
		if len(line.Words) == 0 {
			return stepResult{next: state, trace: "skipped"}
		}
		state.rec = a.rows.Continue(state.rec, line.Words)
		return stepResult{next: state, trace: "continuation"}
	}
}

// AssemblePage parses the table region of one page. lines must start at the
// first table line. The returned trace has one entry per line examined.
func (a *Assembler) AssemblePage(lines []models.Line, page, offset int) ([]models.TransactionRecord, []models.DebugLine) {
	var (
		records []models.TransactionRecord
		trace   []models.DebugLine
		state   openRecord
	)

	for i, line := range lines {
		res := a.step(state, line, page)
		if res.closed != nil {
			records = append(records, *res.closed)
		}
		trace = append(trace, models.DebugLine{
			Page:   page,
			Index:  offset + i,
			Y:      line.Y,
			Text:   line.Text(),
			Result: res.trace,
		})
		if res.trace == "dropped" {
			a.log.Debug("continuation line with no open record dropped",
				"page", page, "line", offset+i, "text", line.Text())
		}
		if res.stop {
			return records, trace
		}
		state = res.next
	}

	if state.present {
		records = append(records, state.rec)
	}
	return records, trace
}

// RemovePaginationArtifacts drops records whose description restates the
// running balance across a page break.
func RemovePaginationArtifacts(records []models.TransactionRecord, markers []string) []models.TransactionRecord {
	cleaned := make([]models.TransactionRecord, 0, len(records))
	for _, rec := range records {
		if containsAnyMarker(rec.Description, markers) {
			continue
		}
		cleaned = append(cleaned, rec)
	}
	return cleaned
}

// Clean applies the cross-page post-processing to page-ordered records.
func (a *Assembler) Clean(records []models.TransactionRecord) []models.TransactionRecord {
	return RemovePaginationArtifacts(records, a.artifactMarkers)
}
