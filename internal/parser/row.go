package parser

import (
	"strings"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// RowKind is the role a visual line plays in the table.
type RowKind int

const (
	// RowEnd marks the end of the table on this page.
	RowEnd RowKind = iota
	// RowNew opens a new record.
	RowNew
	// RowContinuation adds to the open record, if there is one.
	RowContinuation
)

func (k RowKind) String() string {
	switch k {
	case RowEnd:
		return "end"
	case RowNew:
		return "record"
	default:
		return "continuation"
	}
}

// RowParser turns one visual line into record data.
type RowParser struct {
	columns         ColumnClassifier
	endMarkers      []string
	reclassifyAbove float64
}

// NewRowParser builds a RowParser from a calibration.
func NewRowParser(cfg Config) RowParser {
	return RowParser{
		columns:         NewColumnClassifier(cfg),
		endMarkers:      cfg.EndMarkers,
		reclassifyAbove: cfg.BalanceReclassifyAbove,
	}
}

// Classify decides whether the line ends the table, opens a record or
// continues one. The end check runs first, so a dated line carrying an end
// marker still ends the table.
func (p RowParser) Classify(line models.Line) RowKind {
	if containsAnyMarker(line.Text(), p.endMarkers) {
		return RowEnd
	}
	if len(line.Words) > 0 && isDateToken(line.Words[0].Text) {
		return RowNew
	}
	return RowContinuation
}

// ParseRecord builds a record from a line whose first word is a date.
// ok is false when the first word is not a strict DD/MM/YYYY date.
func (p RowParser) ParseRecord(words []models.WordToken, page int) (rec models.TransactionRecord, ok bool) {
	if len(words) == 0 || !isDateToken(words[0].Text) {
		return models.TransactionRecord{}, false
	}
	rec = p.assignColumns(words)
	rec.Page = page
	return CorrectMisclassification(rec, p.reclassifyAbove), true
}

// assignColumns is the pure column-by-threshold pass. Amount-shaped words
// land in the column their x0 falls in; everything else, including amounts
// inside the description range, is description text.
func (p RowParser) assignColumns(words []models.WordToken) models.TransactionRecord {
	rec := models.TransactionRecord{Date: words[0].Text}
	var description []string

	for _, w := range words[1:] {
		amount, isAmount := tryParseAmount(w.Text)
		if !isAmount {
			description = append(description, w.Text)
			continue
		}
		switch p.columns.Classify(w.X0) {
		case models.ColumnBalance:
			rec.Balance = models.Amount(amount)
		case models.ColumnDeposit:
			rec.Deposit = models.Amount(amount)
		case models.ColumnWithdrawal:
			rec.Withdrawal = models.Amount(amount)
		default:
			description = append(description, w.Text)
		}
	}

	rec.Description = strings.TrimSpace(strings.Join(description, " "))
	return rec
}

// CorrectMisclassification moves a lone withdrawal or deposit above threshold
// into the balance column. Balances are nearly always the largest figure on a
// row, so a large amount with no balance beside it is taken to be the balance.
func CorrectMisclassification(rec models.TransactionRecord, threshold float64) models.TransactionRecord {
	if rec.Withdrawal != nil && rec.Balance == nil && *rec.Withdrawal > threshold {
		rec.Balance = rec.Withdrawal
		rec.Withdrawal = nil
	}
	if rec.Deposit != nil && rec.Balance == nil && *rec.Deposit > threshold {
		rec.Balance = rec.Deposit
		rec.Deposit = nil
	}
	return rec
}

// Continue merges a continuation line into rec. Amount-shaped words fill
// only empty amount slots; a line with no amount-shaped word at all is
// appended to the description.
func (p RowParser) Continue(rec models.TransactionRecord, words []models.WordToken) models.TransactionRecord {
	if len(words) == 0 {
		return rec
	}

	hasAmount := false
	for _, w := range words {
		amount, ok := tryParseAmount(w.Text)
		if !ok {
			continue
		}
		hasAmount = true
		switch p.columns.Classify(w.X0) {
		case models.ColumnBalance:
			if rec.Balance == nil {
				rec.Balance = models.Amount(amount)
			}
		case models.ColumnDeposit:
			if rec.Deposit == nil {
				rec.Deposit = models.Amount(amount)
			}
		case models.ColumnWithdrawal:
			if rec.Withdrawal == nil {
				rec.Withdrawal = models.Amount(amount)
			}
		}
	}

	if !hasAmount {
		rec.Description = appendDescription(rec.Description, models.Line{Words: words}.Text())
	}
	return rec
}

func appendDescription(desc, more string) string {
	if desc == "" {
		return more
	}
	return desc + " " + more
}
