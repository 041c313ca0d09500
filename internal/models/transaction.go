package models

import "strings"

// WordToken is one extracted word with its bounding box. Coordinates are page
// points with the origin at the top-left corner.
type WordToken struct {
	Text string  `json:"text"`
	X0   float64 `json:"x0"`
	Y0   float64 `json:"y0"`
	X1   float64 `json:"x1"`
	Y1   float64 `json:"y1"`
}

// Line is a run of words believed to share a visual row.
type Line struct {
	Y     float64     `json:"y"`
	Words []WordToken `json:"words"`
}

// Text joins the line's words with single spaces.
func (l Line) Text() string {
	parts := make([]string, len(l.Words))
	for i, w := range l.Words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// Column is the semantic field an x-coordinate falls into.
type Column int

const (
	ColumnDescription Column = iota
	ColumnDate
	ColumnWithdrawal
	ColumnDeposit
	ColumnBalance
)

func (c Column) String() string {
	switch c {
	case ColumnDate:
		return "date"
	case ColumnWithdrawal:
		return "withdrawal"
	case ColumnDeposit:
		return "deposit"
	case ColumnBalance:
		return "balance"
	default:
		return "description"
	}
}

// ParseColumn maps a lowercase column name back to a Column.
func ParseColumn(s string) (Column, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "date":
		return ColumnDate, true
	case "description":
		return ColumnDescription, true
	case "withdrawal":
		return ColumnWithdrawal, true
	case "deposit":
		return ColumnDeposit, true
	case "balance":
		return ColumnBalance, true
	}
	return ColumnDescription, false
}

// TransactionRecord represents a single reconstructed statement row.
// Amount fields are nil when the column was empty on every line of the record.
type TransactionRecord struct {
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Withdrawal  *float64 `json:"withdrawal"`
	Deposit     *float64 `json:"deposit"`
	Balance     *float64 `json:"balance"`
	Page        int      `json:"page"`
}

// Amount returns a pointer to v, for filling optional amount fields.
func Amount(v float64) *float64 {
	return &v
}

// Family identifies a document family sharing one column calibration.
type Family string

const (
	FamilyDBS  Family = "dbs"
	FamilyPOSB Family = "posb"
)

// Page is one page as delivered by the word extractor.
type Page struct {
	Number int         `json:"number"` // 1-based
	Words  []WordToken `json:"words"`
	Text   string      `json:"text"`
}

// Document is the extractor's output for a whole file.
type Document struct {
	Pages []Page `json:"pages"`
}

// DebugLine captures what the parser did with each visual line.
type DebugLine struct {
	Page   int     `json:"page"`
	Index  int     `json:"index"`
	Y      float64 `json:"y"`
	Text   string  `json:"text"`
	Result string  `json:"result"` // "preamble", "start", "record", "continuation", "end", "dropped", "skipped"
}

// ParseResult is the outcome of one parse invocation. Callers must check
// Success before trusting Data; Warnings are meaningful either way.
type ParseResult struct {
	Success     bool                `json:"success"`
	Data        []TransactionRecord `json:"data"`
	Confidence  float64             `json:"confidence"`
	Warnings    []string            `json:"warnings"`
	AbortReason string              `json:"abort_reason,omitempty"`
	Family      Family              `json:"family,omitempty"`
	DebugLines  []DebugLine         `json:"debug_lines,omitempty"`
}
