package writer

import (
	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

// Summary holds totals over a set of records. Sums use decimal arithmetic so
// long statements do not accumulate float drift.
type Summary struct {
	TotalWithdrawals decimal.Decimal     `json:"total_withdrawals"`
	TotalDeposits    decimal.Decimal     `json:"total_deposits"`
	NetChange        decimal.Decimal     `json:"net_change"`
	FirstBalance     decimal.NullDecimal `json:"first_balance"`
	LastBalance      decimal.NullDecimal `json:"last_balance"`
	// CalculatedChange is LastBalance - FirstBalance, set only when both are.
	CalculatedChange decimal.NullDecimal `json:"calculated_change"`
}

// Summarize computes totals over records. Balances come from the first and
// last records only; a missing balance there leaves the field null.
func Summarize(records []models.TransactionRecord) Summary {
	s := Summary{TotalWithdrawals: decimal.Zero, TotalDeposits: decimal.Zero}
	for _, rec := range records {
		if rec.Withdrawal != nil {
			s.TotalWithdrawals = s.TotalWithdrawals.Add(toDecimal(*rec.Withdrawal))
		}
		if rec.Deposit != nil {
			s.TotalDeposits = s.TotalDeposits.Add(toDecimal(*rec.Deposit))
		}
	}
	s.NetChange = s.TotalDeposits.Sub(s.TotalWithdrawals)

	if len(records) == 0 {
		return s
	}
	s.FirstBalance = nullDecimal(records[0].Balance)
	s.LastBalance = nullDecimal(records[len(records)-1].Balance)
	if s.FirstBalance.Valid && s.LastBalance.Valid {
		s.CalculatedChange = decimal.NewNullDecimal(s.LastBalance.Decimal.Sub(s.FirstBalance.Decimal))
	}
	return s
}

// toDecimal rounds to cents; statement amounts never carry more precision.
func toDecimal(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func nullDecimal(v *float64) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(toDecimal(*v))
}
