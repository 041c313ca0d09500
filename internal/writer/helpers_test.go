package writer

import (
	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

func sampleResult() models.ParseResult {
	return models.ParseResult{
		Success:    true,
		Family:     models.FamilyDBS,
		Confidence: 0.7,
		Warnings:   []string{"Expected headers not found"},
		Data: []models.TransactionRecord{
			{Date: "01/01/2022", Description: "Debit Card Transaction 7-ELEVEN", Withdrawal: models.Amount(20), Balance: models.Amount(7980), Page: 2},
			{Date: "01/01/2022", Description: "INCOMING PAYNOW", Withdrawal: models.Amount(4.4), Deposit: models.Amount(20), Balance: models.Amount(7975.6), Page: 2},
			{Date: "02/01/2022", Description: "Point-of-Sale Transaction, DHEEN", Withdrawal: models.Amount(5), Page: 3},
		},
	}
}
