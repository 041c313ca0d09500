package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insightdelivered/statement-table-extractor/internal/models"
)

func TestObserveResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveResult(models.ParseResult{
		Success:    true,
		Family:     models.FamilyDBS,
		Confidence: 0.7,
		Warnings:   []string{"Expected headers not found"},
		Data:       make([]models.TransactionRecord, 3),
	})
	m.ObserveResult(models.ParseResult{
		Family:   models.FamilyDBS,
		Warnings: []string{"Empty document"},
	})
	m.ObserveFailure("posb")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ParsesTotal.WithLabelValues("dbs", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ParsesTotal.WithLabelValues("dbs", OutcomeAborted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ParsesTotal.WithLabelValues("posb", OutcomeFailed)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.TransactionsTotal.WithLabelValues("dbs")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.WarningsTotal.WithLabelValues("dbs")))

	n, err := testutil.GatherAndCount(reg, "statement_parse_confidence")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNew_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}
