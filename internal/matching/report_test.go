package matching

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/domain"
)

func TestBuildReport(t *testing.T) {
	entries := []domain.LedgerEntry{
		ledgerEntry("A", "ITAU", "100.00"),
		ledgerEntry("B", "ITAU", "1000.00"),
		ledgerEntry("C", "Banco do Brasil", "300.00"),
	}
	txns := []domain.BankTransaction{
		bankTxn(1, "ITAU", "100.00"),
		bankTxn(2, "ITAU", "1030.00"), // partial for B
	}

	results := Match(entries, txns, DefaultConfig())
	report := BuildReport(results)

	assert.Equal(t, 3, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.Matched)
	assert.Equal(t, 1, report.Summary.PartiallyMatched)
	assert.Equal(t, 1, report.Summary.Unmatched)

	assert.True(t, report.Amounts.Total.Equal(decimal.NewFromInt(1400)))
	assert.True(t, report.Amounts.Matched.Equal(decimal.NewFromInt(100)))
	assert.True(t, report.Amounts.PartiallyMatched.Equal(decimal.NewFromInt(1000)))
	assert.True(t, report.Amounts.Unmatched.Equal(decimal.NewFromInt(300)))
	assert.InDelta(t, 7.14, report.Amounts.PercentReconciled, 0.01)

	// Per-bank breakdown, sorted by bank name.
	require.Len(t, report.ByBank, 2)
	assert.Equal(t, domain.BankBancoDoBrasil, report.ByBank[0].Bank)
	assert.Equal(t, 1, report.ByBank[0].Total)
	assert.Equal(t, 0, report.ByBank[0].Matched)
	assert.Equal(t, domain.BankItau, report.ByBank[1].Bank)
	assert.Equal(t, 2, report.ByBank[1].Total)
	assert.Equal(t, 1, report.ByBank[1].Matched)
	assert.True(t, report.ByBank[1].MatchedAmount.Equal(decimal.NewFromInt(100)))

	// Both scored pairs satisfied the bank and date checks.
	assert.Equal(t, 2, report.CriteriaFrequency[domain.CriterionBank])
	assert.Equal(t, 2, report.CriteriaFrequency[domain.CriterionDateExact])
	assert.Equal(t, 1, report.CriteriaFrequency[domain.CriterionValueExact])
	assert.Equal(t, 1, report.CriteriaFrequency[domain.CriterionValueWindow])

	assert.Len(t, report.Results, 3)
}

func TestBuildReportEmpty(t *testing.T) {
	report := BuildReport(nil)
	assert.Zero(t, report.Summary.Total)
	assert.Zero(t, report.Amounts.PercentReconciled)
	assert.Empty(t, report.ByBank)
}
