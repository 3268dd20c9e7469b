package matching

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/domain"
)

func ledgerEntry(id, bank string, amount string) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:         id,
		PostedDate: date(2025, 9, 11),
		BankName:   bank,
		EntryType:  domain.EntryExpense,
		Amount:     decimal.RequireFromString(amount),
		Status:     domain.EntryPending,
	}
}

func bankTxn(line int, bank string, amount string) domain.BankTransaction {
	return domain.BankTransaction{
		PostedDate:       date(2025, 9, 11),
		Amount:           decimal.RequireFromString(amount),
		Direction:        domain.DirectionDebit,
		SourceLineNumber: line,
		BankName:         bank,
	}
}

func TestMatchTotality(t *testing.T) {
	entries := []domain.LedgerEntry{
		ledgerEntry("A", "ITAU", "100.00"),
		ledgerEntry("B", "ITAU", "999999.00"),
		ledgerEntry("C", "SANTANDER", "50.00"),
	}
	txns := []domain.BankTransaction{bankTxn(1, "ITAU", "100.00")}

	results := Match(entries, txns, DefaultConfig())

	require.Len(t, results, len(entries))
	assert.Equal(t, domain.MatchMatched, results[0].Status)
	assert.Equal(t, domain.MatchUnmatched, results[1].Status)
	assert.Zero(t, results[1].Score)
	assert.Nil(t, results[1].BankTransaction)
	assert.Equal(t, domain.MatchUnmatched, results[2].Status)
}

func TestMatchNoDoubleAllocation(t *testing.T) {
	// Two entries compete for the single transaction; the first in input
	// order wins and the second goes unmatched.
	entries := []domain.LedgerEntry{
		ledgerEntry("A", "ITAU", "100.00"),
		ledgerEntry("B", "ITAU", "100.00"),
	}
	txns := []domain.BankTransaction{bankTxn(1, "ITAU", "100.00")}

	results := Match(entries, txns, DefaultConfig())

	require.Len(t, results, 2)
	require.NotNil(t, results[0].BankTransaction)
	assert.Nil(t, results[1].BankTransaction)

	seen := map[int]bool{}
	for _, r := range results {
		if r.BankTransaction == nil {
			continue
		}
		assert.False(t, seen[r.BankTransaction.SourceLineNumber], "transaction consumed twice")
		seen[r.BankTransaction.SourceLineNumber] = true
	}
}

func TestMatchTieBreaksByInputOrder(t *testing.T) {
	entries := []domain.LedgerEntry{ledgerEntry("A", "ITAU", "100.00")}
	txns := []domain.BankTransaction{
		bankTxn(1, "ITAU", "100.00"),
		bankTxn(2, "ITAU", "100.00"),
	}

	results := Match(entries, txns, DefaultConfig())

	require.NotNil(t, results[0].BankTransaction)
	assert.Equal(t, 1, results[0].BankTransaction.SourceLineNumber)
}

func TestMatchPrefersHigherScore(t *testing.T) {
	entries := []domain.LedgerEntry{ledgerEntry("A", "ITAU", "100.00")}

	offDate := bankTxn(1, "ITAU", "100.00")
	offDate.PostedDate = date(2025, 9, 14)
	exact := bankTxn(2, "ITAU", "100.00")

	results := Match(entries, []domain.BankTransaction{offDate, exact}, DefaultConfig())

	require.NotNil(t, results[0].BankTransaction)
	assert.Equal(t, 2, results[0].BankTransaction.SourceLineNumber)
}

func TestMatchGreedyDoesNotBacktrack(t *testing.T) {
	// Entry A claims the exact-date transaction even though entry B, seen
	// later, would have matched it better on reference. Accepted limitation.
	a := ledgerEntry("A", "ITAU", "100.00")
	b := ledgerEntry("B", "ITAU", "100.00")
	b.ReferenceCode = "UN25/7093"

	txn := bankTxn(1, "ITAU", "100.00")
	txn.ReferenceCode = "UN25/7093"

	results := Match([]domain.LedgerEntry{a, b}, []domain.BankTransaction{txn}, DefaultConfig())

	assert.Equal(t, "A", results[0].LedgerEntry.ID)
	assert.NotNil(t, results[0].BankTransaction)
	assert.Nil(t, results[1].BankTransaction)
}

func TestMatchPartialClassification(t *testing.T) {
	// bank 20 + date exact 30 + value window 10 + type 10 = 70: partial.
	entry := ledgerEntry("A", "ITAU", "1000.00")
	txn := bankTxn(1, "ITAU", "1030.00")

	results := Match([]domain.LedgerEntry{entry}, []domain.BankTransaction{txn}, DefaultConfig())

	require.NotNil(t, results[0].BankTransaction)
	assert.Equal(t, 70, results[0].Score)
	assert.Equal(t, domain.MatchPartiallyMatched, results[0].Status)
	assert.Contains(t, results[0].Notes, "line 1")
}

func TestMatchLowScoreCandidateStaysUnmatched(t *testing.T) {
	// bank 20 + date window 10 + value window 10 + type 10 = 50: selectable
	// as a candidate but classified unmatched.
	entry := ledgerEntry("A", "ITAU", "1000.00")
	txn := bankTxn(1, "ITAU", "1030.00")
	txn.PostedDate = date(2025, 9, 16)

	results := Match([]domain.LedgerEntry{entry}, []domain.BankTransaction{txn}, DefaultConfig())

	require.NotNil(t, results[0].BankTransaction)
	assert.Equal(t, 50, results[0].Score)
	assert.Equal(t, domain.MatchUnmatched, results[0].Status)
}

func TestMatchDeterministic(t *testing.T) {
	entries := []domain.LedgerEntry{
		ledgerEntry("A", "ITAU", "100.00"),
		ledgerEntry("B", "SANTANDER", "200.00"),
	}
	txns := []domain.BankTransaction{
		bankTxn(1, "SANTANDER", "200.00"),
		bankTxn(2, "ITAU", "100.00"),
	}

	first := Match(entries, txns, DefaultConfig())
	second := Match(entries, txns, DefaultConfig())
	assert.Equal(t, first, second)
}
