package reconciliation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/domain"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/matching"
)

// fakeLedger implements LedgerStore in memory for orchestrator tests.
type fakeLedger struct {
	entries    []domain.LedgerEntry
	failCommit map[string]bool
	reconciled []string
	listErr    error
}

func (f *fakeLedger) ListPending(context.Context, string, *time.Time, *time.Time) ([]domain.LedgerEntry, error) {
	return f.entries, f.listErr
}

func (f *fakeLedger) MarkReconciled(_ context.Context, entryID string, _ time.Time) error {
	if f.failCommit[entryID] {
		return fmt.Errorf("ledger store unavailable")
	}
	f.reconciled = append(f.reconciled, entryID)
	return nil
}

func pendingEntry(id string) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:         id,
		PostedDate: time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC),
		BankName:   "SANTANDER",
		EntryType:  domain.EntryExpense,
		Amount:     decimal.RequireFromString("260.00"),
		Status:     domain.EntryPending,
	}
}

// santanderFile matches pendingEntry exactly: bank 20 + date 30 + value 30 +
// type 10 = 90.
func santanderFile() UploadedFile {
	return UploadedFile{
		Name: "extrato.txt",
		Data: []byte("12/09/2025;TAXA ARMAZENAGEM;-260,00\n"),
	}
}

func TestRunFailsFastWithoutLedgerEntries(t *testing.T) {
	orch := NewOrchestrator(&fakeLedger{}, matching.DefaultConfig())

	_, err := orch.Run(context.Background(), []UploadedFile{santanderFile()}, RunOptions{})
	assert.ErrorIs(t, err, ErrNoLedgerEntries)
}

func TestRunFailsWhenLedgerUnavailable(t *testing.T) {
	ledger := &fakeLedger{listErr: fmt.Errorf("database locked")}
	orch := NewOrchestrator(ledger, matching.DefaultConfig())

	_, err := orch.Run(context.Background(), []UploadedFile{santanderFile()}, RunOptions{})
	assert.ErrorContains(t, err, "load ledger entries")
}

func TestRunToleratesBadFiles(t *testing.T) {
	ledger := &fakeLedger{entries: []domain.LedgerEntry{pendingEntry("E1")}}
	orch := NewOrchestrator(ledger, matching.DefaultConfig())

	files := []UploadedFile{
		{Name: "corrompido.xlsx", Data: []byte("not a workbook")},
		santanderFile(),
	}

	report, err := orch.Run(context.Background(), files, RunOptions{})
	require.NoError(t, err)

	require.Len(t, report.Files, 2)
	assert.NotEmpty(t, report.Files[0].Error)
	assert.Empty(t, report.Files[1].Error)
	assert.Equal(t, 1, report.Files[1].RowsExtracted)

	assert.Equal(t, StateDone, report.State)
	assert.Equal(t, 1, report.Report.Summary.Matched)
}

func TestRunFailsWhenNoFileYieldsTransactions(t *testing.T) {
	ledger := &fakeLedger{entries: []domain.LedgerEntry{pendingEntry("E1")}}
	orch := NewOrchestrator(ledger, matching.DefaultConfig())

	files := []UploadedFile{{Name: "vazio.txt", Data: []byte("cabecalho sem dados\n")}}

	_, err := orch.Run(context.Background(), files, RunOptions{})
	assert.ErrorIs(t, err, ErrNoTransactions)
}

func TestRunWithoutCommitSkipsCommitting(t *testing.T) {
	ledger := &fakeLedger{entries: []domain.LedgerEntry{pendingEntry("E1")}}
	orch := NewOrchestrator(ledger, matching.DefaultConfig())

	report, err := orch.Run(context.Background(), []UploadedFile{santanderFile()}, RunOptions{})
	require.NoError(t, err)

	assert.Zero(t, report.CommittedCount)
	assert.Empty(t, ledger.reconciled)
}

func TestRunCommitIsBestEffortPerEntry(t *testing.T) {
	ledger := &fakeLedger{
		entries: []domain.LedgerEntry{
			pendingEntry("E1"),
			pendingEntry("E2"),
		},
		failCommit: map[string]bool{"E1": true},
	}
	orch := NewOrchestrator(ledger, matching.DefaultConfig())

	files := []UploadedFile{{
		Name: "extrato.txt",
		Data: []byte("12/09/2025;TAXA ARMAZENAGEM;-260,00\n" +
			"12/09/2025;TAXA ARMAZENAGEM;-260,00\n"),
	}}

	report, err := orch.Run(context.Background(), files, RunOptions{Commit: true})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Report.Summary.Matched)
	assert.Equal(t, 1, report.CommittedCount)
	require.Len(t, report.CommitWarnings, 1)
	assert.Equal(t, "E1", report.CommitWarnings[0].EntryID)
	assert.Equal(t, []string{"E2"}, ledger.reconciled)
	assert.Equal(t, StateDone, report.State)
}

func TestRunsShareNoState(t *testing.T) {
	ledger := &fakeLedger{entries: []domain.LedgerEntry{pendingEntry("E1")}}
	orch := NewOrchestrator(ledger, matching.DefaultConfig())

	first, err := orch.Run(context.Background(), []UploadedFile{santanderFile()}, RunOptions{})
	require.NoError(t, err)
	second, err := orch.Run(context.Background(), []UploadedFile{santanderFile()}, RunOptions{})
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, first.Report.Summary, second.Report.Summary)
}
