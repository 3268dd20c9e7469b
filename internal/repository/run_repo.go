package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/domain"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/reconciliation"
)

// RunRepo persists completed reconciliation runs and their flattened match
// results for later review.
type RunRepo struct {
	db *sql.DB
}

func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db}
}

// RunRecord is the stored summary of one reconciliation run.
type RunRecord struct {
	ID                string    `json:"id"`
	State             string    `json:"state"`
	StartedAt         time.Time `json:"started_at"`
	FinishedAt        time.Time `json:"finished_at"`
	TotalEntries      int       `json:"total_entries"`
	MatchedCount      int       `json:"matched_count"`
	PartialCount      int       `json:"partial_count"`
	UnmatchedCount    int       `json:"unmatched_count"`
	CommittedCount    int       `json:"committed_count"`
	PercentReconciled float64   `json:"percent_reconciled"`
}

// StoredMatchResult is the flat, display-ready form of one match result.
type StoredMatchResult struct {
	RunID         string `json:"run_id"`
	LedgerEntryID string `json:"ledger_entry_id"`
	Score         int    `json:"score"`
	Status        string `json:"status"`
	Criteria      string `json:"criteria"`
	Notes         string `json:"notes"`
	TxnBank       string `json:"txn_bank,omitempty"`
	TxnDate       string `json:"txn_date,omitempty"`
	TxnAmount     string `json:"txn_amount,omitempty"`
	TxnLine       int    `json:"txn_line,omitempty"`
}

// SaveRun stores a finished run and all of its match results in one
// transaction.
func (r *RunRepo) SaveRun(ctx context.Context, report *reconciliation.RunReport) error {
	if report.Report == nil {
		return fmt.Errorf("run %s has no report", report.RunID)
	}

	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	summary := report.Report.Summary
	_, err = sqlTx.ExecContext(ctx,
		`INSERT INTO reconciliation_runs
		(id, state, started_at, finished_at, total_entries, matched_count,
		 partial_count, unmatched_count, committed_count, percent_reconciled)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		report.RunID, string(report.State),
		report.StartedAt.Format(time.RFC3339), report.FinishedAt.Format(time.RFC3339),
		summary.Total, summary.Matched, summary.PartiallyMatched, summary.Unmatched,
		report.CommittedCount, report.Report.Amounts.PercentReconciled,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := sqlTx.PrepareContext(ctx,
		`INSERT INTO match_results
		(run_id, ledger_entry_id, score, status, criteria, notes,
		 txn_bank, txn_date, txn_amount, txn_line)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i := range report.Report.Results {
		res := &report.Report.Results[i]
		flat := flattenResult(report.RunID, res)
		_, err := stmt.ExecContext(ctx,
			flat.RunID, flat.LedgerEntryID, flat.Score, flat.Status,
			flat.Criteria, flat.Notes, flat.TxnBank, flat.TxnDate,
			flat.TxnAmount, flat.TxnLine,
		)
		if err != nil {
			return fmt.Errorf("insert result %d: %w", i, err)
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func flattenResult(runID string, res *domain.MatchResult) StoredMatchResult {
	criteria := make([]string, len(res.MatchedCriteria))
	for i, c := range res.MatchedCriteria {
		criteria[i] = string(c)
	}
	flat := StoredMatchResult{
		RunID:         runID,
		LedgerEntryID: res.LedgerEntry.ID,
		Score:         res.Score,
		Status:        string(res.Status),
		Criteria:      strings.Join(criteria, ","),
		Notes:         res.Notes,
	}
	if txn := res.BankTransaction; txn != nil {
		flat.TxnBank = txn.BankName
		flat.TxnDate = txn.PostedDate.Format(dateLayout)
		flat.TxnAmount = txn.Amount.String()
		flat.TxnLine = txn.SourceLineNumber
	}
	return flat
}

func (r *RunRepo) GetRun(ctx context.Context, id string) (*RunRecord, []StoredMatchResult, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT * FROM reconciliation_runs WHERE id = ?", id)
	rec, err := scanRunRecord(row.Scan)
	if err != nil {
		return nil, nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT * FROM match_results WHERE run_id = ? ORDER BY score DESC, ledger_entry_id", id)
	if err != nil {
		return nil, nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var results []StoredMatchResult
	for rows.Next() {
		var m StoredMatchResult
		var txnBank, txnDate, txnAmount sql.NullString
		var txnLine sql.NullInt64
		if err := rows.Scan(&m.RunID, &m.LedgerEntryID, &m.Score, &m.Status,
			&m.Criteria, &m.Notes, &txnBank, &txnDate, &txnAmount, &txnLine); err != nil {
			return nil, nil, fmt.Errorf("scan: %w", err)
		}
		m.TxnBank = txnBank.String
		m.TxnDate = txnDate.String
		m.TxnAmount = txnAmount.String
		m.TxnLine = int(txnLine.Int64)
		results = append(results, m)
	}
	return rec, results, rows.Err()
}

func (r *RunRepo) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		"SELECT * FROM reconciliation_runs ORDER BY started_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRunRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

func scanRunRecord(scan func(dest ...any) error) (*RunRecord, error) {
	var rec RunRecord
	var startedAt, finishedAt string
	err := scan(
		&rec.ID, &rec.State, &startedAt, &finishedAt, &rec.TotalEntries,
		&rec.MatchedCount, &rec.PartialCount, &rec.UnmatchedCount,
		&rec.CommittedCount, &rec.PercentReconciled,
	)
	if err != nil {
		return nil, err
	}
	rec.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	rec.FinishedAt, _ = time.Parse(time.RFC3339, finishedAt)
	return &rec, nil
}
