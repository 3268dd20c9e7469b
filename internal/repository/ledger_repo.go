package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/domain"
)

const dateLayout = "2006-01-02"

// LedgerRepo stores ledger entries. It implements the orchestrator's
// LedgerStore collaborator.
type LedgerRepo struct {
	db *sql.DB
}

func NewLedgerRepo(db *sql.DB) *LedgerRepo {
	return &LedgerRepo{db: db}
}

func (r *LedgerRepo) Insert(ctx context.Context, e *domain.LedgerEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO ledger_entries
		(id, posted_date, bank_name, account_number, entry_type, amount,
		 description, reference_code, status, reconciled_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		e.ID, e.PostedDate.Format(dateLayout), e.BankName, e.AccountNumber,
		string(e.EntryType), e.Amount.String(), e.Description, e.ReferenceCode,
		string(e.Status), formatNullableTime(e.ReconciledAt),
	)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}
	return nil
}

func (r *LedgerRepo) BulkInsert(ctx context.Context, entries []domain.LedgerEntry) (int, error) {
	inserted := 0
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	stmt, err := sqlTx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO ledger_entries
		(id, posted_date, bank_name, account_number, entry_type, amount,
		 description, reference_code, status, reconciled_at)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for i := range entries {
		e := &entries[i]
		res, err := stmt.ExecContext(ctx,
			e.ID, e.PostedDate.Format(dateLayout), e.BankName, e.AccountNumber,
			string(e.EntryType), e.Amount.String(), e.Description, e.ReferenceCode,
			string(e.Status), formatNullableTime(e.ReconciledAt),
		)
		if err != nil {
			return inserted, fmt.Errorf("insert row %d: %w", i, err)
		}
		ra, _ := res.RowsAffected()
		inserted += int(ra)
	}

	if err := sqlTx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

func (r *LedgerRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ledger_entries").Scan(&count)
	return count, err
}

func (r *LedgerRepo) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT * FROM ledger_entries WHERE id = ?", id)
	return scanLedgerEntry(row.Scan)
}

type LedgerFilter struct {
	Bank   string
	Status string
	From   *time.Time
	To     *time.Time
	Page   int
	Limit  int
}

func (r *LedgerRepo) List(ctx context.Context, f LedgerFilter) ([]domain.LedgerEntry, int, error) {
	where, args := buildLedgerWhere(f)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM ledger_entries"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.Limit

	query := "SELECT * FROM ledger_entries" + where + " ORDER BY posted_date DESC, id LIMIT ? OFFSET ?"
	args = append(args, f.Limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, total, rows.Err()
}

// ListPending returns pending entries ordered by posted date, optionally
// narrowed by bank and date range. This is the input set for a matching run.
func (r *LedgerRepo) ListPending(ctx context.Context, bank string, from, to *time.Time) ([]domain.LedgerEntry, error) {
	f := LedgerFilter{Bank: bank, Status: string(domain.EntryPending), From: from, To: to}
	where, args := buildLedgerWhere(f)

	rows, err := r.db.QueryContext(ctx,
		"SELECT * FROM ledger_entries"+where+" ORDER BY posted_date, id", args...)
	if err != nil {
		return nil, fmt.Errorf("query pending: %w", err)
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		e, err := scanLedgerEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// MarkReconciled transitions an entry from pending to reconciled. The status
// check is part of the UPDATE so two concurrent runs cannot both commit the
// same entry.
func (r *LedgerRepo) MarkReconciled(ctx context.Context, entryID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE ledger_entries SET status = ?, reconciled_at = ? WHERE id = ? AND status = ?",
		string(domain.EntryReconciled), at.Format(time.RFC3339),
		entryID, string(domain.EntryPending),
	)
	if err != nil {
		return fmt.Errorf("mark reconciled: %w", err)
	}
	ra, _ := res.RowsAffected()
	if ra == 0 {
		return fmt.Errorf("entry %s is not pending (already reconciled or unknown)", entryID)
	}
	return nil
}

// DashboardStats holds aggregate ledger statistics.
type DashboardStats struct {
	Total            int     `json:"total"`
	Pending          int     `json:"pending"`
	Reconciled       int     `json:"reconciled"`
	TotalAmount      float64 `json:"total_amount"`
	ReconciledAmount float64 `json:"reconciled_amount"`
}

func (r *LedgerRepo) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	s := &DashboardStats{}
	err := r.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status='pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status='reconciled' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CAST(amount AS REAL)), 0),
			COALESCE(SUM(CASE WHEN status='reconciled' THEN CAST(amount AS REAL) ELSE 0 END), 0)
		FROM ledger_entries
	`).Scan(&s.Total, &s.Pending, &s.Reconciled, &s.TotalAmount, &s.ReconciledAmount)
	return s, err
}

type BankVolume struct {
	Bank             string  `json:"bank"`
	Total            int     `json:"total"`
	Reconciled       int     `json:"reconciled"`
	TotalAmount      float64 `json:"total_amount"`
	ReconciledAmount float64 `json:"reconciled_amount"`
}

func (r *LedgerRepo) GetVolumeByBank(ctx context.Context) ([]BankVolume, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT bank_name,
			COUNT(*),
			COALESCE(SUM(CASE WHEN status='reconciled' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CAST(amount AS REAL)), 0),
			COALESCE(SUM(CASE WHEN status='reconciled' THEN CAST(amount AS REAL) ELSE 0 END), 0)
		FROM ledger_entries GROUP BY bank_name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []BankVolume
	for rows.Next() {
		var bv BankVolume
		if err := rows.Scan(&bv.Bank, &bv.Total, &bv.Reconciled, &bv.TotalAmount, &bv.ReconciledAmount); err != nil {
			return nil, err
		}
		result = append(result, bv)
	}
	return result, rows.Err()
}

// --- helpers ---

func buildLedgerWhere(f LedgerFilter) (string, []any) {
	var clauses []string
	var args []any

	if f.Bank != "" {
		clauses = append(clauses, "bank_name = ?")
		args = append(args, f.Bank)
	}
	if f.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, f.Status)
	}
	if f.From != nil {
		clauses = append(clauses, "posted_date >= ?")
		args = append(args, f.From.Format(dateLayout))
	}
	if f.To != nil {
		clauses = append(clauses, "posted_date <= ?")
		args = append(args, f.To.Format(dateLayout))
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func formatNullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func scanLedgerEntry(scan func(dest ...any) error) (*domain.LedgerEntry, error) {
	var e domain.LedgerEntry
	var postedDate, entryType, amount, status string
	var account, reference, reconciledAt sql.NullString

	err := scan(
		&e.ID, &postedDate, &e.BankName, &account, &entryType, &amount,
		&e.Description, &reference, &status, &reconciledAt,
	)
	if err != nil {
		return nil, err
	}

	e.PostedDate, _ = time.Parse(dateLayout, postedDate)
	e.EntryType = domain.EntryType(entryType)
	e.Status = domain.EntryStatus(status)
	e.AccountNumber = account.String
	e.ReferenceCode = reference.String

	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("amount %q: %w", amount, err)
	}
	e.Amount = d

	if reconciledAt.Valid {
		t, _ := time.Parse(time.RFC3339, reconciledAt.String)
		e.ReconciledAt = &t
	}

	return &e, nil
}
