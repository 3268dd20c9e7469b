package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite allows a single writer, and a pooled ":memory:" DSN would give
	// every connection its own empty database.
	db.SetMaxOpenConns(1)

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ledger_entries (
			id TEXT PRIMARY KEY,
			posted_date TEXT NOT NULL,
			bank_name TEXT NOT NULL,
			account_number TEXT,
			entry_type TEXT NOT NULL,
			amount TEXT NOT NULL,
			description TEXT NOT NULL,
			reference_code TEXT,
			status TEXT NOT NULL,
			reconciled_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_entries_status ON ledger_entries(status)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_entries_bank ON ledger_entries(bank_name)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_entries_posted ON ledger_entries(posted_date)`,

		`CREATE TABLE IF NOT EXISTS reconciliation_runs (
			id TEXT PRIMARY KEY,
			state TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			total_entries INTEGER NOT NULL,
			matched_count INTEGER NOT NULL,
			partial_count INTEGER NOT NULL,
			unmatched_count INTEGER NOT NULL,
			committed_count INTEGER NOT NULL,
			percent_reconciled REAL NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS match_results (
			run_id TEXT NOT NULL,
			ledger_entry_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			status TEXT NOT NULL,
			criteria TEXT NOT NULL,
			notes TEXT NOT NULL,
			txn_bank TEXT,
			txn_date TEXT,
			txn_amount TEXT,
			txn_line INTEGER,
			FOREIGN KEY (run_id) REFERENCES reconciliation_runs(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_match_results_run ON match_results(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_match_results_entry ON match_results(ledger_entry_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:60], err)
		}
	}

	return nil
}
