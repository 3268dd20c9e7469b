package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type EntryType string

const (
	EntryRevenue EntryType = "revenue"
	EntryExpense EntryType = "expense"
)

type EntryStatus string

const (
	EntryPending    EntryStatus = "pending"
	EntryReconciled EntryStatus = "reconciled"
)

// LedgerEntry is an internal financial record awaiting confirmation against a
// bank statement. Entries are created by the portal's finance module and are
// read-only here except for the Pending -> Reconciled transition applied
// during commit.
type LedgerEntry struct {
	ID            string          `json:"id"`
	PostedDate    time.Time       `json:"posted_date"`
	BankName      string          `json:"bank_name"`
	AccountNumber string          `json:"account_number,omitempty"`
	EntryType     EntryType       `json:"entry_type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	ReferenceCode string          `json:"reference_code,omitempty"`
	Status        EntryStatus     `json:"status"`
	ReconciledAt  *time.Time      `json:"reconciled_at,omitempty"`
}
