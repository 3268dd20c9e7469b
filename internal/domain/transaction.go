package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// BankTransaction is one movement extracted from a bank statement file.
// Amount is always a non-negative magnitude; the sign lives in Direction.
// Transactions are built once per parse and never mutated afterwards.
type BankTransaction struct {
	PostedDate       time.Time       `json:"posted_date"`
	RawDateText      string          `json:"raw_date_text"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	RawAmountText    string          `json:"raw_amount_text"`
	Direction        Direction       `json:"direction"`
	ReferenceCode    string          `json:"reference_code,omitempty"`
	SourceLineNumber int             `json:"source_line_number"`
	BankName         string          `json:"bank_name"`
	AccountNumber    string          `json:"account_number,omitempty"`
}
