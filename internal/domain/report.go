package domain

import "github.com/shopspring/decimal"

// ReportSummary holds the per-status result counts of a matching run.
type ReportSummary struct {
	Total            int `json:"total"`
	Matched          int `json:"matched"`
	PartiallyMatched int `json:"partially_matched"`
	Unmatched        int `json:"unmatched"`
}

// ReportAmounts holds the monetary totals of a matching run, taken from the
// ledger side of each result.
type ReportAmounts struct {
	Total             decimal.Decimal `json:"total"`
	Matched           decimal.Decimal `json:"matched"`
	PartiallyMatched  decimal.Decimal `json:"partially_matched"`
	Unmatched         decimal.Decimal `json:"unmatched"`
	PercentReconciled float64         `json:"percent_reconciled"`
}

// BankBreakdown aggregates one bank's slice of a matching run.
type BankBreakdown struct {
	Bank          Bank            `json:"bank"`
	Total         int             `json:"total"`
	Matched       int             `json:"matched"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	MatchedAmount decimal.Decimal `json:"matched_amount"`
}

// Report is the aggregate view of one matching run. CriteriaFrequency counts
// how often each rubric check fired across all results, which is the first
// place to look when a whole statement fails to reconcile.
type Report struct {
	Summary           ReportSummary     `json:"summary"`
	Amounts           ReportAmounts     `json:"amounts"`
	ByBank            []BankBreakdown   `json:"by_bank"`
	CriteriaFrequency map[Criterion]int `json:"criteria_frequency"`
	Results           []MatchResult     `json:"results"`
}
