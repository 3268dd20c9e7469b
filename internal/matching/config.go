// Package matching scores bank transactions against pending ledger entries
// and allocates the best candidate per entry.
package matching

import "github.com/shopspring/decimal"

// Config holds the rubric thresholds. Value tolerance is greater-governs:
// a pair survives the value gate when the difference is within either the
// relative or the absolute tolerance.
type Config struct {
	// Date gate: pairs further apart than this are eliminated.
	DateWindowDays int

	// Value gate and scoring bands.
	ValueTolerancePct  decimal.Decimal // 0.05 = 5%, gate and lowest band
	ValueClosePct      decimal.Decimal // 0.01 = 1%, middle band
	ValueToleranceAbs  decimal.Decimal // absolute difference treated as exact

	// Score thresholds.
	CandidateThreshold int // minimum score to be selectable at all
	MatchedThreshold   int // >= is a confirmed match
	PartialThreshold   int // >= is flagged for manual review
}

// DefaultConfig returns the production rubric thresholds.
func DefaultConfig() Config {
	return Config{
		DateWindowDays:     7,
		ValueTolerancePct:  decimal.NewFromFloat(0.05),
		ValueClosePct:      decimal.NewFromFloat(0.01),
		ValueToleranceAbs:  decimal.NewFromFloat(0.01),
		CandidateThreshold: 50,
		MatchedThreshold:   80,
		PartialThreshold:   60,
	}
}
