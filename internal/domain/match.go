package domain

type MatchStatus string

const (
	MatchMatched          MatchStatus = "matched"
	MatchPartiallyMatched MatchStatus = "partially_matched"
	MatchUnmatched        MatchStatus = "unmatched"
)

// Criterion names one satisfied check of the scoring rubric. The score of a
// result is derived from its criteria set alone, so the same set always
// yields the same score.
type Criterion string

const (
	CriterionBank             Criterion = "bank_match"
	CriterionDateExact        Criterion = "date_exact"
	CriterionDateClose        Criterion = "date_close"
	CriterionDateWindow       Criterion = "date_window"
	CriterionValueExact       Criterion = "value_exact"
	CriterionValueClose       Criterion = "value_close"
	CriterionValueWindow      Criterion = "value_window"
	CriterionEntryType        Criterion = "entry_type"
	CriterionReferenceExact   Criterion = "reference_exact"
	CriterionReferencePartial Criterion = "reference_partial"
	CriterionAccount          Criterion = "account_match"
	CriterionDescription      Criterion = "description_similarity"
)

// MatchResult is the immutable outcome of matching one ledger entry in one
// run. BankTransaction is nil when no candidate passed the gates and the
// score threshold.
type MatchResult struct {
	LedgerEntry     LedgerEntry      `json:"ledger_entry"`
	BankTransaction *BankTransaction `json:"bank_transaction,omitempty"`
	Score           int              `json:"score"`
	MatchedCriteria []Criterion      `json:"matched_criteria"`
	Status          MatchStatus      `json:"status"`
	Notes           string           `json:"notes"`
}
