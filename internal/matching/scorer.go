package matching

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/domain"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/statement"
)

// Points per satisfied criterion. The stored score is capped at maxScore so
// it stays on the 0-100 scale even when everything fires at once.
const (
	pointsBank        = 20
	pointsDateExact   = 30
	pointsDateClose   = 20
	pointsDateWindow  = 10
	pointsValueExact  = 30
	pointsValueClose  = 20
	pointsValueWindow = 10
	pointsEntryType   = 10
	pointsRefExact    = 20
	pointsRefPartial  = 10
	pointsAccount     = 5
	pointsDescription = 5

	maxScore = 100
)

var criterionPoints = map[domain.Criterion]int{
	domain.CriterionBank:             pointsBank,
	domain.CriterionDateExact:        pointsDateExact,
	domain.CriterionDateClose:        pointsDateClose,
	domain.CriterionDateWindow:       pointsDateWindow,
	domain.CriterionValueExact:       pointsValueExact,
	domain.CriterionValueClose:       pointsValueClose,
	domain.CriterionValueWindow:      pointsValueWindow,
	domain.CriterionEntryType:        pointsEntryType,
	domain.CriterionReferenceExact:   pointsRefExact,
	domain.CriterionReferencePartial: pointsRefPartial,
	domain.CriterionAccount:          pointsAccount,
	domain.CriterionDescription:      pointsDescription,
}

// ScoreFromCriteria recomputes a score from a criteria set. It is the single
// source of truth for score derivation: ScorePair builds the set and then
// scores it through here.
func ScoreFromCriteria(criteria []domain.Criterion) int {
	score := 0
	for _, c := range criteria {
		score += criterionPoints[c]
	}
	if score > maxScore {
		score = maxScore
	}
	return score
}

// ScorePair evaluates one ledger entry against one bank transaction. The
// returned ok is false when a hard gate (bank identity, date window, value
// window) eliminates the pair; eliminated pairs are not scored at all.
// The function is pure: the same pair always yields the same criteria set.
func ScorePair(entry *domain.LedgerEntry, txn *domain.BankTransaction, cfg Config) (int, []domain.Criterion, bool) {
	entryBank := domain.NormalizeBank(entry.BankName)
	txnBank := domain.NormalizeBank(txn.BankName)
	if entryBank == "" || entryBank != txnBank {
		return 0, nil, false
	}

	days := daysApart(entry.PostedDate, txn.PostedDate)
	if days > cfg.DateWindowDays {
		return 0, nil, false
	}

	diff := entry.Amount.Sub(txn.Amount).Abs()
	withinAbs := diff.LessThanOrEqual(cfg.ValueToleranceAbs)
	withinPct := func(pct decimal.Decimal) bool {
		if entry.Amount.IsZero() {
			return false
		}
		return diff.Div(entry.Amount).LessThanOrEqual(pct)
	}
	if !withinAbs && !withinPct(cfg.ValueTolerancePct) {
		return 0, nil, false
	}

	criteria := []domain.Criterion{domain.CriterionBank}

	switch {
	case days == 0:
		criteria = append(criteria, domain.CriterionDateExact)
	case days == 1:
		criteria = append(criteria, domain.CriterionDateClose)
	default:
		criteria = append(criteria, domain.CriterionDateWindow)
	}

	switch {
	case withinAbs:
		criteria = append(criteria, domain.CriterionValueExact)
	case withinPct(cfg.ValueClosePct):
		criteria = append(criteria, domain.CriterionValueClose)
	default:
		criteria = append(criteria, domain.CriterionValueWindow)
	}

	if typeCompatible(entry.EntryType, txn.Direction) {
		criteria = append(criteria, domain.CriterionEntryType)
	}

	entryRef := statement.CanonicalReference(entry.ReferenceCode)
	txnRef := statement.CanonicalReference(txn.ReferenceCode)
	if entryRef != "" && txnRef != "" {
		switch {
		case entryRef == txnRef:
			criteria = append(criteria, domain.CriterionReferenceExact)
		case strings.Contains(entryRef, txnRef) || strings.Contains(txnRef, entryRef):
			criteria = append(criteria, domain.CriterionReferencePartial)
		}
	}

	entryAcct := strings.TrimSpace(entry.AccountNumber)
	txnAcct := strings.TrimSpace(txn.AccountNumber)
	if entryAcct != "" && entryAcct == txnAcct {
		criteria = append(criteria, domain.CriterionAccount)
	}

	if descriptionSimilarity(entry.Description, txn.Description) > 0.5 {
		criteria = append(criteria, domain.CriterionDescription)
	}

	return ScoreFromCriteria(criteria), criteria, true
}

// typeCompatible: revenue settles as a credit, expense as a debit. That is
// the only compatible pairing.
func typeCompatible(et domain.EntryType, d domain.Direction) bool {
	return (et == domain.EntryRevenue && d == domain.DirectionCredit) ||
		(et == domain.EntryExpense && d == domain.DirectionDebit)
}

// daysApart compares calendar dates, ignoring any time component.
func daysApart(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(ad.Sub(bd).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days
}

// descriptionSimilarity is the Jaccard similarity of the word sets of both
// descriptions, considering only words longer than 3 characters.
func descriptionSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}
	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToUpper(text)) {
		if len(w) > 3 {
			set[w] = struct{}{}
		}
	}
	return set
}
