package matching

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/domain"
)

// BuildReport aggregates a completed match run: per-status counts and
// amounts, a per-bank breakdown and the criterion frequency table.
func BuildReport(results []domain.MatchResult) *domain.Report {
	report := &domain.Report{
		CriteriaFrequency: make(map[domain.Criterion]int),
		Results:           results,
	}

	byBank := make(map[domain.Bank]*domain.BankBreakdown)

	for _, r := range results {
		amount := r.LedgerEntry.Amount

		report.Summary.Total++
		report.Amounts.Total = report.Amounts.Total.Add(amount)

		switch r.Status {
		case domain.MatchMatched:
			report.Summary.Matched++
			report.Amounts.Matched = report.Amounts.Matched.Add(amount)
		case domain.MatchPartiallyMatched:
			report.Summary.PartiallyMatched++
			report.Amounts.PartiallyMatched = report.Amounts.PartiallyMatched.Add(amount)
		default:
			report.Summary.Unmatched++
			report.Amounts.Unmatched = report.Amounts.Unmatched.Add(amount)
		}

		for _, c := range r.MatchedCriteria {
			report.CriteriaFrequency[c]++
		}

		bank := domain.NormalizeBank(r.LedgerEntry.BankName)
		bb, ok := byBank[bank]
		if !ok {
			bb = &domain.BankBreakdown{Bank: bank}
			byBank[bank] = bb
		}
		bb.Total++
		bb.TotalAmount = bb.TotalAmount.Add(amount)
		if r.Status == domain.MatchMatched {
			bb.Matched++
			bb.MatchedAmount = bb.MatchedAmount.Add(amount)
		}
	}

	if report.Amounts.Total.IsPositive() {
		pct, _ := report.Amounts.Matched.
			Div(report.Amounts.Total).
			Mul(decimal.NewFromInt(100)).
			Float64()
		report.Amounts.PercentReconciled = math.Round(pct*100) / 100
	}

	for _, bb := range byBank {
		report.ByBank = append(report.ByBank, *bb)
	}
	sort.Slice(report.ByBank, func(i, j int) bool {
		return report.ByBank[i].Bank < report.ByBank[j].Bank
	})

	return report
}
