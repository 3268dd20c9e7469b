package matching

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/domain"
)

// Match pairs ledger entries with bank transactions. Allocation is greedy in
// input order: each entry picks its best surviving candidate and consumes it,
// with no backtracking. An earlier entry can claim a transaction that would
// have scored higher for a later entry; the finance team reviews partial
// results assuming exactly this ordering, so do not "fix" it here without
// flagging downstream.
//
// Every input entry yields exactly one result, and no transaction is
// consumed by more than one entry.
func Match(entries []domain.LedgerEntry, txns []domain.BankTransaction, cfg Config) []domain.MatchResult {
	consumed := make([]bool, len(txns))
	results := make([]domain.MatchResult, 0, len(entries))

	for _, entry := range entries {
		best := pickBest(&entry, txns, consumed, cfg)

		if best == nil {
			results = append(results, domain.MatchResult{
				LedgerEntry: entry,
				Score:       0,
				Status:      domain.MatchUnmatched,
				Notes:       "no candidate transaction reached the minimum score",
			})
			continue
		}

		consumed[best.index] = true
		txn := txns[best.index]

		results = append(results, domain.MatchResult{
			LedgerEntry:     entry,
			BankTransaction: &txn,
			Score:           best.score,
			MatchedCriteria: best.criteria,
			Status:          classify(best.score, cfg),
			Notes:           buildNotes(&txn, best.score, best.criteria),
		})
	}

	return results
}

type candidate struct {
	index    int
	score    int
	criteria []domain.Criterion
}

// pickBest scores the entry against every unconsumed transaction and returns
// the highest-scoring candidate at or above the candidate threshold. The
// sort is stable, so ties keep input order and the first-seen wins.
func pickBest(entry *domain.LedgerEntry, txns []domain.BankTransaction, consumed []bool, cfg Config) *candidate {
	var candidates []candidate
	for i := range txns {
		if consumed[i] {
			continue
		}
		score, criteria, ok := ScorePair(entry, &txns[i], cfg)
		if !ok || score < cfg.CandidateThreshold {
			continue
		}
		candidates = append(candidates, candidate{index: i, score: score, criteria: criteria})
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})
	return &candidates[0]
}

func classify(score int, cfg Config) domain.MatchStatus {
	switch {
	case score >= cfg.MatchedThreshold:
		return domain.MatchMatched
	case score >= cfg.PartialThreshold:
		return domain.MatchPartiallyMatched
	default:
		return domain.MatchUnmatched
	}
}

func buildNotes(txn *domain.BankTransaction, score int, criteria []domain.Criterion) string {
	names := make([]string, len(criteria))
	for i, c := range criteria {
		names[i] = string(c)
	}
	return fmt.Sprintf("line %d of %s statement, score %d (%s)",
		txn.SourceLineNumber, txn.BankName, score, strings.Join(names, ", "))
}
