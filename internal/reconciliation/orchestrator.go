// Package reconciliation sequences statement parsing and matching over a set
// of uploaded files and exposes commit semantics for accepted matches.
package reconciliation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/domain"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/matching"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/statement"
)

var (
	// ErrNoLedgerEntries means there was nothing to reconcile against.
	ErrNoLedgerEntries = errors.New("no pending ledger entries for the requested filter")
	// ErrNoTransactions means no uploaded file yielded a single transaction.
	ErrNoTransactions = errors.New("no transactions extracted from any uploaded file")
)

// LedgerStore is the external ledger collaborator. MarkReconciled must only
// transition entries that are still pending, so two concurrent runs cannot
// both commit the same entry.
type LedgerStore interface {
	ListPending(ctx context.Context, bank string, from, to *time.Time) ([]domain.LedgerEntry, error)
	MarkReconciled(ctx context.Context, entryID string, at time.Time) error
}

// UploadedFile is one statement file handed to a run.
type UploadedFile struct {
	Name string
	Data []byte
	Hint statement.FormatHint
}

// RunOptions narrows the ledger query and controls persistence.
type RunOptions struct {
	Bank   string
	From   *time.Time
	To     *time.Time
	Commit bool
}

// FileResult records the outcome of parsing one uploaded file. A failed file
// carries its error here instead of aborting the run.
type FileResult struct {
	Name          string `json:"name"`
	BankName      string `json:"bank_name,omitempty"`
	RowsSeen      int    `json:"rows_seen"`
	RowsExtracted int    `json:"rows_extracted"`
	Error         string `json:"error,omitempty"`
}

// CommitWarning is a per-entry persistence failure during the commit step.
type CommitWarning struct {
	EntryID string `json:"entry_id"`
	Message string `json:"message"`
}

// RunReport is the full outcome of one reconciliation run.
type RunReport struct {
	RunID          string          `json:"run_id"`
	State          RunState        `json:"state"`
	StartedAt      time.Time       `json:"started_at"`
	FinishedAt     time.Time       `json:"finished_at"`
	Files          []FileResult    `json:"files"`
	Report         *domain.Report  `json:"report"`
	CommittedCount int             `json:"committed_count"`
	CommitWarnings []CommitWarning `json:"commit_warnings,omitempty"`
}

// Orchestrator runs the parse -> match -> report -> commit pipeline. It
// holds no per-run state: each Run builds its own runContext, so concurrent
// runs are independent.
type Orchestrator struct {
	ledger LedgerStore
	cfg    matching.Config
}

func NewOrchestrator(ledger LedgerStore, cfg matching.Config) *Orchestrator {
	return &Orchestrator{ledger: ledger, cfg: cfg}
}

// runContext is the per-run state machine instance.
type runContext struct {
	id    string
	state RunState
}

func newRunContext() *runContext {
	return &runContext{id: uuid.NewString(), state: StateIdle}
}

func (rc *runContext) transition(to RunState) error {
	if !isValidTransition(rc.state, to) {
		return &InvalidStateTransitionError{RunID: rc.id, FromState: rc.state, ToState: to}
	}
	rc.state = to
	return nil
}

// Run executes one reconciliation run over the uploaded files. It fails fast
// when the ledger query returns nothing, tolerates individual bad files, and
// fails when the pooled transaction set ends up empty. Commit is best-effort
// per entry: one persistence failure is recorded as a warning and does not
// roll back entries already committed.
func (o *Orchestrator) Run(ctx context.Context, files []UploadedFile, opts RunOptions) (*RunReport, error) {
	rc := newRunContext()
	report := &RunReport{RunID: rc.id, StartedAt: time.Now()}

	fail := func(err error) (*RunReport, error) {
		rc.state = StateErrored
		report.State = rc.state
		report.FinishedAt = time.Now()
		return nil, err
	}

	if err := rc.transition(StateLoadingLedger); err != nil {
		return fail(err)
	}
	entries, err := o.ledger.ListPending(ctx, opts.Bank, opts.From, opts.To)
	if err != nil {
		return fail(fmt.Errorf("load ledger entries: %w", err))
	}
	if len(entries) == 0 {
		return fail(ErrNoLedgerEntries)
	}

	if err := rc.transition(StateParsingFiles); err != nil {
		return fail(err)
	}
	var pool []domain.BankTransaction
	for _, f := range files {
		fr := FileResult{Name: f.Name}
		st, err := statement.Parse(f.Data, f.Name, f.Hint)
		if err != nil {
			fr.Error = err.Error()
			log.Printf("[reconciliation] WARNING: file %s: %v", f.Name, err)
		} else {
			fr.BankName = string(st.BankName)
			fr.RowsSeen = st.RowsSeen
			fr.RowsExtracted = st.RowsExtracted
			pool = append(pool, st.Transactions...)
		}
		report.Files = append(report.Files, fr)
	}
	if len(pool) == 0 {
		return fail(ErrNoTransactions)
	}

	if err := rc.transition(StateMatching); err != nil {
		return fail(err)
	}
	results := matching.Match(entries, pool, o.cfg)

	if err := rc.transition(StateReporting); err != nil {
		return fail(err)
	}
	report.Report = matching.BuildReport(results)

	if opts.Commit {
		if err := rc.transition(StateCommitting); err != nil {
			return fail(err)
		}
		report.CommittedCount, report.CommitWarnings = o.commit(ctx, results)
	}

	if err := rc.transition(StateDone); err != nil {
		return fail(err)
	}
	report.State = rc.state
	report.FinishedAt = time.Now()

	log.Printf("[reconciliation] run %s: %d entries, %d transactions, matched=%d partial=%d unmatched=%d committed=%d",
		rc.id, len(entries), len(pool),
		report.Report.Summary.Matched, report.Report.Summary.PartiallyMatched,
		report.Report.Summary.Unmatched, report.CommittedCount)

	return report, nil
}

// commit marks every fully matched entry reconciled. Entries are independent,
// so a failure on one is logged and the loop continues.
func (o *Orchestrator) commit(ctx context.Context, results []domain.MatchResult) (int, []CommitWarning) {
	now := time.Now()
	committed := 0
	var warnings []CommitWarning

	for _, r := range results {
		if r.Status != domain.MatchMatched {
			continue
		}
		if err := o.ledger.MarkReconciled(ctx, r.LedgerEntry.ID, now); err != nil {
			log.Printf("[reconciliation] WARNING: commit entry %s: %v", r.LedgerEntry.ID, err)
			warnings = append(warnings, CommitWarning{EntryID: r.LedgerEntry.ID, Message: err.Error()})
			continue
		}
		committed++
	}

	return committed, warnings
}
