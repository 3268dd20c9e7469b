// Command reconcile runs a reconciliation offline, against a JSON ledger
// export instead of the service database. Useful for re-checking a closed
// period without touching the portal.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/domain"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/matching"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/reconciliation"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/statement"
)

type stringArray []string

func (s *stringArray) String() string { return strings.Join(*s, ",") }

func (s *stringArray) Set(value string) error {
	*s = append(*s, value)
	return nil
}

func main() {
	var files stringArray
	ledgerPath := flag.String("ledger", "", "Path to a JSON export of pending ledger entries")
	format := flag.String("format", "auto", "Statement format hint: auto, bb, santander, itau, ofx")
	flag.Var(&files, "file", "Statement file path (can be used multiple times)")
	flag.Parse()

	if *ledgerPath == "" || len(files) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ledger, err := loadLedger(*ledgerPath)
	if err != nil {
		log.Fatal(err)
	}

	var uploads []reconciliation.UploadedFile
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("read %s: %v", path, err)
		}
		uploads = append(uploads, reconciliation.UploadedFile{
			Name: path,
			Data: data,
			Hint: statement.FormatHint(*format),
		})
	}

	orchestrator := reconciliation.NewOrchestrator(ledger, matching.DefaultConfig())
	report, err := orchestrator.Run(context.Background(), uploads, reconciliation.RunOptions{})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Reconciliation Summary")
	fmt.Println("-----------------------")
	fmt.Printf("Ledger entries processed: %d\n", report.Report.Summary.Total)
	fmt.Printf("Matched:                  %d\n", report.Report.Summary.Matched)
	fmt.Printf("Partially matched:        %d\n", report.Report.Summary.PartiallyMatched)
	fmt.Printf("Unmatched:                %d\n", report.Report.Summary.Unmatched)
	fmt.Printf("Percent reconciled:       %.2f%%\n", report.Report.Amounts.PercentReconciled)
	fmt.Println()
	for _, f := range report.Files {
		if f.Error != "" {
			fmt.Printf("file %s: ERROR %s\n", f.Name, f.Error)
			continue
		}
		fmt.Printf("file %s: %s, %d/%d rows extracted\n", f.Name, f.BankName, f.RowsExtracted, f.RowsSeen)
	}
	for _, r := range report.Report.Results {
		if r.Status == domain.MatchPartiallyMatched {
			fmt.Printf("review: entry %s score %d (%s)\n", r.LedgerEntry.ID, r.Score, r.Notes)
		}
	}
}

// memoryLedger satisfies the orchestrator's LedgerStore over a JSON export.
// Commit is disabled offline, so MarkReconciled never runs.
type memoryLedger struct {
	entries []domain.LedgerEntry
}

func (m *memoryLedger) ListPending(_ context.Context, bank string, from, to *time.Time) ([]domain.LedgerEntry, error) {
	var out []domain.LedgerEntry
	for _, e := range m.entries {
		if e.Status != domain.EntryPending {
			continue
		}
		if bank != "" && domain.NormalizeBank(bank) != domain.NormalizeBank(e.BankName) {
			continue
		}
		if from != nil && e.PostedDate.Before(*from) {
			continue
		}
		if to != nil && e.PostedDate.After(*to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memoryLedger) MarkReconciled(_ context.Context, entryID string, _ time.Time) error {
	return fmt.Errorf("offline run cannot commit entry %s", entryID)
}

func loadLedger(path string) (*memoryLedger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ledger export: %w", err)
	}
	var entries []domain.LedgerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal ledger export: %w", err)
	}
	return &memoryLedger{entries: entries}, nil
}
