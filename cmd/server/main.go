package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/api"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/config"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/domain"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/matching"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/reconciliation"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Initializing database at %s", cfg.DBPath)
	db, err := repository.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}
	defer db.Close()

	// Create repositories.
	ledgerRepo := repository.NewLedgerRepo(db)
	runRepo := repository.NewRunRepo(db)

	// Create the orchestrator.
	orchestrator := reconciliation.NewOrchestrator(ledgerRepo, matching.DefaultConfig())

	// Seed ledger entries if DB is empty.
	ctx := context.Background()
	count, err := ledgerRepo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count ledger entries: %v", err)
	}
	if count == 0 {
		log.Println("Database is empty, seeding ledger entries from testdata...")
		if err := seedLedgerEntries(ctx, ledgerRepo); err != nil {
			log.Printf("WARNING: Failed to seed ledger entries: %v", err)
		}
	} else {
		log.Printf("Database already has %d ledger entries, skipping seed", count)
	}

	// Create router.
	router := api.NewRouter(ledgerRepo, runRepo, orchestrator, cfg.MaxUploadMB, cfg.CommitMatches)

	log.Printf("Bank Statement Reconciliation Service")
	log.Printf("Listening on http://localhost:%s", cfg.Port)
	log.Printf("API base: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("")
	log.Printf("Endpoints:")
	log.Printf("  POST   /api/v1/reconciliation/run")
	log.Printf("  GET    /api/v1/ledger-entries")
	log.Printf("  GET    /api/v1/runs")
	log.Printf("  GET    /api/v1/runs/{id}")
	log.Printf("  GET    /api/v1/dashboard")

	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func seedLedgerEntries(ctx context.Context, repo *repository.LedgerRepo) error {
	// Try multiple possible locations for testdata.
	candidates := []string{
		"testdata/ledger_entries.json",
		filepath.Join(".", "testdata", "ledger_entries.json"),
	}

	// Also try to find relative to the executable.
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		candidates = append(candidates,
			filepath.Join(dir, "testdata", "ledger_entries.json"),
			filepath.Join(dir, "..", "..", "testdata", "ledger_entries.json"),
		)
	}

	var data []byte
	var loadErr error
	for _, path := range candidates {
		data, loadErr = os.ReadFile(path)
		if loadErr == nil {
			log.Printf("Loaded ledger entries from %s", path)
			break
		}
	}
	if loadErr != nil {
		return fmt.Errorf("could not find ledger_entries.json in any candidate path: %w", loadErr)
	}

	var entries []domain.LedgerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("unmarshal ledger entries: %w", err)
	}

	inserted, err := repo.BulkInsert(ctx, entries)
	if err != nil {
		return fmt.Errorf("bulk insert: %w", err)
	}

	log.Printf("Seeded %d ledger entries (out of %d in file)", inserted, len(entries))
	return nil
}
