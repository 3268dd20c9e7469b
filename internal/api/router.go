package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/reconciliation"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/repository"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(
	ledgerRepo *repository.LedgerRepo,
	runRepo *repository.RunRepo,
	orchestrator *reconciliation.Orchestrator,
	maxUploadMB int64,
	commitMatches bool,
) http.Handler {
	h := &Handlers{
		ledgerRepo:    ledgerRepo,
		runRepo:       runRepo,
		orchestrator:  orchestrator,
		maxUploadMB:   maxUploadMB,
		commitDefault: commitMatches,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Route("/api/v1", func(r chi.Router) {
		// Reconciliation.
		r.Post("/reconciliation/run", h.RunReconciliation)

		// Ledger.
		r.Get("/ledger-entries", h.ListLedgerEntries)

		// Runs.
		r.Get("/runs", h.ListRuns)
		r.Get("/runs/{id}", h.GetRun)

		// Dashboard.
		r.Get("/dashboard", h.GetDashboard)
	})

	return r
}
