package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/reconciliation"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/repository"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/statement"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	ledgerRepo    *repository.LedgerRepo
	runRepo       *repository.RunRepo
	orchestrator  *reconciliation.Orchestrator
	maxUploadMB   int64
	commitDefault bool
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
		if err != nil {
			return nil
		}
	}
	return &t
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// --- RunReconciliation ---

// RunReconciliation accepts a multipart form with one or more statement
// files (field "file") plus a per-request format hint (field "format",
// defaults to auto) and run options as form values.
func (h *Handlers) RunReconciliation(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadMB << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	hint := statement.FormatHint(r.FormValue("format"))
	if hint == "" {
		hint = statement.HintAuto
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["file"]) == 0 {
		writeError(w, http.StatusBadRequest, "at least one file field is required")
		return
	}

	var files []reconciliation.UploadedFile
	for _, fh := range r.MultipartForm.File["file"] {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "open upload "+fh.Filename+": "+err.Error())
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "read upload "+fh.Filename+": "+err.Error())
			return
		}
		files = append(files, reconciliation.UploadedFile{
			Name: fh.Filename,
			Data: data,
			Hint: hint,
		})
	}

	// The service-level COMMIT_MATCHES setting decides whether matches are
	// persisted; an explicit "commit" form value overrides it per request.
	commit := h.commitDefault
	if v := r.FormValue("commit"); v != "" {
		commit = v == "true"
	}

	opts := reconciliation.RunOptions{
		Bank:   r.FormValue("bank"),
		From:   parseTime(r.FormValue("from")),
		To:     parseTime(r.FormValue("to")),
		Commit: commit,
	}

	report, err := h.orchestrator.Run(r.Context(), files, opts)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, reconciliation.ErrNoLedgerEntries) || errors.Is(err, reconciliation.ErrNoTransactions) {
			status = http.StatusConflict
		}
		writeError(w, status, err.Error())
		return
	}

	if err := h.runRepo.SaveRun(r.Context(), report); err != nil {
		// The run itself succeeded; persistence of the audit record did not.
		log.Printf("[api] WARNING: save run %s: %v", report.RunID, err)
	}

	writeJSON(w, http.StatusOK, report)
}

// --- ListLedgerEntries ---

func (h *Handlers) ListLedgerEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.LedgerFilter{
		Bank:   q.Get("bank"),
		Status: q.Get("status"),
		From:   parseTime(q.Get("from")),
		To:     parseTime(q.Get("to")),
		Page:   parseIntDefault(q.Get("page"), 1),
		Limit:  parseIntDefault(q.Get("limit"), 50),
	}

	entries, total, err := h.ledgerRepo.List(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ledger_entries": entries,
		"total":          total,
		"page":           filter.Page,
		"limit":          filter.Limit,
	})
}

// --- ListRuns ---

func (h *Handlers) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 50)

	runs, err := h.runRepo.ListRuns(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"runs":  runs,
		"limit": limit,
	})
}

// --- GetRun ---

func (h *Handlers) GetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	rec, results, err := h.runRepo.GetRun(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"run":     rec,
		"results": results,
	})
}

// --- GetDashboard ---

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ledgerRepo.GetDashboardStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	byBank, err := h.ledgerRepo.GetVolumeByBank(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	runs, err := h.runRepo.ListRuns(r.Context(), 10)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ledger":      stats,
		"by_bank":     byBank,
		"recent_runs": runs,
	})
}
