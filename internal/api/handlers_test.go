package api

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/domain"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/matching"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/reconciliation"
	"github.com/alexandrechoske/uniq-adu-portal-sub002/internal/repository"
)

func testRouter(t *testing.T, commitMatches bool) (http.Handler, *repository.LedgerRepo) {
	t.Helper()

	db, err := repository.InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ledgerRepo := repository.NewLedgerRepo(db)
	runRepo := repository.NewRunRepo(db)
	orchestrator := reconciliation.NewOrchestrator(ledgerRepo, matching.DefaultConfig())

	return NewRouter(ledgerRepo, runRepo, orchestrator, 32, commitMatches), ledgerRepo
}

func seedSantanderEntry(t *testing.T, repo *repository.LedgerRepo) {
	t.Helper()
	entry := domain.LedgerEntry{
		ID:          "L1",
		PostedDate:  time.Date(2025, 9, 12, 0, 0, 0, 0, time.UTC),
		BankName:    "SANTANDER",
		EntryType:   domain.EntryExpense,
		Amount:      decimal.RequireFromString("260.00"),
		Description: "Taxa de armazenagem porto",
		Status:      domain.EntryPending,
	}
	require.NoError(t, repo.Insert(context.Background(), &entry))
}

// statementUpload builds a multipart body with one Santander statement line
// that fully matches the seeded entry, plus any extra form fields.
func statementUpload(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fw, err := w.CreateFormFile("file", "extrato.txt")
	require.NoError(t, err)
	_, err = fw.Write([]byte("12/09/2025;TAXA ARMAZENAGEM;-260,00\n"))
	require.NoError(t, err)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	return &body, w.FormDataContentType()
}

func runRequest(t *testing.T, router http.Handler, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reconciliation/run", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRunReconciliationUsesServerCommitDefault(t *testing.T) {
	router, ledgerRepo := testRouter(t, true)
	seedSantanderEntry(t, ledgerRepo)

	body, contentType := statementUpload(t, nil)
	rec := runRequest(t, router, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, err := ledgerRepo.GetByID(context.Background(), "L1")
	require.NoError(t, err)
	assert.Equal(t, domain.EntryReconciled, got.Status)
}

func TestRunReconciliationFormValueOverridesCommitDefault(t *testing.T) {
	router, ledgerRepo := testRouter(t, true)
	seedSantanderEntry(t, ledgerRepo)

	body, contentType := statementUpload(t, map[string]string{"commit": "false"})
	rec := runRequest(t, router, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, err := ledgerRepo.GetByID(context.Background(), "L1")
	require.NoError(t, err)
	assert.Equal(t, domain.EntryPending, got.Status)
}

func TestRunReconciliationCommitOffByDefault(t *testing.T) {
	router, ledgerRepo := testRouter(t, false)
	seedSantanderEntry(t, ledgerRepo)

	body, contentType := statementUpload(t, nil)
	rec := runRequest(t, router, body, contentType)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, err := ledgerRepo.GetByID(context.Background(), "L1")
	require.NoError(t, err)
	assert.Equal(t, domain.EntryPending, got.Status)
}
