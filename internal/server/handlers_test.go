package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicebridge/internal/extract"
	"invoicebridge/internal/recon"
	"invoicebridge/internal/submit"
	"invoicebridge/pkg/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeExtractor struct {
	invoice  *models.ExtractedInvoice
	err      error
	lastPath string
}

func (f *fakeExtractor) ExtractInvoice(ctx context.Context, filePath string) (*models.ExtractedInvoice, error) {
	f.lastPath = filePath
	if f.err != nil {
		return nil, f.err
	}
	return f.invoice, nil
}

type fakeLedger struct {
	bundle     *models.LookupBundle
	vendors    []models.Vendor
	taxes      []models.TaxRule
	lookupErr  error
	vendorsErr error
	taxesErr   error
}

func (f *fakeLedger) Lookup(ctx context.Context) (*models.LookupBundle, error) {
	return f.bundle, f.lookupErr
}

func (f *fakeLedger) SearchVendors(ctx context.Context, name string) ([]models.Vendor, error) {
	return f.vendors, f.vendorsErr
}

func (f *fakeLedger) ListTaxes(ctx context.Context) ([]models.TaxRule, error) {
	return f.taxes, f.taxesErr
}

type fakeSubmitter struct {
	result  *submit.Result
	err     error
	lastRev models.ReviewedInvoice
}

func (f *fakeSubmitter) Submit(ctx context.Context, rev models.ReviewedInvoice) (*submit.Result, error) {
	f.lastRev = rev
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestRouter(t *testing.T, extractor extract.Service, ledger LedgerAPI, submitter Submitter) *gin.Engine {
	t.Helper()
	h := NewHandler(extractor, ledger, submitter, t.TempDir())
	return NewRouter(h, "")
}

func multipartUpload(t *testing.T, fieldName, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(fieldName, fileName)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func extractedFixture() *models.ExtractedInvoice {
	return &models.ExtractedInvoice{
		VendorName:    "Acme Supplies",
		VendorGSTIN:   "29ABCDE1234F1Z5",
		InvoiceNumber: "INV-042",
		InvoiceDate:   "2026-07-15",
		GSTType:       models.GSTTypeInterState,
		TaxTreatment:  models.TaxTreatmentExclusive,
		GSTRate:       18,
		SubTotal:      1000,
		TaxAmount:     180,
		TotalAmount:   1180,
		LineItems:     []models.LineItem{
			{Description: "Widgets", Quantity: 2, Rate: 500, Amount: 1000},
		},
	}
}

func TestUploadMissingFile(t *testing.T) {
	router := newTestRouter(t, &fakeExtractor{}, &fakeLedger{}, &fakeSubmitter{})

	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "No file uploaded")
}

func TestUploadRejectsUnknownExtension(t *testing.T) {
	extractor := &fakeExtractor{}
	router := newTestRouter(t, extractor, &fakeLedger{}, &fakeSubmitter{})

	body, contentType := multipartUpload(t, "invoice", "invoice.docx", []byte("not an invoice"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), ".docx")
	assert.Empty(t, extractor.lastPath, "nothing should be staged for a rejected file type")
}

func TestUploadReturnsDraftWithTaxPreselection(t *testing.T) {
	extractor := &fakeExtractor{invoice: extractedFixture()}
	ledger := &fakeLedger{taxes: []models.TaxRule{
		{TaxID: "t-gst", TaxName: "GST18", TaxPercentage: 18},
		{TaxID: "t-igst", TaxName: "IGST 18%", TaxPercentage: 18},
	}}
	router := newTestRouter(t, extractor, ledger, &fakeSubmitter{})

	body, contentType := multipartUpload(t, "invoice", "invoice.png", []byte("fake png bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			VendorName string `json:"vendor_name"`
			TaxID      string `json:"tax_id"`
			Notes      string `json:"notes"`
			FilePath   string `json:"file_path"`
			FileName   string `json:"file_name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.True(t, resp.Success)
	assert.Equal(t, "Acme Supplies", resp.Data.VendorName)
	assert.Equal(t, "t-igst", resp.Data.TaxID, "inter-state rate should pre-select the IGST rule")
	assert.Contains(t, resp.Data.Notes, "Widgets")
	assert.Equal(t, "invoice.png", resp.Data.FileName)

	// The staged copy survives extraction for the later confirm step.
	assert.Equal(t, resp.Data.FilePath, extractor.lastPath)
	_, err := os.Stat(resp.Data.FilePath)
	assert.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(resp.Data.FilePath))
}

func TestUploadTaxLookupFailureIsNonFatal(t *testing.T) {
	extractor := &fakeExtractor{invoice: extractedFixture()}
	ledger := &fakeLedger{taxesErr: errors.New("ledger unavailable")}
	router := newTestRouter(t, extractor, ledger, &fakeSubmitter{})

	body, contentType := multipartUpload(t, "invoice", "invoice.jpg", []byte("fake jpg"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"tax_id"`)
}

func TestUploadExtractionFailureRemovesStagedFile(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "unreadable document is the caller's problem",
			err:        fmt.Errorf("wrapped: %w", extract.ErrUnextractableDocument),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "model failure is ours",
			err:        fmt.Errorf("wrapped: %w", extract.ErrExtractionFailed),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor := &fakeExtractor{err: tt.err}
			router := newTestRouter(t, extractor, &fakeLedger{}, &fakeSubmitter{})

			body, contentType := multipartUpload(t, "invoice", "invoice.pdf", []byte("%PDF-1.4"))
			req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			require.NotEmpty(t, extractor.lastPath)
			_, statErr := os.Stat(extractor.lastPath)
			assert.True(t, os.IsNotExist(statErr), "staged file should be cleaned up after failed extraction")
		})
	}
}

func TestConfirmSuccess(t *testing.T) {
	submitter := &fakeSubmitter{result: &submit.Result{
		BillID:     "e1",
		BillNumber: "INV-042",
		VendorName: "Acme Supplies",
		Total:      1180,
	}}
	router := newTestRouter(t, &fakeExtractor{}, &fakeLedger{}, submitter)

	payload := `{"vendor_name":"Acme Supplies","bill_number":"INV-042","account_id":"acc-exp","total_amount":1180}`
	req := httptest.NewRequest(http.MethodPost, "/api/confirm", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Acme Supplies", submitter.lastRev.VendorName)
	assert.Contains(t, rec.Body.String(), `"bill_id":"e1"`)
	assert.NotContains(t, rec.Body.String(), "warning")
}

func TestConfirmReportsAttachmentWarning(t *testing.T) {
	submitter := &fakeSubmitter{result: &submit.Result{
		BillID:        "e1",
		BillNumber:    "INV-042",
		AttachmentErr: errors.New("attachment too large"),
	}}
	router := newTestRouter(t, &fakeExtractor{}, &fakeLedger{}, submitter)

	req := httptest.NewRequest(http.MethodPost, "/api/confirm", bytes.NewBufferString(`{"account_id":"acc-exp"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "warning")
	assert.Contains(t, rec.Body.String(), "attachment too large")
}

func TestConfirmStatusByFailureKind(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", fmt.Errorf("submit: %w", submit.ErrValidation), http.StatusBadRequest},
		{"vendor resolution", fmt.Errorf("submit: %w", recon.ErrVendorResolution), http.StatusBadRequest},
		{"gstin rejected", fmt.Errorf("submit: %w", recon.ErrGSTINRejected), http.StatusBadRequest},
		{"ledger down", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, &fakeExtractor{}, &fakeLedger{}, &fakeSubmitter{err: tt.err})

			req := httptest.NewRequest(http.MethodPost, "/api/confirm", bytes.NewBufferString(`{"account_id":"acc-exp"}`))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestConfirmRejectsMalformedBody(t *testing.T) {
	router := newTestRouter(t, &fakeExtractor{}, &fakeLedger{}, &fakeSubmitter{})

	req := httptest.NewRequest(http.MethodPost, "/api/confirm", bytes.NewBufferString(`{"total_amount":"not a number"`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLookup(t *testing.T) {
	ledger := &fakeLedger{bundle: &models.LookupBundle{
		Vendors:         []models.Vendor{{ContactID: "c1", ContactName: "Acme Supplies"}},
		Taxes:           []models.TaxRule{{TaxID: "t1", TaxName: "GST18", TaxPercentage: 18}},
		ExpenseAccounts: []models.Account{{AccountID: "a1", AccountName: "Office Expenses", AccountType: "expense"}},
		BankAccounts:    []models.Account{{AccountID: "a4", AccountName: "HDFC Current", AccountType: "bank"}},
	}}
	router := newTestRouter(t, &fakeExtractor{}, ledger, &fakeSubmitter{})

	req := httptest.NewRequest(http.MethodGet, "/api/lookup", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Office Expenses")
	assert.Contains(t, rec.Body.String(), "HDFC Current")
}

func TestSearchVendorsEmptyResultIsAnEmptyList(t *testing.T) {
	router := newTestRouter(t, &fakeExtractor{}, &fakeLedger{vendors: nil}, &fakeSubmitter{})

	req := httptest.NewRequest(http.MethodGet, "/api/vendors/search?q=nobody", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"vendors":[]`)
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, &fakeExtractor{}, &fakeLedger{}, &fakeSubmitter{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestBuildLineItemNotes(t *testing.T) {
	assert.Empty(t, buildLineItemNotes(nil))

	notes := buildLineItemNotes([]models.LineItem{
		{Description: "Widgets", Quantity: 2, Rate: 500, Amount: 1000},
		{Description: "Delivery"},
	})
	assert.Contains(t, notes, "1. Widgets")
	assert.Contains(t, notes, "Qty: 2")
	assert.Contains(t, notes, "2. Delivery")
}
