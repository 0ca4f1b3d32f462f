package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"invoicebridge/internal/extract"
	"invoicebridge/internal/logger"
	"invoicebridge/internal/recon"
	"invoicebridge/internal/submit"
	"invoicebridge/pkg/models"
)

// maxUploadBytes caps accepted invoice documents at 15 MB.
const maxUploadBytes = 15 << 20

// allowedExtensions whitelists the document types the upload endpoint accepts.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".pdf":  true,
}

// LedgerAPI is the slice of the ledger client the handlers use directly.
type LedgerAPI interface {
	Lookup(ctx context.Context) (*models.LookupBundle, error)
	SearchVendors(ctx context.Context, name string) ([]models.Vendor, error)
	ListTaxes(ctx context.Context) ([]models.TaxRule, error)
}

// Submitter books a reviewed invoice.
type Submitter interface {
	Submit(ctx context.Context, rev models.ReviewedInvoice) (*submit.Result, error)
}

// Handler holds the HTTP handlers for the invoice API.
type Handler struct {
	extractor extract.Service
	ledger    LedgerAPI
	submitter Submitter
	uploadDir string
	log       zerolog.Logger
}

// NewHandler creates the API handler set.
func NewHandler(extractor extract.Service, ledgerAPI LedgerAPI, submitter Submitter, uploadDir string) *Handler {
	return &Handler{
		extractor: extractor,
		ledger:    ledgerAPI,
		submitter: submitter,
		uploadDir: uploadDir,
		log:       logger.WithComponent("server"),
	}
}

// uploadData is the extracted draft returned to the review form.
type uploadData struct {
	models.ExtractedInvoice
	TaxID    string `json:"tax_id,omitempty"`
	Notes    string `json:"notes"`
	FilePath string `json:"file_path"`
	FileName string `json:"file_name"`
}

// Upload stages the document, runs extraction and returns the draft fields.
func (h *Handler) Upload(c *gin.Context) {
	file, err := c.FormFile("invoice")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("File type %s not supported. Use JPG, PNG, WebP, or PDF.", ext),
		})
		return
	}
	if file.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File exceeds the 15 MB limit"})
		return
	}

	stagedPath := filepath.Join(h.uploadDir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(file, stagedPath); err != nil {
		h.log.Error().Err(err).Msg("Failed to stage upload")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store uploaded file"})
		return
	}

	h.log.Info().
		Str("file", file.Filename).
		Int64("size", file.Size).
		Msg("Processing uploaded invoice")

	extracted, err := h.extractor.ExtractInvoice(c.Request.Context(), stagedPath)
	if err != nil {
		// The staged copy is useless without extracted data; the user
		// re-uploads or enters fields manually.
		if rmErr := os.Remove(stagedPath); rmErr != nil {
			h.log.Debug().Err(rmErr).Str("file", stagedPath).Msg("Failed to remove staged upload")
		}

		h.log.Error().Err(err).Str("file", file.Filename).Msg("Extraction failed")
		status := http.StatusInternalServerError
		if errors.Is(err, extract.ErrUnextractableDocument) || errors.Is(err, extract.ErrUnsupportedFormat) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	data := uploadData{
		ExtractedInvoice: *extracted,
		Notes:            buildLineItemNotes(extracted.LineItems),
		FilePath:         stagedPath,
		FileName:         file.Filename,
	}

	// Pre-select a tax rule when one fits; a miss just leaves the field
	// for the user to pick.
	if taxes, err := h.ledger.ListTaxes(c.Request.Context()); err != nil {
		h.log.Warn().Err(err).Msg("Tax lookup for pre-selection failed")
	} else if match := recon.MatchTaxRule(taxes, extracted.GSTRate, extracted.GSTType); match != nil {
		data.TaxID = match.TaxID
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// Confirm books the reviewed invoice as an expense.
func (h *Handler) Confirm(c *gin.Context) {
	var rev models.ReviewedInvoice
	if err := c.ShouldBindJSON(&rev); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	h.log.Info().
		Str("bill_number", rev.BillNumber).
		Str("vendor", rev.VendorName).
		Msg("Confirming invoice submission")

	result, err := h.submitter.Submit(c.Request.Context(), rev)
	if err != nil {
		h.log.Error().Err(err).Str("bill_number", rev.BillNumber).Msg("Submission failed")
		status := http.StatusInternalServerError
		if errors.Is(err, submit.ErrValidation) ||
			errors.Is(err, recon.ErrVendorResolution) ||
			errors.Is(err, recon.ErrGSTINRejected) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	resp := gin.H{
		"success": true,
		"bill": gin.H{
			"bill_id":     result.BillID,
			"bill_number": result.BillNumber,
			"vendor_name": result.VendorName,
			"total":       result.Total,
		},
	}
	if result.AttachmentErr != nil {
		resp["warning"] = fmt.Sprintf("Expense created, but attaching the document failed: %v", result.AttachmentErr)
	}

	c.JSON(http.StatusOK, resp)
}

// Lookup returns the reference-data bundle for the review form.
func (h *Handler) Lookup(c *gin.Context) {
	bundle, err := h.ledger.Lookup(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Lookup failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": bundle})
}

// SearchVendors proxies the ledger's vendor search for autocomplete.
func (h *Handler) SearchVendors(c *gin.Context) {
	vendors, err := h.ledger.SearchVendors(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.log.Error().Err(err).Msg("Vendor search failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if vendors == nil {
		vendors = []models.Vendor{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "vendors": vendors})
}

// buildLineItemNotes renders extracted line items as review-form notes text.
func buildLineItemNotes(items []models.LineItem) string {
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Line Items:\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s", i+1, item.Description)
		if item.Quantity != 0 {
			fmt.Fprintf(&b, " — Qty: %g", item.Quantity)
		}
		if item.Rate != 0 {
			fmt.Fprintf(&b, " × ₹%g", item.Rate)
		}
		if item.Amount != 0 {
			fmt.Fprintf(&b, " = ₹%g", item.Amount)
		}
		b.WriteString("\n")
	}
	return b.String()
}
