package submit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"invoicebridge/internal/logger"
	"invoicebridge/internal/recon"
	"invoicebridge/pkg/models"
)

// ErrValidation is returned when the reviewed invoice is missing required
// user input.
var ErrValidation = errors.New("invalid submission")

// ExpenseBooker is the slice of the ledger client the orchestrator needs
// beyond vendor resolution.
type ExpenseBooker interface {
	CreateExpense(ctx context.Context, payload models.ExpensePayload) (*models.Expense, error)
	AttachReceipt(ctx context.Context, expenseID, filePath, fileName string) error
	FindPaidThroughAccount(ctx context.Context, name string) (*models.Account, error)
}

// Resolver resolves a vendor identity against the ledger.
type Resolver interface {
	Resolve(ctx context.Context, name, preselectedID, gstin string) (string, error)
}

// Result is what a finished submission reports back to the user.
type Result struct {
	BillID     string
	BillNumber string
	VendorName string
	Total      float64

	// AttachmentErr records a failed receipt upload. The expense exists
	// either way; the caller surfaces this as a warning for manual retry.
	AttachmentErr error
}

// Orchestrator sequences one submission: resolve vendor, create expense,
// attach receipt best-effort, clean up the staged file. The sequence is
// linear with failure exits only; a vendor created or updated before a
// later failure is left in place, which keeps retries idempotent since
// resolution then finds it by exact match.
type Orchestrator struct {
	ledger             ExpenseBooker
	resolver           Resolver
	defaultPaidThrough string
	removeFile         func(string) error
	log                zerolog.Logger
}

// NewOrchestrator creates an orchestrator. defaultPaidThrough is the
// configured payment-source account name used when the form leaves the
// paid-through selection blank; empty disables the fallback.
func NewOrchestrator(ledger ExpenseBooker, resolver Resolver, defaultPaidThrough string) *Orchestrator {
	return &Orchestrator{
		ledger:             ledger,
		resolver:           resolver,
		defaultPaidThrough: defaultPaidThrough,
		removeFile:         os.Remove,
		log:                logger.WithComponent("submit"),
	}
}

// Submit books the reviewed invoice as an expense with the original
// document attached.
func (o *Orchestrator) Submit(ctx context.Context, rev models.ReviewedInvoice) (*Result, error) {
	const op = "Submit"

	if rev.AccountID == "" {
		return nil, fmt.Errorf("%s: %w: expense account is required", op, ErrValidation)
	}

	vendorID, err := o.resolver.Resolve(ctx, rev.VendorName, rev.VendorID, rev.VendorGSTIN)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	payload, err := o.buildExpensePayload(ctx, rev, vendorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	expense, err := o.ledger.CreateExpense(ctx, *payload)
	if err != nil {
		// The resolved/created vendor stays; retrying is safe.
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &Result{
		BillID:     expense.ExpenseID,
		BillNumber: expense.ReferenceNumber,
		VendorName: expense.VendorName,
		Total:      expense.Total,
	}
	if result.BillNumber == "" {
		result.BillNumber = rev.BillNumber
	}

	if rev.FilePath != "" {
		if err := o.ledger.AttachReceipt(ctx, expense.ExpenseID, rev.FilePath, o.attachmentName(rev)); err != nil {
			// The financial record matters more than the document link.
			o.log.Warn().
				Err(err).
				Str("expense_id", expense.ExpenseID).
				Msg("Receipt attachment failed, expense stands")
			result.AttachmentErr = err
		}

		// The staged upload is disposable scratch space.
		if err := o.removeFile(rev.FilePath); err != nil {
			o.log.Debug().
				Err(err).
				Str("file", rev.FilePath).
				Msg("Failed to remove staged upload")
		}
	}

	o.log.Info().
		Str("expense_id", result.BillID).
		Str("reference", result.BillNumber).
		Str("vendor", result.VendorName).
		Float64("total", result.Total).
		Msg("Submission completed")

	return result, nil
}

func (o *Orchestrator) buildExpensePayload(ctx context.Context, rev models.ReviewedInvoice, vendorID string) (*models.ExpensePayload, error) {
	treatment := recon.ClassifyGSTTreatment(rev.GSTType, rev.ReverseCharge, rev.VendorGSTIN)
	amount := recon.SelectLineAmount(rev.TaxTreatment, rev.SubTotal, rev.TotalAmount)

	description := strings.TrimSpace(rev.Notes)
	if description == "" {
		description = fmt.Sprintf("Expense for Invoice #%s", rev.BillNumber)
	}

	paidThrough := rev.PaidThroughAccountID
	if paidThrough == "" && o.defaultPaidThrough != "" {
		account, err := o.ledger.FindPaidThroughAccount(ctx, o.defaultPaidThrough)
		if err != nil {
			return nil, err
		}
		if account != nil {
			paidThrough = account.AccountID
		}
	}

	payload := &models.ExpensePayload{
		AccountID:              rev.AccountID,
		PaidThroughAccountID:   paidThrough,
		Date:                   rev.InvoiceDate,
		Amount:                 amount,
		TaxID:                  rev.TaxID,
		IsInclusiveTax:         rev.TaxTreatment == models.TaxTreatmentInclusive,
		ReferenceNumber:        rev.BillNumber,
		VendorID:               vendorID,
		Description:            description,
		GSTTreatment:           treatment,
		IsReverseChargeApplied: rev.ReverseCharge,
	}

	// The expenses API wants the tax id on the payload itself, and only
	// for registered-business treatment.
	if rev.VendorGSTIN != "" && treatment == models.GSTTreatmentBusinessGST {
		payload.GSTNo = rev.VendorGSTIN
	}

	return payload, nil
}

func (o *Orchestrator) attachmentName(rev models.ReviewedInvoice) string {
	if rev.FileName != "" {
		return rev.FileName
	}
	return "invoice"
}
