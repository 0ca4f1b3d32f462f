package recon

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"invoicebridge/internal/logger"
	"invoicebridge/pkg/models"
)

var (
	// ErrVendorResolution is returned when resolution cannot end with
	// exactly one vendor identifier.
	ErrVendorResolution = errors.New("vendor resolution failed")

	// ErrGSTINRejected is returned when the ledger refuses to attach the
	// supplied tax id to an existing vendor. The whole submission must
	// abort rather than proceed with an unregistered bill.
	ErrGSTINRejected = errors.New("ledger rejected vendor GSTIN update")
)

// minGSTINLength filters out junk tax ids; only values longer than this
// trigger a vendor update.
const minGSTINLength = 5

// VendorDirectory is the slice of the ledger client vendor resolution needs.
type VendorDirectory interface {
	SearchVendors(ctx context.Context, name string) ([]models.Vendor, error)
	CreateVendor(ctx context.Context, name, gstin, gstTreatment string) (*models.Vendor, error)
	UpdateVendorGSTIN(ctx context.Context, vendorID, gstin string) (*models.Vendor, error)
}

// VendorResolver turns a free-text vendor name plus optional corrections
// into exactly one ledger vendor id, creating or updating the contact when
// needed. Resolution is idempotent: the same exact name resolves to the
// same id on retry because search finds the previously created vendor.
type VendorResolver struct {
	directory VendorDirectory
	log       zerolog.Logger
}

// NewVendorResolver creates a resolver over the given directory.
func NewVendorResolver(directory VendorDirectory) *VendorResolver {
	return &VendorResolver{
		directory: directory,
		log:       logger.WithComponent("vendor-resolver"),
	}
}

// Resolve yields one vendor id or fails. A pre-selected id (from the form's
// autocomplete) short-circuits all matching.
func (r *VendorResolver) Resolve(ctx context.Context, name, preselectedID, gstin string) (string, error) {
	const op = "Resolve"

	if preselectedID != "" {
		return preselectedID, nil
	}

	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%s: %w: vendor name is required when no vendor is selected", op, ErrVendorResolution)
	}

	vendors, err := r.directory.SearchVendors(ctx, name)
	if err != nil {
		return "", fmt.Errorf("%s: %w: search failed: %v", op, ErrVendorResolution, err)
	}

	if match := MatchVendorName(vendors, name); match != nil {
		r.log.Info().
			Str("contact_id", match.ContactID).
			Str("name", match.ContactName).
			Msg("Matched existing vendor")

		if len(gstin) > minGSTINLength {
			if _, err := r.directory.UpdateVendorGSTIN(ctx, match.ContactID, gstin); err != nil {
				// Failing loudly here keeps the user from booking a
				// half-correct expense against a vendor stuck mid-update.
				return "", fmt.Errorf("%s: %w: %v", op, ErrGSTINRejected, err)
			}
		}
		return match.ContactID, nil
	}

	treatment := models.GSTTreatmentBusinessNone
	if gstin != "" {
		treatment = models.GSTTreatmentBusinessGST
	}

	created, err := r.directory.CreateVendor(ctx, name, gstin, treatment)
	if err != nil {
		return "", fmt.Errorf("%s: %w: create failed: %v", op, ErrVendorResolution, err)
	}

	r.log.Info().
		Str("contact_id", created.ContactID).
		Str("name", name).
		Str("gst_treatment", treatment).
		Msg("Created new vendor")

	return created.ContactID, nil
}
