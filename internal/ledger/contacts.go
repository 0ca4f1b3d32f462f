package ledger

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"invoicebridge/pkg/models"
)

type contactsResponse struct {
	apiEnvelope
	Contacts []models.Vendor `json:"contacts"`
}

type contactResponse struct {
	apiEnvelope
	Contact models.Vendor `json:"contact"`
}

// SearchVendors returns vendors whose name relates to the given text,
// as judged by the ledger's own search.
func (c *Client) SearchVendors(ctx context.Context, name string) ([]models.Vendor, error) {
	const op = "SearchVendors"

	params := url.Values{
		"contact_type": {"vendor"},
		"search_text":  {name},
	}

	var resp contactsResponse
	if err := c.request(ctx, http.MethodGet, "/contacts", params, nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp.Contacts, nil
}

// ListVendors returns the vendor contacts for lookup population.
func (c *Client) ListVendors(ctx context.Context) ([]models.Vendor, error) {
	const op = "ListVendors"

	params := url.Values{
		"contact_type": {"vendor"},
		"per_page":     {"200"},
	}

	var resp contactsResponse
	if err := c.request(ctx, http.MethodGet, "/contacts", params, nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp.Contacts, nil
}

type createContactPayload struct {
	ContactName  string `json:"contact_name"`
	ContactType  string `json:"contact_type"`
	GSTNo        string `json:"gst_no,omitempty"`
	GSTTreatment string `json:"gst_treatment"`
}

// CreateVendor creates a new vendor contact. An empty gstin creates an
// unregistered vendor regardless of the passed treatment.
func (c *Client) CreateVendor(ctx context.Context, name, gstin, gstTreatment string) (*models.Vendor, error) {
	const op = "CreateVendor"

	payload := createContactPayload{
		ContactName: name,
		ContactType: "vendor",
	}
	if gstin != "" {
		payload.GSTNo = gstin
		if gstTreatment == "" {
			gstTreatment = models.GSTTreatmentBusinessGST
		}
		payload.GSTTreatment = gstTreatment
	} else {
		payload.GSTTreatment = models.GSTTreatmentBusinessNone
	}

	var resp contactResponse
	if err := c.request(ctx, http.MethodPost, "/contacts", nil, payload, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := checkEnvelope(resp.apiEnvelope); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.log.Info().
		Str("contact_id", resp.Contact.ContactID).
		Str("name", name).
		Str("gst_treatment", payload.GSTTreatment).
		Msg("Vendor created in ledger")

	return &resp.Contact, nil
}

type vendorUpdatePayload struct {
	GSTNo        string `json:"gst_no"`
	GSTTreatment string `json:"gst_treatment"`
}

// UpdateVendorGSTIN attaches a tax id to an existing vendor and marks it
// GST-registered. The ledger validates the id; a rejection surfaces as an
// APIError and must abort the caller's submission.
func (c *Client) UpdateVendorGSTIN(ctx context.Context, vendorID, gstin string) (*models.Vendor, error) {
	const op = "UpdateVendorGSTIN"

	payload := vendorUpdatePayload{
		GSTNo:        gstin,
		GSTTreatment: models.GSTTreatmentBusinessGST,
	}

	var resp contactResponse
	if err := c.request(ctx, http.MethodPut, "/contacts/"+vendorID, nil, payload, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := checkEnvelope(resp.apiEnvelope); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.log.Info().
		Str("contact_id", vendorID).
		Str("gstin", gstin).
		Msg("Vendor GSTIN updated in ledger")

	return &resp.Contact, nil
}
