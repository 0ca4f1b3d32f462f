package ledger

import (
	"context"
	"fmt"
	"net/http"

	"invoicebridge/pkg/models"
)

type taxesResponse struct {
	apiEnvelope
	Taxes []models.TaxRule `json:"taxes"`
}

// ListTaxes returns the ledger's tax rules, fetched fresh per request.
func (c *Client) ListTaxes(ctx context.Context) ([]models.TaxRule, error) {
	const op = "ListTaxes"

	var resp taxesResponse
	if err := c.request(ctx, http.MethodGet, "/settings/taxes", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp.Taxes, nil
}
