package ledger

import (
	"context"
	"fmt"

	"invoicebridge/pkg/models"
)

// Lookup fetches the reference data one review session needs: vendors,
// tax rules and the chart of accounts split into expense and bank/cash
// views. Always a fresh snapshot of the ledger, never cached.
func (c *Client) Lookup(ctx context.Context) (*models.LookupBundle, error) {
	const op = "Lookup"

	vendors, err := c.ListVendors(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	taxes, err := c.ListTaxes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	accounts, err := c.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	bundle := &models.LookupBundle{
		Vendors:         vendors,
		Taxes:           taxes,
		ExpenseAccounts: FilterExpenseAccounts(accounts),
		BankAccounts:    FilterBankAccounts(accounts),
	}

	c.log.Info().
		Int("vendors", len(bundle.Vendors)).
		Int("taxes", len(bundle.Taxes)).
		Int("expense_accounts", len(bundle.ExpenseAccounts)).
		Int("bank_accounts", len(bundle.BankAccounts)).
		Msg("Lookup bundle fetched")

	return bundle, nil
}
