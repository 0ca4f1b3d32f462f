package ledger

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"invoicebridge/pkg/models"
)

type accountsResponse struct {
	apiEnvelope
	ChartOfAccounts []models.Account `json:"chartofaccounts"`
}

// ListAccounts returns the full chart of accounts; kind filtering happens
// client-side because the listing API has no server-side type filter worth
// relying on.
func (c *Client) ListAccounts(ctx context.Context) ([]models.Account, error) {
	const op = "ListAccounts"

	params := url.Values{"per_page": {"200"}}

	var resp accountsResponse
	if err := c.request(ctx, http.MethodGet, "/chartofaccounts", params, nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return resp.ChartOfAccounts, nil
}

// FilterExpenseAccounts keeps expense-like accounts.
func FilterExpenseAccounts(accounts []models.Account) []models.Account {
	var out []models.Account
	for _, a := range accounts {
		switch a.AccountType {
		case "expense", "cost_of_goods_sold", "other_expense":
			out = append(out, a)
		}
	}
	return out
}

// FilterBankAccounts keeps bank/cash-like accounts.
func FilterBankAccounts(accounts []models.Account) []models.Account {
	var out []models.Account
	for _, a := range accounts {
		switch a.AccountType {
		case "bank", "cash":
			out = append(out, a)
		}
	}
	return out
}

// FindPaidThroughAccount resolves the configured payment-source account by
// name: exact case-insensitive match first, then any bank account whose
// name contains the first word of the configured name.
func (c *Client) FindPaidThroughAccount(ctx context.Context, name string) (*models.Account, error) {
	const op = "FindPaidThroughAccount"

	accounts, err := c.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return matchAccountByName(FilterBankAccounts(accounts), name), nil
}

func matchAccountByName(accounts []models.Account, name string) *models.Account {
	lower := strings.ToLower(name)

	for i := range accounts {
		if strings.ToLower(accounts[i].AccountName) == lower {
			return &accounts[i]
		}
	}

	firstWord := strings.SplitN(lower, " ", 2)[0]
	if firstWord == "" {
		return nil
	}
	for i := range accounts {
		if strings.Contains(strings.ToLower(accounts[i].AccountName), firstWord) {
			return &accounts[i]
		}
	}

	return nil
}
