package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"

	"invoicebridge/pkg/models"
)

type expenseResponse struct {
	apiEnvelope
	Expense models.Expense `json:"expense"`
}

// CreateExpense books an expense record in the ledger.
func (c *Client) CreateExpense(ctx context.Context, payload models.ExpensePayload) (*models.Expense, error) {
	const op = "CreateExpense"

	var resp expenseResponse
	if err := c.request(ctx, http.MethodPost, "/expenses", nil, payload, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := checkEnvelope(resp.apiEnvelope); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c.log.Info().
		Str("expense_id", resp.Expense.ExpenseID).
		Str("reference", resp.Expense.ReferenceNumber).
		Float64("total", resp.Expense.Total).
		Msg("Expense created in ledger")

	return &resp.Expense, nil
}

// AttachReceipt uploads the original document against an already-created
// expense. Failures here never unwind the expense; they surface as
// ErrAttachment so the caller can retry the upload manually.
func (c *Client) AttachReceipt(ctx context.Context, expenseID, filePath, fileName string) error {
	const op = "AttachReceipt"

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("%s: %w: failed to open %s: %v", op, ErrAttachment, filePath, err)
	}
	defer file.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("attachment", fileName)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrAttachment, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrAttachment, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrAttachment, err)
	}

	params := url.Values{"organization_id": {c.orgID}}
	endpoint := fmt.Sprintf("%s/expenses/%s/attachment?%s", c.baseURL, expenseID, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrAttachment, err)
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+token)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrAttachment, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrAttachment, err)
	}

	var env apiEnvelope
	if resp.StatusCode >= http.StatusBadRequest {
		if json.Unmarshal(data, &env) == nil && env.Message != "" {
			return fmt.Errorf("%s: %w: %s (code: %d)", op, ErrAttachment, env.Message, env.Code)
		}
		return fmt.Errorf("%s: %w: status %d", op, ErrAttachment, resp.StatusCode)
	}
	if json.Unmarshal(data, &env) == nil && env.Code != 0 {
		return fmt.Errorf("%s: %w: %s (code: %d)", op, ErrAttachment, env.Message, env.Code)
	}

	c.log.Info().
		Str("expense_id", expenseID).
		Str("file", fileName).
		Msg("Receipt attached to expense")

	return nil
}
