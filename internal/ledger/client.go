package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"invoicebridge/internal/logger"
)

// tokenProvider is the slice of TokenSource the client needs.
type tokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// Client is a stateless authenticated wrapper over the ledger's resource
// APIs. Every call carries the organization scope and a bearer token; read
// calls never cache beyond one request, since reference data can change
// between sessions.
type Client struct {
	baseURL    string
	orgID      string
	tokens     tokenProvider
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a ledger client.
func NewClient(baseURL, orgID string, tokens *TokenSource) *Client {
	return NewClientWithDeps(baseURL, orgID, tokens, http.DefaultClient)
}

// NewClientWithDeps creates a ledger client with explicit dependencies
// (for testing).
func NewClientWithDeps(baseURL, orgID string, tokens tokenProvider, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		orgID:      orgID,
		tokens:     tokens,
		httpClient: httpClient,
		log:        logger.WithComponent("ledger"),
	}
}

// apiEnvelope carries the ledger-level status embedded in every response
// body. Code zero means accepted; anything else is a rejection regardless
// of the HTTP status.
type apiEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// request performs one authenticated JSON call and decodes the body into out.
func (c *Client) request(ctx context.Context, method, endpoint string, params url.Values, payload, out any) error {
	const op = "request"

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("organization_id", c.orgID)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%s: failed to marshal payload: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint+"?"+params.Encode(), body)
	if err != nil {
		return fmt.Errorf("%s: failed to build request: %w", op, err)
	}
	req.Header.Set("Authorization", "Zoho-oauthtoken "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %s %s failed: %w", op, method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: failed to read response: %w", op, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		// Surface the ledger's own message when the body carries one.
		var env apiEnvelope
		if json.Unmarshal(data, &env) == nil && env.Message != "" {
			return &APIError{Code: env.Code, Message: env.Message}
		}
		return fmt.Errorf("%s: %s %s returned status %d", op, method, endpoint, resp.StatusCode)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s: failed to decode response: %w", op, err)
		}
	}

	return nil
}

// checkEnvelope converts a non-zero embedded status into an APIError.
// Mutating calls must run their responses through this: HTTP 200 with a
// business-logic failure is the common case for this API family.
func checkEnvelope(env apiEnvelope) error {
	if env.Code != 0 {
		return &APIError{Code: env.Code, Message: env.Message}
	}
	return nil
}
