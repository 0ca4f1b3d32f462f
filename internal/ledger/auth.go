package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"invoicebridge/internal/logger"
)

// expirySlack is how long before the declared expiry a cached token is
// treated as stale, so requests never race the issuer's clock.
const expirySlack = 60 * time.Second

// TokenSource exchanges a refresh token for access tokens and caches the
// result until shortly before expiry. It is process-wide and deliberately
// unlocked: concurrent requests racing a refresh at worst refresh twice,
// which is idempotent from the issuer's perspective.
type TokenSource struct {
	clientID     string
	clientSecret string
	refreshToken string
	tokenURL     string

	httpClient *http.Client
	now        func() time.Time
	log        zerolog.Logger

	token  string
	expiry time.Time
}

// TokenConfig holds the refresh-token grant credentials.
type TokenConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	TokenURL     string
}

// NewTokenSource creates a token source using the default HTTP client.
func NewTokenSource(cfg TokenConfig) *TokenSource {
	return NewTokenSourceWithDeps(cfg, http.DefaultClient, time.Now)
}

// NewTokenSourceWithDeps creates a token source with an explicit HTTP client
// and clock (for testing expiry and refresh behavior deterministically).
func NewTokenSourceWithDeps(cfg TokenConfig, httpClient *http.Client, now func() time.Time) *TokenSource {
	return &TokenSource{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		refreshToken: cfg.RefreshToken,
		tokenURL:     cfg.TokenURL,
		httpClient:   httpClient,
		now:          now,
		log:          logger.WithComponent("ledger-auth"),
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error"`
}

// Token returns a currently valid access token, refreshing transparently
// when the cached one is unset or within expirySlack of its declared expiry.
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	const op = "Token"

	if t.token != "" && t.now().Before(t.expiry) {
		return t.token, nil
	}

	t.log.Info().Msg("Refreshing ledger access token")

	params := url.Values{
		"refresh_token": {t.refreshToken},
		"client_id":     {t.clientID},
		"client_secret": {t.clientSecret},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tokenURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("%s: failed to build refresh request: %w", op, err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.invalidate()
		return "", fmt.Errorf("%s: token refresh request failed: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.invalidate()
		return "", fmt.Errorf("%s: failed to read refresh response: %w", op, err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		t.invalidate()
		return "", fmt.Errorf("%s: failed to decode refresh response: %w", op, err)
	}

	if tr.Error != "" || tr.AccessToken == "" {
		t.invalidate()
		return "", fmt.Errorf("%s: %w: issuer said %q", op, ErrAuthFailed, tr.Error)
	}

	t.token = tr.AccessToken
	t.expiry = t.now().Add(time.Duration(tr.ExpiresIn)*time.Second - expirySlack)

	t.log.Info().
		Time("expiry", t.expiry).
		Msg("Ledger access token refreshed")

	return t.token, nil
}

func (t *TokenSource) invalidate() {
	t.token = ""
	t.expiry = time.Time{}
}
