// Package upstox implements the token client against the Upstox OAuth
// endpoints. Both grants go through the same token endpoint; responses
// and structured error bodies are JSON.
package upstox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/meridian-labs/brokerauth-cli/internal/core/domain"
	"github.com/meridian-labs/brokerauth-cli/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.TokenClient = (*Client)(nil)

const (
	// DefaultTokenURL serves both the authorization-code and the
	// refresh-token grant.
	DefaultTokenURL = "https://api.upstox.com/v2/login/authorization/token"

	// DefaultDialogURL is where the operator authorizes the app.
	DefaultDialogURL = "https://api.upstox.com/v2/login/authorization/dialog"

	requestTimeout = 30 * time.Second
)

// Client performs token exchanges against the Upstox API. It is
// stateless; callers own persistence of returned credentials.
type Client struct {
	tokenURL   string
	dialogURL  string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithTokenURL overrides the token endpoint. Used in tests.
func WithTokenURL(u string) Option {
	return func(c *Client) { c.tokenURL = u }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates an Upstox token client. Exchange requests pass
// through a conservative rate limiter so a retrying caller cannot hammer
// the issuer.
func NewClient(opts ...Option) *Client {
	c := &Client{
		tokenURL:   DefaultTokenURL,
		dialogURL:  DefaultDialogURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second), 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ExchangeCode performs the authorization-code grant.
func (c *Client) ExchangeCode(ctx context.Context, code string, id domain.ClientIdentity) (domain.Credential, error) {
	if code == "" {
		return domain.Credential{}, fmt.Errorf("%w: empty authorization code", domain.ErrInvalidInput)
	}
	if err := id.Validate(); err != nil {
		return domain.Credential{}, err
	}

	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("client_id", id.ClientID)
	data.Set("client_secret", id.ClientSecret)
	data.Set("redirect_uri", id.RedirectURI)

	return c.exchange(ctx, "authorization-code exchange", data, false)
}

// ExchangeRefresh performs the refresh grant. A rejected refresh token
// surfaces as domain.ErrInvalidRefreshToken so callers can tell "rerun
// bootstrap" apart from a transient failure.
func (c *Client) ExchangeRefresh(ctx context.Context, refreshToken string, id domain.ClientIdentity) (domain.Credential, error) {
	if refreshToken == "" {
		return domain.Credential{}, domain.ErrRefreshTokenMissing
	}
	if err := id.Validate(); err != nil {
		return domain.Credential{}, err
	}

	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)
	data.Set("client_id", id.ClientID)
	data.Set("client_secret", id.ClientSecret)

	return c.exchange(ctx, "refresh exchange", data, true)
}

// AuthorizationURL builds the dialog URL the operator visits to obtain an
// authorization code.
func (c *Client) AuthorizationURL(id domain.ClientIdentity) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", id.ClientID)
	q.Set("redirect_uri", id.RedirectURI)
	return c.dialogURL + "?" + q.Encode()
}

// tokenResponse is the success body of either grant.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// errorResponse covers both the standard OAuth error body and the Upstox
// structured error list.
type errorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description"`
	Status      string `json:"status"`
	Errors      []struct {
		ErrorCode string `json:"errorCode"`
		Message   string `json:"message"`
	} `json:"errors"`
}

func (c *Client) exchange(ctx context.Context, op string, data url.Values, isRefresh bool) (domain.Credential, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.Credential{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return domain.Credential{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Credential{}, &domain.NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Credential{}, c.exchangeError(resp, isRefresh)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return domain.Credential{}, fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return domain.Credential{}, &domain.ExchangeError{
			StatusCode:  resp.StatusCode,
			Code:        "empty_response",
			Description: "no access token in response",
		}
	}

	return domain.Credential{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}, nil
}

// exchangeError maps a non-2xx response to the error taxonomy.
func (c *Client) exchangeError(resp *http.Response, isRefresh bool) error {
	var body errorResponse
	exErr := &domain.ExchangeError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		switch {
		case body.Error != "":
			exErr.Code = body.Error
			exErr.Description = body.Description
		case len(body.Errors) > 0:
			exErr.Code = body.Errors[0].ErrorCode
			exErr.Description = body.Errors[0].Message
		}
	}

	if isRefresh && rejectedRefreshToken(exErr) {
		return fmt.Errorf("%w: %s", domain.ErrInvalidRefreshToken, exErr.Error())
	}
	return exErr
}

// rejectedRefreshToken reports whether the error means the refresh token
// itself is invalid, as opposed to a generic exchange failure.
// "invalid_grant" is the standard OAuth code; UDAPI100057 is the Upstox
// invalid-token code.
func rejectedRefreshToken(e *domain.ExchangeError) bool {
	if e.Code == "invalid_grant" || e.Code == "UDAPI100057" {
		return true
	}
	return e.StatusCode == http.StatusUnauthorized
}
