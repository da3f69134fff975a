package nango

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/nangokit/gmail-mcp/internal/errs"
	"github.com/nangokit/gmail-mcp/internal/logging"
)

// secureHTTPClient is a configured HTTP client with proper timeouts.
var secureHTTPClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	},
}

// Credentials is the token material returned by the broker for one
// connection. AccessToken is always set; the other fields depend on what the
// broker chose to include.
type Credentials struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	ExpiresAt    time.Time
}

// Client talks to the Nango connection-credentials endpoint. It performs no
// caching and no retries: every call is one HTTP round-trip, and the caller
// decides what to do on failure.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a broker client. baseURL is the API root without a
// trailing slash; secretKey is the operator-held bearer secret.
func NewClient(baseURL, secretKey string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: broker base URL is empty", errs.ErrValidation)
	}
	if secretKey == "" {
		return nil, fmt.Errorf("%w: broker secret key is empty", errs.ErrValidation)
	}

	c := &Client{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: secureHTTPClient,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// connectionResponse covers the response shapes the broker is known to
// produce: token fields at the top level, nested under "credentials", or the
// legacy "token" key.
type connectionResponse struct {
	AccessToken  string                 `json:"access_token"`
	RefreshToken string                 `json:"refresh_token"`
	Token        string                 `json:"token"`
	Credentials  *connectionCredentials `json:"credentials"`
}

type connectionCredentials struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresAt    string `json:"expires_at"`
}

// ConnectionCredentials exchanges a connection id for the current access
// token. integrationID selects the provider config at the broker and
// defaults to the Gmail integration when empty. The refresh_token=true query
// parameter asks the broker to refresh a stale token before answering, so a
// successful result is valid at the moment of return.
func (c *Client) ConnectionCredentials(ctx context.Context, connectionID, integrationID string) (*Credentials, error) {
	if connectionID == "" {
		return nil, fmt.Errorf("%w: connection id is empty", errs.ErrValidation)
	}
	if integrationID == "" {
		integrationID = "google"
	}

	endpoint := fmt.Sprintf("%s/connection/%s", c.baseURL, url.PathEscape(connectionID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build credentials request: %w", err)
	}

	q := req.URL.Query()
	q.Set("provider_config_key", integrationID)
	q.Set("refresh_token", "true")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: broker request failed: %v", errs.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: broker rejected secret key (status %d)", errs.ErrAuthentication, resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: connection %q unknown to broker", errs.ErrNotFound, connectionID)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: broker returned status %d", errs.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var body connectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode broker response: %v", errs.ErrMalformedResponse, err)
	}

	creds := body.credentials()
	if creds.AccessToken == "" {
		return nil, fmt.Errorf("%w: no access token in broker response", errs.ErrMalformedResponse)
	}

	c.logger.Debug("acquired broker credentials",
		logging.Connection(connectionID),
		slog.String("integration", integrationID),
		slog.String("access_token", logging.SanitizeToken(creds.AccessToken)),
	)

	return creds, nil
}

// credentials normalizes the response shapes into one Credentials value.
func (r *connectionResponse) credentials() *Credentials {
	creds := &Credentials{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		TokenType:    "Bearer",
	}

	if creds.AccessToken == "" && r.Credentials != nil {
		creds.AccessToken = r.Credentials.AccessToken
		creds.RefreshToken = r.Credentials.RefreshToken
		if r.Credentials.TokenType != "" {
			creds.TokenType = r.Credentials.TokenType
		}
		if r.Credentials.ExpiresAt != "" {
			// Expiry is advisory; an unparseable value is treated as absent.
			if t, err := time.Parse(time.RFC3339, r.Credentials.ExpiresAt); err == nil {
				creds.ExpiresAt = t
			}
		}
	}

	if creds.AccessToken == "" && r.Token != "" {
		creds.AccessToken = r.Token
	}

	return creds
}
