package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/nangokit/gmail-mcp/internal/config"
	"github.com/nangokit/gmail-mcp/internal/nango"
)

// CredentialSource yields an access token valid at the moment of return.
// Implementations must be safe for concurrent use; each tool invocation
// calls Token once and discards the result afterwards.
type CredentialSource interface {
	Token(ctx context.Context) (*oauth2.Token, error)
}

// BrokerSource acquires tokens from the Nango broker on every call. It holds
// no token state, matching the broker's role as the single owner of durable
// credentials.
type BrokerSource struct {
	client        *nango.Client
	connectionID  string
	integrationID string
}

// NewBrokerSource creates a broker-backed credential source.
func NewBrokerSource(client *nango.Client, connectionID, integrationID string) *BrokerSource {
	return &BrokerSource{
		client:        client,
		connectionID:  connectionID,
		integrationID: integrationID,
	}
}

// Token fetches the current access token for the configured connection.
func (s *BrokerSource) Token(ctx context.Context) (*oauth2.Token, error) {
	creds, err := s.client.ConnectionCredentials(ctx, s.connectionID, s.integrationID)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		TokenType:    creds.TokenType,
		Expiry:       creds.ExpiresAt,
	}, nil
}

// DirectOAuthSource mints access tokens from a long-lived refresh token
// against Google's token endpoint, bypassing the broker entirely. Used when
// the GOOGLE_* fallback variables are configured.
type DirectOAuthSource struct {
	ts oauth2.TokenSource
}

// NewDirectOAuthSource creates the fallback source from static OAuth client
// credentials and a refresh token.
func NewDirectOAuthSource(ctx context.Context, cfg config.GoogleConfig) *DirectOAuthSource {
	conf := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
	}

	// ReuseTokenSource keeps the short-lived access token until expiry and
	// refreshes transparently, so the fallback path behaves like the broker:
	// every Token call returns a currently valid credential.
	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})
	return &DirectOAuthSource{ts: ts}
}

// Token returns a currently valid access token, refreshing if needed.
func (s *DirectOAuthSource) Token(ctx context.Context) (*oauth2.Token, error) {
	token, err := s.ts.Token()
	if err != nil {
		return nil, fmt.Errorf("refresh direct OAuth token: %w", err)
	}
	return token, nil
}

// NewFromConfig selects the credential path: direct OAuth when fully
// configured, otherwise the Nango broker.
func NewFromConfig(ctx context.Context, cfg *config.Config) (CredentialSource, error) {
	if cfg.HasDirectOAuth() {
		return NewDirectOAuthSource(ctx, cfg.Google), nil
	}

	client, err := nango.NewClient(cfg.Nango.BaseURL, cfg.Nango.SecretKey)
	if err != nil {
		return nil, fmt.Errorf("create broker client: %w", err)
	}
	return NewBrokerSource(client, cfg.Nango.ConnectionID, cfg.Nango.IntegrationID), nil
}
