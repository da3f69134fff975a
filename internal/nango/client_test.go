package nango

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nangokit/gmail-mcp/internal/errs"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(srv.URL, "sk-test", WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	return client, srv
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient("", "sk")
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = NewClient("https://api.nango.dev", "")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestConnectionCredentialsRequestShape(t *testing.T) {
	var gotPath, gotAuth, gotKey, gotRefresh string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.URL.Query().Get("provider_config_key")
		gotRefresh = r.URL.Query().Get("refresh_token")
		w.Write([]byte(`{"access_token":"tok-1"}`))
	})

	creds, err := client.ConnectionCredentials(context.Background(), "conn-1", "google-mail")
	require.NoError(t, err)

	assert.Equal(t, "/connection/conn-1", gotPath)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "google-mail", gotKey)
	assert.Equal(t, "true", gotRefresh)
	assert.Equal(t, "tok-1", creds.AccessToken)
	assert.Equal(t, "Bearer", creds.TokenType)
}

func TestConnectionCredentialsDefaultsIntegration(t *testing.T) {
	var gotKey string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("provider_config_key")
		w.Write([]byte(`{"access_token":"tok-1"}`))
	})

	_, err := client.ConnectionCredentials(context.Background(), "conn-1", "")
	require.NoError(t, err)
	assert.Equal(t, "google", gotKey)
}

func TestConnectionCredentialsResponseShapes(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantToken   string
		wantRefresh string
		wantExpiry  bool
	}{
		{
			name:      "top level access token",
			body:      `{"access_token":"top","refresh_token":"r1"}`,
			wantToken: "top", wantRefresh: "r1",
		},
		{
			name:      "nested credentials object",
			body:      `{"credentials":{"access_token":"nested","refresh_token":"r2","expires_at":"2026-09-01T10:00:00Z"}}`,
			wantToken: "nested", wantRefresh: "r2", wantExpiry: true,
		},
		{
			name:      "legacy token field",
			body:      `{"token":"legacy"}`,
			wantToken: "legacy",
		},
		{
			name:      "unparseable expiry is ignored",
			body:      `{"credentials":{"access_token":"ok","expires_at":"not-a-time"}}`,
			wantToken: "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})

			creds, err := client.ConnectionCredentials(context.Background(), "conn-1", "google")
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, creds.AccessToken)
			assert.Equal(t, tt.wantRefresh, creds.RefreshToken)
			if tt.wantExpiry {
				assert.Equal(t, time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), creds.ExpiresAt)
			} else {
				assert.True(t, creds.ExpiresAt.IsZero())
			}
		})
	}
}

func TestConnectionCredentialsErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "invalid secret", status: http.StatusUnauthorized, body: `{}`, wantErr: errs.ErrAuthentication},
		{name: "forbidden", status: http.StatusForbidden, body: `{}`, wantErr: errs.ErrAuthentication},
		{name: "unknown connection", status: http.StatusNotFound, body: `{}`, wantErr: errs.ErrNotFound},
		{name: "broker outage", status: http.StatusBadGateway, body: ``, wantErr: errs.ErrUpstreamUnavailable},
		{name: "rate limited", status: http.StatusTooManyRequests, body: ``, wantErr: errs.ErrUpstreamUnavailable},
		{name: "tokenless body", status: http.StatusOK, body: `{"connection_id":"conn-1"}`, wantErr: errs.ErrMalformedResponse},
		{name: "invalid json", status: http.StatusOK, body: `{not json`, wantErr: errs.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.ConnectionCredentials(context.Background(), "conn-1", "google")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConnectionCredentialsNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client, err := NewClient(srv.URL, "sk-test", WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	srv.Close() // connection refused from here on

	_, err = client.ConnectionCredentials(context.Background(), "conn-1", "google")
	assert.ErrorIs(t, err, errs.ErrUpstreamUnavailable)
}

func TestConnectionCredentialsEmptyConnectionID(t *testing.T) {
	called := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.ConnectionCredentials(context.Background(), "", "google")
	assert.ErrorIs(t, err, errs.ErrValidation)
	assert.False(t, called, "validation must fail before any request")
}
