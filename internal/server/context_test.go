package server

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/oauth2"

	"github.com/nangokit/gmail-mcp/internal/config"
	"github.com/nangokit/gmail-mcp/internal/gmail"
)

type staticSource struct {
	token *oauth2.Token
	err   error
}

func (s *staticSource) Token(_ context.Context) (*oauth2.Token, error) {
	return s.token, s.err
}

type fakeGmailService struct {
	gmail.Service
}

func testConfig() config.Config {
	return config.Config{
		Nango: config.NangoConfig{
			BaseURL:       "https://api.nango.dev",
			SecretKey:     "secret",
			ConnectionID:  "conn-1",
			IntegrationID: "google",
		},
	}
}

func TestServerContext_GmailService(t *testing.T) {
	source := &staticSource{token: &oauth2.Token{AccessToken: "tok"}}
	sc := NewServerContext(context.Background(), testConfig(), source)
	defer func() { _ = sc.Shutdown() }()

	fake := &fakeGmailService{}
	var gotToken *oauth2.Token
	sc.SetGmailFactory(func(_ context.Context, token *oauth2.Token) (gmail.Service, error) {
		gotToken = token
		return fake, nil
	})

	svc, err := sc.GmailService(context.Background())
	if err != nil {
		t.Fatalf("GmailService() error = %v", err)
	}
	if svc != gmail.Service(fake) {
		t.Error("expected the factory-built service to be returned")
	}
	if gotToken == nil || gotToken.AccessToken != "tok" {
		t.Errorf("factory received token %+v, want access token 'tok'", gotToken)
	}
}

func TestServerContext_GmailService_FreshClientPerCall(t *testing.T) {
	source := &staticSource{token: &oauth2.Token{AccessToken: "tok"}}
	sc := NewServerContext(context.Background(), testConfig(), source)
	defer func() { _ = sc.Shutdown() }()

	calls := 0
	sc.SetGmailFactory(func(_ context.Context, _ *oauth2.Token) (gmail.Service, error) {
		calls++
		return &fakeGmailService{}, nil
	})

	for i := 0; i < 3; i++ {
		if _, err := sc.GmailService(context.Background()); err != nil {
			t.Fatalf("GmailService() error = %v", err)
		}
	}
	if calls != 3 {
		t.Errorf("factory called %d times, want 3 (no client caching)", calls)
	}
}

func TestServerContext_GmailService_CredentialError(t *testing.T) {
	wantErr := errors.New("broker unreachable")
	source := &staticSource{err: wantErr}
	sc := NewServerContext(context.Background(), testConfig(), source)
	defer func() { _ = sc.Shutdown() }()

	_, err := sc.GmailService(context.Background())
	if err == nil {
		t.Fatal("expected error from credential source")
	}
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want wrapped %v", err, wantErr)
	}
}

func TestServerContext_ConnectionID(t *testing.T) {
	sc := NewServerContext(context.Background(), testConfig(), &staticSource{})
	defer func() { _ = sc.Shutdown() }()

	if sc.ConnectionID() != "conn-1" {
		t.Errorf("ConnectionID() = %q, want %q", sc.ConnectionID(), "conn-1")
	}
}

func TestServerContext_Shutdown(t *testing.T) {
	sc := NewServerContext(context.Background(), testConfig(), &staticSource{})

	if sc.IsShutdown() {
		t.Error("new context should not be shut down")
	}

	if err := sc.Shutdown(); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
	if !sc.IsShutdown() {
		t.Error("context should be shut down")
	}

	// Second shutdown is a no-op
	if err := sc.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}

	select {
	case <-sc.Context().Done():
	default:
		t.Error("context should be cancelled after shutdown")
	}
}
