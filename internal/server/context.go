package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/nangokit/gmail-mcp/internal/auth"
	"github.com/nangokit/gmail-mcp/internal/config"
	"github.com/nangokit/gmail-mcp/internal/gmail"
	"github.com/nangokit/gmail-mcp/internal/instrumentation"
	"github.com/nangokit/gmail-mcp/internal/logging"
)

// GmailFactory builds a Gmail service from an access token. The default
// factory wraps gmail.NewClient; tests inject fakes.
type GmailFactory func(ctx context.Context, token *oauth2.Token) (gmail.Service, error)

// ServerContext holds the shared state for the MCP server: the resolved
// configuration, the credential source, and the observability hooks.
//
// Gmail clients are deliberately not cached here. Every tool invocation
// fetches fresh credentials and builds a new client, so a revoked or
// refreshed token takes effect on the very next call.
type ServerContext struct {
	ctx    context.Context
	cancel context.CancelFunc

	cfg    config.Config
	source auth.CredentialSource

	gmailFactory GmailFactory

	metrics *instrumentation.Metrics
	audit   *instrumentation.AuditLogger
	logger  *slog.Logger

	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new server context. The credential source is
// not exercised here; the first tool invocation surfaces broker problems.
func NewServerContext(ctx context.Context, cfg config.Config, source auth.CredentialSource) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	return &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		cfg:    cfg,
		source: source,
		gmailFactory: func(ctx context.Context, token *oauth2.Token) (gmail.Service, error) {
			return gmail.NewClient(ctx, token)
		},
		logger: slog.Default(),
	}
}

// Context returns the server context.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the resolved configuration.
func (sc *ServerContext) Config() config.Config {
	return sc.cfg
}

// ConnectionID returns the broker connection id the server acts on.
func (sc *ServerContext) ConnectionID() string {
	return sc.cfg.Nango.ConnectionID
}

// SetGmailFactory replaces the Gmail service factory. Used by tests to
// substitute a fake service.
func (sc *ServerContext) SetGmailFactory(factory GmailFactory) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.gmailFactory = factory
}

// SetMetrics attaches a metrics recorder. When unset, no metrics are recorded.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the attached metrics recorder, or nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger attaches an audit logger. When unset, no audit events are emitted.
func (sc *ServerContext) SetAuditLogger(a *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.audit = a
}

// AuditLogger returns the attached audit logger, or nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.audit
}

// GmailService fetches fresh credentials and builds a Gmail service for one
// tool invocation.
func (sc *ServerContext) GmailService(ctx context.Context) (gmail.Service, error) {
	sc.mu.RLock()
	factory := sc.gmailFactory
	metrics := sc.metrics
	sc.mu.RUnlock()

	start := time.Now()
	fetchCtx, span := instrumentation.StartBrokerSpan(ctx,
		instrumentation.NewSpanAttributeBuilder().
			WithConnection(logging.AnonymizeID(sc.cfg.Nango.ConnectionID)).
			Build()...)
	token, err := sc.source.Token(fetchCtx)
	instrumentation.SetSpanError(span, err)
	span.End()
	if metrics != nil {
		result := instrumentation.CredentialResultSuccess
		if err != nil {
			result = instrumentation.CredentialResultFailure
		}
		metrics.RecordCredentialFetch(ctx, result, time.Since(start))
	}
	if err != nil {
		return nil, fmt.Errorf("fetching credentials: %w", err)
	}

	sc.logger.Debug("credentials resolved",
		logging.Connection(sc.cfg.Nango.ConnectionID),
	)

	svc, err := factory(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("building gmail client: %w", err)
	}
	return svc, nil
}

// IsShutdown returns whether the server has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
