package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/nangokit/gmail-mcp/internal/logging"
)

// Health status values reported by the probe endpoints.
const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
)

// Credential modes reported by the readiness and detailed endpoints.
const (
	credentialModeBroker      = "broker"
	credentialModeDirectOAuth = "direct-oauth"
	credentialModeNone        = "unconfigured"
)

// HealthChecker serves the liveness and readiness probes for the
// streamable-http transport. Readiness reflects the server context
// lifecycle and whether a credential path (broker or direct OAuth)
// is configured; it never calls out to the broker.
type HealthChecker struct {
	ready         atomic.Bool
	serverContext *ServerContext
	startTime     time.Time
}

// NewHealthChecker creates a HealthChecker that starts out ready.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{
		serverContext: sc,
		startTime:     time.Now(),
	}
	h.ready.Store(true)
	return h
}

// SetReady sets the readiness state of the server.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady returns whether the server is ready to receive traffic.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

func (h *HealthChecker) isServerShuttingDown() bool {
	return h.serverContext != nil && h.serverContext.IsShutdown()
}

// credentialMode reports which credential path the server was configured
// with. Empty when no server context is attached.
func (h *HealthChecker) credentialMode() string {
	if h.serverContext == nil {
		return ""
	}
	cfg := h.serverContext.Config()
	switch {
	case cfg.HasDirectOAuth():
		return credentialModeDirectOAuth
	case cfg.Nango.BaseURL != "" && cfg.Nango.SecretKey != "" && cfg.Nango.ConnectionID != "":
		return credentialModeBroker
	default:
		return credentialModeNone
	}
}

// HealthResponse is the JSON body of the liveness and readiness endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse is the JSON body of the detailed endpoint. The
// connection id is anonymized; raw identifiers never leave the process.
type DetailedHealthResponse struct {
	Status      string `json:"status"`
	Uptime      string `json:"uptime"`
	Credentials string `json:"credentials,omitempty"`
	Integration string `json:"integration,omitempty"`
	Connection  string `json:"connection,omitempty"`
}

// LivenessHandler returns the handler for /healthz. Liveness only says the
// process is up, so it always reports ok.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)

		_ = json.NewEncoder(w).Encode(HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler returns the handler for /readyz. The server is ready when
// it has not been marked unready, is not shutting down, and has a complete
// credential configuration.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		checks := make(map[string]string)
		allOk := true

		if h.ready.Load() {
			checks["ready"] = healthStatusOK
		} else {
			checks["ready"] = healthStatusNotReady
			allOk = false
		}

		if h.isServerShuttingDown() {
			checks["shutdown"] = healthStatusShuttingDown
			allOk = false
		} else {
			checks["shutdown"] = healthStatusOK
		}

		if mode := h.credentialMode(); mode != "" {
			checks["credentials"] = mode
			if mode == credentialModeNone {
				allOk = false
			}
		}

		response := HealthResponse{Checks: checks}
		if allOk {
			response.Status = healthStatusOK
			w.WriteHeader(http.StatusOK)
		} else {
			response.Status = healthStatusNotReady
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// DetailedHealthHandler returns the handler for /healthz/detailed. Beyond the
// probe status it reports uptime and how the server authenticates to Gmail.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		response := DetailedHealthResponse{
			Status:      healthStatusOK,
			Uptime:      time.Since(h.startTime).Truncate(time.Second).String(),
			Credentials: h.credentialMode(),
		}
		if h.serverContext != nil {
			cfg := h.serverContext.Config()
			response.Integration = cfg.Nango.IntegrationID
			response.Connection = logging.AnonymizeID(cfg.Nango.ConnectionID)
		}

		switch {
		case !h.ready.Load():
			response.Status = healthStatusNotReady
			w.WriteHeader(http.StatusServiceUnavailable)
		case h.isServerShuttingDown():
			response.Status = healthStatusShuttingDown
			w.WriteHeader(http.StatusServiceUnavailable)
		default:
			w.WriteHeader(http.StatusOK)
		}

		_ = json.NewEncoder(w).Encode(response)
	})
}

// RegisterHealthEndpoints registers the probe endpoints on the given mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}
