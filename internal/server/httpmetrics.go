package server

import (
	"net/http"
	"time"

	"github.com/nangokit/gmail-mcp/internal/instrumentation"
)

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// HTTPMetricsHandler wraps the streamable-http mux and records request
// counts and latency per method, path and status. Requests to the MCP
// endpoint also bump the active session gauge for the time they are in
// flight. A nil metrics recorder passes requests through untouched.
func HTTPMetricsHandler(metrics *instrumentation.Metrics, mcpPath string, next http.Handler) http.Handler {
	if metrics == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if r.URL.Path == mcpPath {
			metrics.IncrementActiveSessions(ctx)
			defer metrics.DecrementActiveSessions(ctx)
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		metrics.RecordHTTPRequest(ctx, r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
