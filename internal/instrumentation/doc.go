// Package instrumentation provides OpenTelemetry instrumentation for the
// gmail-mcp server.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests, credential fetches, and Gmail API calls
//   - Distributed tracing for tool invocations and API calls
//   - Prometheus metrics export via /metrics endpoint on a dedicated port
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//   - active_sessions: Gauge of active MCP sessions
//
// Gmail API Metrics:
//   - gmail_api_operations_total: Counter of Gmail API operations by operation and status
//   - gmail_api_operation_duration_seconds: Histogram of Gmail API operation durations
//
// Credential Broker Metrics:
//   - broker_credential_fetches_total: Counter of credential fetches by result
//   - broker_credential_fetch_duration_seconds: Histogram of credential fetch durations
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - MCP tool invocations (tool.<name>)
//   - Gmail API calls (gmail.<operation>)
//   - Credential fetches (broker.credentials)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: gmail-mcp)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "gmail-mcp",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordGmailOperation(ctx, "list", "success", time.Since(start))
//	recorder.RecordToolInvocation(ctx, "gmail_list_messages", "success", time.Since(start))
package instrumentation
