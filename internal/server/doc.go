// Package server provides the MCP server context, health probes, and the
// dedicated metrics server for the gmail-mcp application.
//
// # Key Components
//
// ServerContext carries the resolved configuration and the credential
// source. It builds a fresh Gmail client per tool invocation: credentials
// are fetched from the broker (or refreshed directly against Google) on
// every call and never cached, so revocation takes effect immediately.
//
// HealthChecker serves /healthz and /readyz for Kubernetes probes when the
// server runs over the streamable HTTP transport.
//
// MetricsServer exposes Prometheus metrics on a dedicated port, isolated
// from MCP traffic.
package server
