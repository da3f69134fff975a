// Package common provides shared utilities for MCP tool implementations.
// Its handler wrappers add metrics and audit logging around tool handlers
// so every tool records invocations the same way.
package common
