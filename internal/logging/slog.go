package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation  = "operation"
	KeyTool       = "tool"
	KeyConnection = "connection"
	KeyDuration   = "duration"
	KeyStatus     = "status"
	KeyError      = "error"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Setup configures the default slog logger. All output goes to stderr so the
// stdio MCP transport keeps stdout reserved for protocol frames.
func Setup(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Tool returns a slog attribute for the tool name.
func Tool(tool string) slog.Attr {
	return slog.String(KeyTool, tool)
}

// Connection returns a slog attribute for the broker connection id.
// Connection ids are operator-chosen and may embed user identifiers, so the
// value is hashed rather than logged verbatim.
func Connection(id string) slog.Attr {
	return slog.String(KeyConnection, AnonymizeID(id))
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Err returns a slog attribute for an error. If err is nil, returns an empty
// Group attribute that will be omitted from output, so Err(maybeNilErr) is
// always safe to pass.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeID returns a hashed representation of an identifier for logging.
// This allows correlation of log entries without exposing PII.
func AnonymizeID(id string) string {
	if id == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(id))
	return "id:" + hex.EncodeToString(hash[:8])
}

// SanitizeToken returns a masked version of a token for logging. It returns a
// length indicator without exposing any token content, as even partial token
// prefixes can aid attacks.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
