package instrumentation

import "strings"

// Cardinality management helpers for metrics.
// These functions reduce high-cardinality label values before they reach the
// metrics backend. Message ids and connection ids must never be used as
// metric labels directly.

// ExtractUserDomain extracts the domain part from an email address.
// This reduces cardinality by using the domain instead of the full address.
//
// Example:
//
//	ExtractUserDomain("jane@example.com")  // "example.com"
//	ExtractUserDomain("invalid")           // "unknown"
//	ExtractUserDomain("")                  // "unknown"
func ExtractUserDomain(email string) string {
	if email == "" {
		return "unknown"
	}

	parts := strings.Split(email, "@")
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}

	return "unknown"
}

// Common operation types for Gmail API metrics.
// Status and result constants are defined in config.go.
const (
	OperationList   = "list"
	OperationGet    = "get"
	OperationSearch = "search"
	OperationSend   = "send"
	OperationModify = "modify"
	OperationDelete = "delete"
	OperationStats  = "stats"
)
