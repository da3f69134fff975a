// Package logging provides slog setup and shared attribute helpers so log
// lines use uniform keys across the broker client, Gmail operations and tool
// handlers. Secrets and connection ids never appear verbatim in log output;
// use SanitizeToken and AnonymizeID.
package logging
