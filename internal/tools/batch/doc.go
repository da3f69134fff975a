// Package batch provides helpers for tools that act on multiple message ids.
//
// This package includes helpers for:
//   - Parsing parameters that accept both single values and arrays
//   - Processing each id independently and reporting partial failures
//   - Aggregating per-id results in a consistent structure
package batch
