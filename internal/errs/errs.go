// Package errs defines the error taxonomy shared by the broker client, the
// Gmail operations layer and the tool handlers. Callers classify failures
// with errors.Is against these sentinels; the concrete cause is carried in
// the wrapped error chain.
package errs

import "errors"

var (
	// ErrAuthentication indicates the broker or provider rejected our
	// credentials (invalid secret key or expired access token).
	ErrAuthentication = errors.New("authentication failed")

	// ErrNotFound indicates an unknown connection or message id.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable indicates a network failure or an unexpected
	// status from the broker or the Gmail API.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrMalformedResponse indicates the broker or provider returned a body
	// that decodes but is missing an expected field.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrValidation indicates a caller-supplied parameter is invalid. It is
	// always raised before any network call is made.
	ErrValidation = errors.New("invalid argument")

	// ErrInvalidCredential indicates a Gmail client could not be built from
	// the acquired token (e.g. empty access token).
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrProvider indicates a Gmail API call failed for a reason not covered
	// by the more specific sentinels above.
	ErrProvider = errors.New("provider error")

	// ErrFileNotFound indicates a caller-supplied attachment path does not
	// exist or cannot be read.
	ErrFileNotFound = errors.New("file not found")
)
