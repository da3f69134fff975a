// Package auth abstracts where Gmail access tokens come from. The normal
// path is the Nango broker; a direct Google OAuth refresh-token path exists
// as an operator fallback. Either way, callers receive an oauth2.Token that
// is valid at the moment of return and build a fresh Gmail client from it.
package auth
