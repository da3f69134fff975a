// Package nango implements the client side of the Nango token broker's
// connection-credentials endpoint.
//
// The broker stores and refreshes end-user Gmail OAuth tokens on our behalf;
// this client exchanges a connection id plus integration id for the current
// access token. There is deliberately no caching and no retry: each tool
// invocation re-acquires a token, and failures are classified into the
// sentinels of the errs package for the caller to act on.
package nango
