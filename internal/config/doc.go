// Package config loads process-wide configuration from the environment once
// at startup. The resulting Config struct is passed explicitly to
// constructors; no other package reads credential environment variables.
//
// Two credential paths exist: the Nango token broker (normal operation) and
// a direct Google OAuth fallback that bypasses the broker when
// GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_REFRESH_TOKEN are all
// set.
package config
