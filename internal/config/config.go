package config

import (
	"fmt"
	"os"
	"strings"
)

// DefaultIntegrationID is the provider config key used when none is
// configured. It must match the integration name registered in Nango.
const DefaultIntegrationID = "google"

// NangoConfig holds the connection parameters for the Nango token broker.
type NangoConfig struct {
	// BaseURL is the broker API root, e.g. https://api.nango.dev.
	BaseURL string

	// SecretKey is the operator-held secret used as a bearer credential
	// against the broker. It is never the end user's token.
	SecretKey string

	// ConnectionID identifies the end-user Gmail account at the broker.
	ConnectionID string

	// IntegrationID is the broker's provider config key for Gmail.
	IntegrationID string
}

// GoogleConfig holds the direct OAuth fallback credentials. When all three
// fields are set the broker is bypassed entirely and tokens are minted from
// the refresh token against Google's token endpoint.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Config is the process-wide configuration, loaded once at startup and passed
// explicitly to constructors. Nothing else in the codebase reads environment
// variables for credentials.
type Config struct {
	Nango  NangoConfig
	Google GoogleConfig
}

// FromEnv loads the configuration from environment variables.
//
// The project historically used two naming schemes for the broker settings
// (NANGO_* and NANGO_NANGO_*); the short names are canonical and the long
// ones are read as fallbacks so existing deployments keep working.
func FromEnv() *Config {
	cfg := &Config{
		Nango: NangoConfig{
			BaseURL:       firstEnv("NANGO_BASE_URL", "NANGO_NANGO_BASE_URL"),
			SecretKey:     firstEnv("NANGO_SECRET_KEY", "NANGO_NANGO_SECRET_KEY"),
			ConnectionID:  firstEnv("NANGO_CONNECTION_ID", "GMAIL_CONNECTION_ID"),
			IntegrationID: firstEnv("NANGO_INTEGRATION_ID", "NANGO_PROVIDER_CONFIG_KEY"),
		},
		Google: GoogleConfig{
			ClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
			ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
			RefreshToken: os.Getenv("GOOGLE_REFRESH_TOKEN"),
		},
	}

	if cfg.Nango.IntegrationID == "" {
		cfg.Nango.IntegrationID = DefaultIntegrationID
	}
	cfg.Nango.BaseURL = strings.TrimRight(cfg.Nango.BaseURL, "/")

	return cfg
}

// HasDirectOAuth reports whether the direct Google OAuth fallback is fully
// configured.
func (c *Config) HasDirectOAuth() bool {
	return c.Google.ClientID != "" && c.Google.ClientSecret != "" && c.Google.RefreshToken != ""
}

// Validate checks that at least one complete credential path is configured.
func (c *Config) Validate() error {
	if c.HasDirectOAuth() {
		return nil
	}

	var missing []string
	if c.Nango.BaseURL == "" {
		missing = append(missing, "NANGO_BASE_URL")
	}
	if c.Nango.SecretKey == "" {
		missing = append(missing, "NANGO_SECRET_KEY")
	}
	if c.Nango.ConnectionID == "" {
		missing = append(missing, "NANGO_CONNECTION_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("incomplete broker configuration, missing %s (or set GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_REFRESH_TOKEN for direct OAuth)",
			strings.Join(missing, ", "))
	}
	return nil
}

// firstEnv returns the value of the first environment variable in keys that
// is set to a non-empty value.
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
