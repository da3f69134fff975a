package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nangokit/gmail-mcp/internal/auth"
	"github.com/nangokit/gmail-mcp/internal/config"
	"github.com/nangokit/gmail-mcp/internal/logging"
)

const checkTimeout = 15 * time.Second

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check broker configuration and connectivity",
		Long: `Report which credential settings are present and perform a live token
fetch against the configured broker (or Google, for the direct OAuth
fallback). Secrets are printed masked.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck()
		},
	}
}

func runCheck() error {
	cfg := config.FromEnv()

	fmt.Println("Configuration:")
	fmt.Printf("  NANGO_BASE_URL:       %s\n", orUnset(cfg.Nango.BaseURL))
	fmt.Printf("  NANGO_SECRET_KEY:     %s\n", maskedOrUnset(cfg.Nango.SecretKey))
	fmt.Printf("  NANGO_CONNECTION_ID:  %s\n", orUnset(cfg.Nango.ConnectionID))
	fmt.Printf("  NANGO_INTEGRATION_ID: %s\n", orUnset(cfg.Nango.IntegrationID))
	if cfg.HasDirectOAuth() {
		fmt.Println("  Direct Google OAuth:  configured (broker bypassed)")
	}
	fmt.Println()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration incomplete: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	source, err := auth.NewFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("building credential source: %w", err)
	}

	fmt.Println("Fetching credentials...")
	start := time.Now()
	token, err := source.Token(ctx)
	if err != nil {
		return fmt.Errorf("credential fetch failed: %w", err)
	}

	fmt.Printf("Credential fetch succeeded in %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Printf("  Access token: %s\n", logging.SanitizeToken(token.AccessToken))
	if !token.Expiry.IsZero() {
		fmt.Printf("  Expires:      %s\n", token.Expiry.Format(time.RFC3339))
	}
	return nil
}

func orUnset(v string) string {
	if v == "" {
		return "<unset>"
	}
	return v
}

func maskedOrUnset(v string) string {
	if v == "" {
		return "<unset>"
	}
	return logging.SanitizeToken(v)
}
