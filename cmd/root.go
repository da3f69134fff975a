package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the gmail-mcp application
var rootCmd = &cobra.Command{
	Use:   "gmail-mcp",
	Short: "MCP server exposing Gmail operations through a Nango token broker",
	Long: `gmail-mcp is a Model Context Protocol server that exposes Gmail account
operations (list, search, read, send, delete, mark-as-read, statistics) as
tools for AI assistants.

Gmail credentials are never stored locally: each operation exchanges a Nango
connection id for a short-lived access token at invocation time.`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "gmail-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
