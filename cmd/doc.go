// Package cmd implements the gmail-mcp command line interface.
//
// The serve command starts the MCP server over stdio or streamable HTTP.
// The check command reports broker configuration and performs a live
// credential fetch. generate-docs renders the registered tool schemas as
// markdown.
package cmd
