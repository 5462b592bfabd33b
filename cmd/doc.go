// Package cmd implements the command-line interface for gmail-dashboard.
//
// This package provides the following commands:
//   - serve: Start the dashboard HTTP server
//   - authorize: Run the OAuth authorization flow from the terminal
//   - mcp: Start the MCP server on stdio for AI assistants
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
