package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the gmail-dashboard application
var rootCmd = &cobra.Command{
	Use:   "gmail-dashboard",
	Short: "Rule-based Gmail inbox dashboard backend",
	Long: `gmail-dashboard fetches recent Gmail messages and sorts them into named
client buckets using a keyword rules file.

It can run as:
  - An HTTP server exposing the inbox endpoints (default)
  - An MCP (Model Context Protocol) server for AI assistants`,
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
	rootCmd.SetVersionTemplate(`{{printf "gmail-dashboard version %s\n" .Version}}`)

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
	rootCmd.AddCommand(newAuthorizeCmd())
	rootCmd.AddCommand(newMCPCmd())
	rootCmd.AddCommand(newVersionCmd())
}
