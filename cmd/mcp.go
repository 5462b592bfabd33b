package cmd

import (
	"context"
	"fmt"
	"log/slog"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/ejack923/gmail-dashboard-backend/internal/config"
	"github.com/ejack923/gmail-dashboard-backend/internal/inbox"
	"github.com/ejack923/gmail-dashboard-backend/internal/instrumentation"
	"github.com/ejack923/gmail-dashboard-backend/internal/tools/inbox_tools"
)

func newMCPCmd() *cobra.Command {
	var debugMode bool

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server on stdio",
		Long: `Start a Model Context Protocol server exposing the inbox and
authorization tools over standard input/output, for use by AI
assistants.

Tools: inbox_list_emails, inbox_grouped, inbox_summary, auth_status,
auth_url.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			setupLogging(debugMode)

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			return runMCP(cfg)
		},
	}

	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	return cmd
}

func runMCP(cfg *config.Config) error {
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	// stdio transport carries the protocol; keep the prometheus
	// listener out of the way unless explicitly enabled.
	instrConfig.Enabled = false

	provider, err := instrumentation.NewProvider(context.Background(), instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}

	service, err := buildService(cfg, inbox.WithMetrics(provider.Metrics()))
	if err != nil {
		return err
	}

	mcpSrv := mcpserver.NewMCPServer("gmail-dashboard", version,
		mcpserver.WithToolCapabilities(true),
	)

	if err := inbox_tools.RegisterInboxTools(mcpSrv, service, provider.Metrics()); err != nil {
		return fmt.Errorf("failed to register inbox tools: %w", err)
	}

	slog.Info("starting MCP server on stdio")
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}
