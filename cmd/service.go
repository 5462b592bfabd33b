package cmd

import (
	"fmt"

	"github.com/ejack923/gmail-dashboard-backend/internal/config"
	"github.com/ejack923/gmail-dashboard-backend/internal/google"
	"github.com/ejack923/gmail-dashboard-backend/internal/inbox"
	"github.com/ejack923/gmail-dashboard-backend/internal/rules"
)

// buildService wires the rule set, OAuth flow, and token store into an
// inbox service. Shared by the serve, mcp, and authorize commands.
func buildService(cfg *config.Config, opts ...inbox.Option) (*inbox.Service, error) {
	rs, err := rules.Load(cfg.Rules.File)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	flow, err := google.NewAuthFlow(cfg.Auth.CredentialsFile, cfg.Auth.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth credentials: %w", err)
	}

	store := google.NewTokenStore(cfg.Auth.TokenFile)

	return inbox.NewService(flow, store, rs, cfg.Fetch, opts...), nil
}
